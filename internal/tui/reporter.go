package tui

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"torchlive/internal/orchestrator"
)

// EventReporter adapts orchestrator events to row updates of a progress
// program laid out with TaskColumns.
type EventReporter struct {
	send func(tea.Msg)
}

// NewEventReporter returns a reporter that forwards rows with send.
func NewEventReporter(send func(tea.Msg)) *EventReporter {
	return &EventReporter{send: send}
}

// OnEvent implements orchestrator.Hooks.OnEvent.
func (r *EventReporter) OnEvent(ev orchestrator.Event) {
	r.send(RowUpdateMsg{Key: strconv.Itoa(ev.Index), Fields: EventFields(ev)})
}

// EventFields maps an event onto the TaskColumns headers.
func EventFields(ev orchestrator.Event) map[string]string {
	detail := ev.Message
	if ev.Err != nil {
		detail = firstLine(ev.Err.Error())
	}
	return map[string]string{
		"TASK":   ev.Title,
		"STATUS": string(ev.State),
		"DETAIL": detail,
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// PlainReporter writes one line per event for non-interactive output.
type PlainReporter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewPlainReporter(w io.Writer) *PlainReporter {
	return &PlainReporter{w: w}
}

// OnEvent implements orchestrator.Hooks.OnEvent.
func (r *PlainReporter) OnEvent(ev orchestrator.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case ev.State == orchestrator.StatePending:
		return
	case ev.State == orchestrator.StateRunning && ev.Message != "":
		fmt.Fprintf(r.w, "  %s\n", FaintStyle.Render(ev.Message))
	default:
		glyph := StatusStyle(string(ev.State)).Render(stateGlyphs[ev.State])
		fmt.Fprintf(r.w, "%s %s\n", glyph, ev.Title)
	}
}
