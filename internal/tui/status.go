package tui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// CheckSpinner keeps one terminal line showing the doctor check in flight.
// Doctor prints a static report at the end, so this runs without a
// bubbletea program.
type CheckSpinner struct {
	w      io.Writer
	titles chan string
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
}

// NewCheckSpinner starts drawing to w. Nothing is drawn until Begin.
func NewCheckSpinner(w io.Writer) *CheckSpinner {
	s := &CheckSpinner{
		w:      w,
		titles: make(chan string),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go s.draw(spinner.MiniDot)
	return s
}

// Begin shows title and restarts its timer.
func (s *CheckSpinner) Begin(title string) {
	select {
	case s.titles <- title:
	case <-s.done:
	}
}

// Stop erases the line and waits for the drawing goroutine. Repeated calls
// are no-ops.
func (s *CheckSpinner) Stop() {
	s.once.Do(func() { close(s.stop) })
	<-s.done
}

func (s *CheckSpinner) draw(sp spinner.Spinner) {
	defer close(s.done)
	ticker := time.NewTicker(sp.FPS)
	defer ticker.Stop()

	var (
		title string
		since time.Time
		frame int
	)
	for {
		select {
		case <-s.stop:
			fmt.Fprint(s.w, "\r\033[K")
			return
		case title = <-s.titles:
			since = time.Now()
		case <-ticker.C:
			if title == "" {
				continue
			}
			glyph := sp.Frames[frame%len(sp.Frames)]
			frame++
			fmt.Fprintf(s.w, "\r\033[K%s %s %s", glyph, title, FaintStyle.Render(checkElapsed(time.Since(since))))
		}
	}
}

// checkElapsed rounds d to the precision worth showing next to a check.
func checkElapsed(d time.Duration) string {
	switch {
	case d < time.Second:
		return d.Round(10 * time.Millisecond).String()
	case d < time.Minute:
		return d.Round(100 * time.Millisecond).String()
	default:
		return d.Round(time.Second).String()
	}
}
