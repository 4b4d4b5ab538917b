package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrPromptCancelled is returned when the user quits while a prompt is open.
var ErrPromptCancelled = errors.New("prompt cancelled")

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Accept key.Binding
	Yes    key.Binding
	No     key.Binding
	Cancel key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Accept: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "accept")),
	Yes:    key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
	No:     key.NewBinding(key.WithKeys("n", "N"), key.WithHelp("n", "no")),
	Cancel: key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "cancel")),
}

type promptState struct {
	promptMsg
	cursor int
	input  textinput.Model
}

func newPromptState(msg promptMsg) *promptState {
	p := &promptState{promptMsg: msg}
	if msg.kind == promptPassword {
		p.input = textinput.New()
		p.input.EchoMode = textinput.EchoPassword
		p.input.Prompt = "> "
	}
	return p
}

func (p *promptState) focus() tea.Cmd {
	if p.kind != promptPassword {
		return nil
	}
	return p.input.Focus()
}

func (p *promptState) answer(r promptReply) {
	p.reply <- r
}

// update handles a key press. finished means the prompt has been answered;
// cancelled means the user asked to quit.
func (p *promptState) update(msg tea.KeyMsg) (finished, cancelled bool, cmd tea.Cmd) {
	if key.Matches(msg, keys.Cancel) {
		p.answer(promptReply{err: ErrPromptCancelled})
		return true, true, nil
	}

	switch p.kind {
	case promptConfirm:
		switch {
		case key.Matches(msg, keys.Yes):
			p.answer(promptReply{ok: true})
			return true, false, nil
		case key.Matches(msg, keys.No), key.Matches(msg, keys.Accept):
			p.answer(promptReply{ok: false})
			return true, false, nil
		}
	case promptSelect:
		switch {
		case key.Matches(msg, keys.Up):
			if p.cursor > 0 {
				p.cursor--
			}
		case key.Matches(msg, keys.Down):
			if p.cursor < len(p.choices)-1 {
				p.cursor++
			}
		case key.Matches(msg, keys.Accept):
			p.answer(promptReply{value: p.choices[p.cursor], ok: true})
			return true, false, nil
		}
	case promptPassword:
		if key.Matches(msg, keys.Accept) {
			p.answer(promptReply{value: p.input.Value(), ok: true})
			return true, false, nil
		}
		p.input, cmd = p.input.Update(msg)
		return false, false, cmd
	}
	return false, false, nil
}

func (p *promptState) view() string {
	var b strings.Builder
	b.WriteString(promptStyle.Render(p.message))
	b.WriteByte('\n')
	switch p.kind {
	case promptConfirm:
		b.WriteString(FaintStyle.Render(fmt.Sprintf("%s/%s  %s cancel", keys.Yes.Help().Key, keys.No.Help().Key, keys.Cancel.Help().Key)))
		b.WriteByte('\n')
	case promptSelect:
		for i, choice := range p.choices {
			if i == p.cursor {
				b.WriteString(selectedStyle.Render("❯ " + choice))
			} else {
				b.WriteString("  " + choice)
			}
			b.WriteByte('\n')
		}
	case promptPassword:
		b.WriteString(p.input.View())
		b.WriteByte('\n')
	}
	return b.String()
}

// Prompter asks questions through a running progress program.
type Prompter struct {
	send func(tea.Msg)
	done <-chan struct{}
}

// NewPrompter returns a Prompter that delivers prompts with send. Pending
// prompts fail with ErrPromptCancelled once done is closed.
func NewPrompter(send func(tea.Msg), done <-chan struct{}) *Prompter {
	return &Prompter{send: send, done: done}
}

func (p *Prompter) ask(msg promptMsg) (promptReply, error) {
	reply := make(chan promptReply, 1)
	msg.reply = reply
	p.send(msg)
	select {
	case r := <-reply:
		return r, r.err
	case <-p.done:
		return promptReply{}, ErrPromptCancelled
	}
}

func (p *Prompter) Confirm(message string) (bool, error) {
	r, err := p.ask(promptMsg{kind: promptConfirm, message: message})
	return r.ok, err
}

func (p *Prompter) Select(message string, choices []string) (string, error) {
	if len(choices) == 0 {
		return "", errors.New("select needs at least one choice")
	}
	r, err := p.ask(promptMsg{kind: promptSelect, message: message, choices: choices})
	return r.value, err
}

func (p *Prompter) Password(message string) (string, error) {
	r, err := p.ask(promptMsg{kind: promptPassword, message: message})
	return r.value, err
}
