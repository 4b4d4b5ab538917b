package tui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/x/term"

	"torchlive/internal/task"
)

// LinePrompter asks questions on a line-oriented terminal or pipe.
type LinePrompter struct {
	mu  sync.Mutex
	in  io.Reader
	r   *bufio.Reader
	out io.Writer
}

// NewLinePrompter reads answers from in and writes questions to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: in, r: bufio.NewReader(in), out: out}
}

func (p *LinePrompter) readLine() (string, error) {
	line, err := p.r.ReadString('\n')
	switch {
	case err == nil:
	case errors.Is(err, io.EOF) && line != "":
	case errors.Is(err, io.EOF):
		return "", task.ErrNonInteractive
	default:
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (p *LinePrompter) Confirm(message string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "%s [y/N] ", message)
	answer, err := p.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Select lists choices with numbers; an empty answer picks the first.
func (p *LinePrompter) Select(message string, choices []string) (string, error) {
	if len(choices) == 0 {
		return "", errors.New("select needs at least one choice")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, message)
	for i, c := range choices {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, c)
	}
	fmt.Fprintf(p.out, "Choose [1-%d]: ", len(choices))
	answer, err := p.readLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		return choices[0], nil
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(choices) {
		return "", fmt.Errorf("invalid choice %q", answer)
	}
	return choices[n-1], nil
}

// Password reads without echo when in is a terminal.
func (p *LinePrompter) Password(message string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "%s ", message)
	if f, ok := p.in.(*os.File); ok && term.IsTerminal(f.Fd()) {
		secret, err := term.ReadPassword(f.Fd())
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(secret), nil
	}
	return p.readLine()
}

// AutoPrompter accepts every confirmation and picks the first choice of
// every selection. Passwords cannot be guessed and go to Fallback.
type AutoPrompter struct {
	Fallback task.Prompter
}

func (AutoPrompter) Confirm(string) (bool, error) { return true, nil }

func (AutoPrompter) Select(_ string, choices []string) (string, error) {
	if len(choices) == 0 {
		return "", errors.New("select needs at least one choice")
	}
	return choices[0], nil
}

func (a AutoPrompter) Password(message string) (string, error) {
	if a.Fallback == nil {
		return "", task.ErrNonInteractive
	}
	return a.Fallback.Password(message)
}
