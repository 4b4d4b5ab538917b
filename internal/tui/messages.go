package tui

// RowUpdateMsg updates a single row's fields by column name. An unknown key
// appends a new row.
type RowUpdateMsg struct {
	Key    string
	Fields map[string]string
}

// WorkDoneMsg signals that all background work has completed.
type WorkDoneMsg struct{}

// ErrorMsg signals a fatal error; the TUI should quit.
type ErrorMsg struct {
	Err error
}

type promptKind int

const (
	promptConfirm promptKind = iota
	promptSelect
	promptPassword
)

// promptMsg asks the model to show a prompt and answer on reply.
type promptMsg struct {
	kind    promptKind
	message string
	choices []string
	reply   chan<- promptReply
}

type promptReply struct {
	value string
	ok    bool
	err   error
}
