package sysenv

import (
	"io"
	"strings"
)

type yesReader struct {
	pos int
}

// Yes returns a reader that endlessly produces "y\n", for tools that ask the
// same question many times (license acceptance).
func Yes() io.Reader {
	return &yesReader{}
}

func (y *yesReader) Read(p []byte) (int, error) {
	const answer = "y\n"
	for i := range p {
		p[i] = answer[y.pos]
		y.pos = (y.pos + 1) % len(answer)
	}
	return len(p), nil
}

// Answer returns a reader that produces s followed by a newline once.
func Answer(s string) io.Reader {
	return strings.NewReader(s + "\n")
}
