package utils

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

var ErrNotInteractive = errors.New("stdin is not a terminal; re-run with --force to confirm")

// Prompter asks yes/no questions unless Force is set.
type Prompter struct {
	In    io.Reader
	Out   io.Writer
	Force bool
	// IsTerminal reports whether In is interactive.
	IsTerminal func() bool

	reader *bufio.Reader
}

func NewPrompter(force bool) *Prompter {
	return &Prompter{
		In:    os.Stdin,
		Out:   os.Stdout,
		Force: force,
		IsTerminal: func() bool {
			fd := os.Stdin.Fd()
			return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		},
	}
}

// Confirm prints message with a (y/N) suffix and reads one answer. Anything
// but y/yes declines. Without a terminal it fails with ErrNotInteractive.
func (p *Prompter) Confirm(message string) (bool, error) {
	if p.Force {
		return true, nil
	}
	if p.IsTerminal != nil && !p.IsTerminal() {
		return false, ErrNotInteractive
	}

	fmt.Fprintf(p.Out, "%s (y/N): ", message)
	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}
	answer, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
