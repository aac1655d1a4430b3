// Package devtools maps the keywords of `forge test` and `forge format` to
// the external tool they run.
package devtools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
)

// Invocation is one external command line.
type Invocation struct {
	Name string
	Args []string
	// FailOnOutput turns any stdout into a failure (gofmt -l lists
	// unformatted files but exits 0).
	FailOnOutput bool
}

func (i Invocation) String() string {
	return strings.Join(append([]string{i.Name}, i.Args...), " ")
}

// Table is a fixed keyword dispatch table.
type Table struct {
	Command string
	Default string
	Entries map[string]Invocation
	// Fallback builds an invocation for keywords not in Entries; nil
	// rejects them.
	Fallback func(keyword string) (Invocation, bool)
}

var TestTable = Table{
	Command: "test",
	Default: "all",
	Entries: map[string]Invocation{
		"all":         {Name: "go", Args: []string{"test", "./..."}},
		"unit":        {Name: "go", Args: []string{"test", "-short", "./..."}},
		"integration": {Name: "go", Args: []string{"test", "-tags", "integration", "./..."}},
		"coverage":    {Name: "go", Args: []string{"test", "-coverprofile=coverage.out", "-covermode=atomic", "./..."}},
	},
	Fallback: func(keyword string) (Invocation, bool) {
		if !isPackagePattern(keyword) {
			return Invocation{}, false
		}
		return Invocation{Name: "go", Args: []string{"test", keyword}}, true
	},
}

var FormatTable = Table{
	Command: "format",
	Default: "fix",
	Entries: map[string]Invocation{
		"fix":   {Name: "gofmt", Args: []string{"-w", "."}},
		"check": {Name: "gofmt", Args: []string{"-l", "."}, FailOnOutput: true},
		"lint":  {Name: "golangci-lint", Args: []string{"run", "./..."}},
		"vet":   {Name: "go", Args: []string{"vet", "./..."}},
	},
}

// Keywords lists the table's fixed keywords, sorted.
func (t Table) Keywords() []string {
	keys := make([]string, 0, len(t.Entries))
	for k := range t.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Resolve returns the invocation for keyword ("" selects the default).
func (t Table) Resolve(keyword string) (Invocation, error) {
	if keyword == "" {
		keyword = t.Default
	}
	if inv, ok := t.Entries[keyword]; ok {
		return inv, nil
	}
	if t.Fallback != nil {
		if inv, ok := t.Fallback(keyword); ok {
			return inv, nil
		}
	}

	valid := strings.Join(t.Keywords(), ", ")
	if t.Fallback != nil {
		valid += ", <package pattern>"
	}
	return Invocation{}, fmt.Errorf("unknown %s keyword %q (valid: %s)", t.Command, keyword, valid)
}

func isPackagePattern(s string) bool {
	return strings.HasPrefix(s, ".") || strings.Contains(s, "/")
}

// Runner executes invocations, streaming their output.
type Runner struct {
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

func NewRunner() *Runner {
	return &Runner{Stdout: os.Stdout, Stderr: os.Stderr}
}

// ExitError carries the exit status of a failed tool.
type ExitError struct {
	Invocation Invocation
	Code       int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Invocation, e.Code)
}

// Run starts inv and waits for it. A non-zero exit becomes an *ExitError.
func (r *Runner) Run(ctx context.Context, inv Invocation) error {
	cmd := exec.CommandContext(ctx, inv.Name, inv.Args...)
	cmd.Dir = r.Dir
	cmd.Stderr = r.Stderr

	var seen countingWriter
	cmd.Stdout = io.MultiWriter(r.Stdout, &seen)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Invocation: inv, Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("failed to run %s: %w", inv.Name, err)
	}
	if inv.FailOnOutput && seen > 0 {
		return &ExitError{Invocation: inv, Code: 1}
	}
	return nil
}

// ExitCode maps an error from Run to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

type countingWriter int

func (c *countingWriter) Write(p []byte) (int, error) {
	*c += countingWriter(len(p))
	return len(p), nil
}
