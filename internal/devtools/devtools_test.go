package devtools

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTest(t *testing.T) {
	tests := []struct {
		keyword string
		want    string
	}{
		{"", "go test ./..."},
		{"all", "go test ./..."},
		{"unit", "go test -short ./..."},
		{"integration", "go test -tags integration ./..."},
		{"coverage", "go test -coverprofile=coverage.out -covermode=atomic ./..."},
		{"./internal/scaffold/...", "go test ./internal/scaffold/..."},
		{"github.com/Rana718/forge/internal/config", "go test github.com/Rana718/forge/internal/config"},
	}
	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			inv, err := TestTable.Resolve(tt.keyword)
			require.NoError(t, err)
			assert.Equal(t, tt.want, inv.String())
		})
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		keyword string
		want    string
	}{
		{"", "gofmt -w ."},
		{"fix", "gofmt -w ."},
		{"check", "gofmt -l ."},
		{"lint", "golangci-lint run ./..."},
		{"vet", "go vet ./..."},
	}
	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			inv, err := FormatTable.Resolve(tt.keyword)
			require.NoError(t, err)
			assert.Equal(t, tt.want, inv.String())
		})
	}

	inv, _ := FormatTable.Resolve("check")
	assert.True(t, inv.FailOnOutput)
}

func TestResolveUnknownKeyword(t *testing.T) {
	_, err := FormatTable.Resolve("pretty")
	require.Error(t, err)
	assert.Equal(t, `unknown format keyword "pretty" (valid: check, fix, lint, vet)`, err.Error())

	_, err = TestTable.Resolve("everything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all, coverage, integration, unit, <package pattern>")
}

func TestRunnerStreamsOutput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := &Runner{Stdout: &stdout, Stderr: &stderr}

	require.NoError(t, r.Run(context.Background(), Invocation{Name: "go", Args: []string{"version"}}))
	assert.Contains(t, stdout.String(), "go version")
}

func TestRunnerFailOnOutput(t *testing.T) {
	var stdout bytes.Buffer
	r := &Runner{Stdout: &stdout, Stderr: &bytes.Buffer{}}

	err := r.Run(context.Background(), Invocation{Name: "go", Args: []string{"version"}, FailOnOutput: true})
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, ExitCode(err))
}

func TestRunnerExitStatus(t *testing.T) {
	r := &Runner{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}

	err := r.Run(context.Background(), Invocation{Name: "go", Args: []string{"no-such-subcommand"}})
	require.Error(t, err)
	assert.NotZero(t, ExitCode(err))
	assert.Zero(t, ExitCode(nil))
}

func TestRunnerMissingTool(t *testing.T) {
	r := &Runner{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}

	err := r.Run(context.Background(), Invocation{Name: "forge-no-such-tool"})
	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
}
