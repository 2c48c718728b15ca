package tools

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var ErrEmptyCommand = errors.New("tools: empty command")

// SplitCommand splits a command line on whitespace. Quoting is not
// interpreted; a path with spaces needs a wrapper script.
func SplitCommand(line string) ([]string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, ErrEmptyCommand
	}
	return fields, nil
}

// Command builds an exec.Cmd from a split command line.
func Command(argv []string) (*exec.Cmd, error) {
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return nil, ErrEmptyCommand
	}
	return exec.Command(argv[0], argv[1:]...), nil
}

// ExitCode classifies the error returned by Wait/Run: 0 on success, the
// process exit code when it exited, 127 when it could not be started, -1 when
// it was killed by a signal, and 1 otherwise.
func ExitCode(err error) int32 {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return int32(exitErr.ExitCode())
	}
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return 127
	}
	return 1
}

// DescribeExit renders a Wait error for operators.
func DescribeExit(err error) string {
	if err == nil {
		return "exited cleanly"
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() < 0 {
		return fmt.Sprintf("terminated (%s)", exitErr.ProcessState.String())
	}
	return fmt.Sprintf("exit code %d", ExitCode(err))
}
