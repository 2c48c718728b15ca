package candidate

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/danmuck/chessjudge/internal/protocol"
	"github.com/danmuck/chessjudge/internal/puzzle"
	"github.com/danmuck/chessjudge/internal/tools"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	defaultDrainGrace = time.Second
	drainChunk        = 50000
)

// Config describes one candidate process.
type Config struct {
	Command []string
	// Timeout bounds a single Exchange. Zero disables it.
	Timeout time.Duration
	// Stderr receives everything the candidate writes to its error stream.
	// Defaults to os.Stderr.
	Stderr io.Writer
	// DrainGrace is how long Close waits for the error stream to reach EOF
	// after the process is killed before closing it.
	DrainGrace time.Duration
	Logger     *zerolog.Logger
}

// Process is a running candidate owned by exactly one judging run.
type Process struct {
	cfg    Config
	logger zerolog.Logger
	cmd    *exec.Cmd

	stdin  io.WriteCloser
	stdout *bufio.Reader
	stderr io.ReadCloser

	drain errgroup.Group

	closeOnce sync.Once
	exitErr   error
}

// Start spawns the candidate and begins draining its error stream.
func Start(cfg Config) (*Process, error) {
	cmd, err := tools.Command(cfg.Command)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStart, err)
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}
	if cfg.DrainGrace <= 0 {
		cfg.DrainGrace = defaultDrainGrace
	}
	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	logger = logger.With().Str("component", "candidate").Str("command", cfg.Command[0]).Logger()

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdin: %w", ErrStart, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdout: %w", ErrStart, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stderr: %w", ErrStart, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStart, err)
	}

	p := &Process{
		cfg:    cfg,
		logger: logger,
		cmd:    cmd,
		stdin:  stdin,
		stdout: bufio.NewReader(stdout),
		stderr: stderr,
	}
	p.drain.Go(p.drainStderr)
	logger.Debug().Int("pid", cmd.Process.Pid).Msg("candidate started")
	return p, nil
}

// drainStderr forwards the error stream until EOF. Write failures on the
// sink are ignored so the candidate can never stall on a full pipe.
func (p *Process) drainStderr() error {
	buf := make([]byte, drainChunk)
	total := 0
	for {
		n, err := p.stderr.Read(buf)
		if n > 0 {
			total += n
			_, _ = p.cfg.Stderr.Write(buf[:n])
		}
		if err != nil {
			p.logger.Debug().Int("bytes", total).Msg("candidate stderr drained")
			return nil
		}
	}
}

type exchangeResult struct {
	resp protocol.Response
	err  error
}

// Exchange sends tc and reads the candidate's response. On timeout or
// cancellation the process is killed, which also unblocks the pending I/O.
func (p *Process) Exchange(ctx context.Context, tc puzzle.TestCase) (protocol.Response, error) {
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	done := make(chan exchangeResult, 1)
	go func() {
		if err := protocol.WriteRequest(p.stdin, tc); err != nil {
			done <- exchangeResult{err: &ExchangeError{Op: "write request", Err: err}}
			return
		}
		resp, err := protocol.ReadResponse(p.stdout, tc.N)
		if err != nil {
			done <- exchangeResult{err: &ExchangeError{Op: "read response", Err: err}}
			return
		}
		done <- exchangeResult{resp: resp}
	}()

	select {
	case res := <-done:
		return res.resp, res.err
	case <-ctx.Done():
		p.kill()
		cause := ctx.Err()
		if errors.Is(cause, context.DeadlineExceeded) {
			cause = fmt.Errorf("%w after %s", ErrTimeout, p.cfg.Timeout)
		}
		p.logger.Warn().Err(cause).Msg("candidate exchange aborted")
		return nil, &ExchangeError{Op: "exchange", Err: cause}
	}
}

// Close terminates the candidate if it is still running, joins the drain
// task and reaps the process. It is safe to call more than once.
func (p *Process) Close() error {
	p.closeOnce.Do(func() {
		_ = p.stdin.Close()
		p.kill()

		joined := make(chan struct{})
		go func() {
			_ = p.drain.Wait()
			close(joined)
		}()
		select {
		case <-joined:
		case <-time.After(p.cfg.DrainGrace):
			// Something else inherited the pipe; stop reading it.
			_ = p.stderr.Close()
			<-joined
		}

		p.exitErr = p.cmd.Wait()
		p.logger.Debug().Str("exit", tools.DescribeExit(p.exitErr)).Msg("candidate stopped")
	})
	return nil
}

// ExitErr is the Wait result recorded by Close.
func (p *Process) ExitErr() error {
	return p.exitErr
}

func (p *Process) kill() {
	if p.cmd.Process == nil {
		return
	}
	_ = p.cmd.Process.Kill()
}
