package candidate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/danmuck/chessjudge/internal/protocol"
	"github.com/danmuck/chessjudge/internal/puzzle"
	"github.com/danmuck/chessjudge/internal/testutil/testlog"
)

const helperEnv = "CHESSJUDGE_CANDIDATE_HELPER"

const floodBytes = 2 << 20

// The test binary doubles as a scripted candidate when helperEnv is set.
func TestMain(m *testing.M) {
	if mode := os.Getenv(helperEnv); mode != "" {
		os.Exit(runHelper(mode))
	}
	os.Exit(m.Run())
}

func runHelper(mode string) int {
	if mode == "exit" {
		return 3
	}

	tc, err := protocol.ReadRequest(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "helper: %v\n", err)
		return 2
	}

	switch mode {
	case "garbage":
		fmt.Println("not-a-number")
		return 0
	case "hang":
		time.Sleep(time.Hour)
		return 0
	case "short":
		fmt.Printf("%d\n.\n", tc.ResponseLen())
		return 0
	case "flood":
		chunk := bytes.Repeat([]byte("x"), 4096)
		for written := 0; written < floodBytes; written += len(chunk) {
			os.Stderr.Write(chunk)
		}
	}

	resp := make(protocol.Response, 0, tc.ResponseLen())
	for _, row := range tc.Grid {
		for _, s := range row {
			resp = append(resp, byte(s))
		}
	}
	for i := 0; i < tc.Cells(); i++ {
		resp = append(resp, '.')
	}
	if err := protocol.WriteResponse(os.Stdout, resp); err != nil {
		return 2
	}
	return 0
}

func helperConfig(t *testing.T, mode string, stderr *bytes.Buffer) Config {
	t.Helper()
	t.Setenv(helperEnv, mode)
	return Config{
		Command:    []string{os.Args[0]},
		Timeout:    5 * time.Second,
		Stderr:     stderr,
		DrainGrace: 2 * time.Second,
	}
}

func smallCase() puzzle.TestCase {
	return puzzle.TestCase{
		N: 3,
		C: 2,
		Grid: [][]puzzle.Symbol{
			{puzzle.Empty, puzzle.Wall, puzzle.Empty},
			{puzzle.Empty, puzzle.Empty, puzzle.Empty},
			{puzzle.Wall, puzzle.Empty, puzzle.Empty},
		},
		Points: [puzzle.PieceCount]int{4, 10, 6, 4, 3},
	}
}

func TestExchangeEchoCandidate(t *testing.T) {
	testlog.Start(t)
	var stderr bytes.Buffer
	p, err := Start(helperConfig(t, "echo", &stderr))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer p.Close()

	resp, err := p.Exchange(context.Background(), smallCase())
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if want := ".#....#.." + "........."; string(resp) != want {
		t.Fatalf("unexpected response %q", string(resp))
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestStderrFloodDoesNotStallExchange(t *testing.T) {
	testlog.Start(t)
	var stderr bytes.Buffer
	p, err := Start(helperConfig(t, "flood", &stderr))
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := p.Exchange(context.Background(), smallCase()); err != nil {
		t.Fatalf("exchange under stderr flood: %v", err)
	}
	p.Close()
	if stderr.Len() < floodBytes {
		t.Fatalf("expected %d forwarded stderr bytes, got %d", floodBytes, stderr.Len())
	}
	testlog.Logf("candidate/flood: forwarded %d stderr bytes", stderr.Len())
}

func TestExchangeTimeoutKillsCandidate(t *testing.T) {
	testlog.Start(t)
	var stderr bytes.Buffer
	cfg := helperConfig(t, "hang", &stderr)
	cfg.Timeout = 200 * time.Millisecond
	p, err := Start(cfg)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	begin := time.Now()
	_, err = p.Exchange(context.Background(), smallCase())
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	var exErr *ExchangeError
	if !errors.As(err, &exErr) {
		t.Fatalf("expected *ExchangeError, got %T", err)
	}
	p.Close()
	if elapsed := time.Since(begin); elapsed > 4*time.Second {
		t.Fatalf("timeout path took %s", elapsed)
	}
}

func TestExchangeCancelledContext(t *testing.T) {
	testlog.Start(t)
	var stderr bytes.Buffer
	p, err := Start(helperConfig(t, "hang", &stderr))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)
	_, err = p.Exchange(ctx, smallCase())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestExchangeProtocolFailures(t *testing.T) {
	testlog.Start(t)
	cases := map[string]error{
		"garbage": protocol.ErrInvalidNumber,
		"short":   protocol.ErrTruncated,
	}
	for mode, want := range cases {
		var stderr bytes.Buffer
		p, err := Start(helperConfig(t, mode, &stderr))
		if err != nil {
			t.Fatalf("%s: start: %v", mode, err)
		}
		_, err = p.Exchange(context.Background(), smallCase())
		p.Close()
		if !errors.Is(err, want) {
			t.Fatalf("%s: expected %v, got %v", mode, want, err)
		}
		testlog.Logf("candidate/%s: %v", mode, err)
	}
}

func TestExchangeWithExitedCandidate(t *testing.T) {
	testlog.Start(t)
	var stderr bytes.Buffer
	p, err := Start(helperConfig(t, "exit", &stderr))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	_, err = p.Exchange(context.Background(), smallCase())
	p.Close()
	var exErr *ExchangeError
	if !errors.As(err, &exErr) {
		t.Fatalf("expected *ExchangeError, got %v", err)
	}
}

func TestStartFailures(t *testing.T) {
	testlog.Start(t)
	if _, err := Start(Config{}); !errors.Is(err, ErrStart) {
		t.Fatalf("expected ErrStart for empty command, got %v", err)
	}
	if _, err := Start(Config{Command: []string{"chessjudge-definitely-missing-binary"}}); !errors.Is(err, ErrStart) {
		t.Fatalf("expected ErrStart for missing binary, got %v", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	testlog.Start(t)
	var stderr bytes.Buffer
	p, err := Start(helperConfig(t, "hang", &stderr))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
