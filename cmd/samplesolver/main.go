package main

import (
	"bufio"
	"context"
	"flag"
	"os"
	"time"

	"github.com/danmuck/chessjudge/internal/logging"
	"github.com/danmuck/chessjudge/internal/protocol"
	"github.com/danmuck/chessjudge/internal/scorer"
	"github.com/danmuck/chessjudge/internal/solver"
	"github.com/rs/zerolog/log"
)

func main() {
	budget := flag.Duration("budget", 2*time.Second, "time spent on restarts")
	seed := flag.Uint64("seed", 1, "solver random seed")
	flag.Parse()

	// Logs go to stderr, which the judge forwards.
	logging.ConfigureRuntime()

	tc, err := protocol.ReadRequest(bufio.NewReader(os.Stdin))
	if err != nil {
		log.Fatal().Err(err).Msg("read request")
	}
	ctx, cancel := context.WithTimeout(context.Background(), *budget+time.Second)
	defer cancel()

	p := solver.Solve(ctx, tc, solver.Options{Budget: *budget, Seed: *seed})
	log.Info().Int("n", tc.N).Int("c", tc.C).Int("score", scorer.Score(tc, p).Final).Msg("solved")

	if err := protocol.WriteResponse(os.Stdout, solver.Encode(tc, p)); err != nil {
		log.Fatal().Err(err).Msg("write response")
	}
}
