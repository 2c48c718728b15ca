package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/danmuck/chessjudge/internal/generator"
	"github.com/danmuck/chessjudge/internal/judge"
	"github.com/danmuck/chessjudge/internal/observability"
	"github.com/danmuck/chessjudge/internal/protocol"
	"github.com/danmuck/chessjudge/internal/puzzle"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	ErrBadSeed   = errors.New("server: seed must be a base-10 int64")
	ErrRunsOff   = errors.New("server: no candidate command configured")
	ErrRunsBusy  = errors.New("server: all run slots are busy")
	ErrBodyLimit = errors.New("server: submission too large")
)

// CaseView is the JSON form of a test case.
type CaseView struct {
	Seed   int64          `json:"seed"`
	N      int            `json:"n"`
	C      int            `json:"c"`
	Grid   []string       `json:"grid"`
	Points map[string]int `json:"points"`
}

func newCaseView(tc puzzle.TestCase) CaseView {
	view := CaseView{Seed: tc.Seed, N: tc.N, C: tc.C, Points: make(map[string]int, puzzle.PieceCount)}
	for _, row := range tc.Grid {
		view.Grid = append(view.Grid, string(row))
	}
	for i, p := range puzzle.Pieces {
		view.Points[p.String()] = tc.Points[i]
	}
	return view
}

type runRequest struct {
	Seed *int64 `json:"seed" binding:"required"`
}

func (s *Server) RegisterRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.Appeared).String(),
			"service": s.Name,
			"runs":    s.launch != nil,
			"version": version,
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/cases/:seed", s.getCase)
	s.router.POST("/cases/:seed/submissions", s.postSubmission)
	s.router.POST("/runs", s.postRun)
}

func (s *Server) generate(c *gin.Context) (puzzle.TestCase, bool) {
	seed, err := strconv.ParseInt(c.Param("seed"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrBadSeed.Error()})
		return puzzle.TestCase{}, false
	}
	tc, err := generator.Generate(seed, s.Params)
	if err != nil {
		log.Error().Err(err).Int64("seed", seed).Msg("generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "verdict": judge.GenerationError})
		return puzzle.TestCase{}, false
	}
	return tc, true
}

func (s *Server) getCase(c *gin.Context) {
	tc, ok := s.generate(c)
	if !ok {
		return
	}
	if c.Query("format") == "wire" {
		var buf bytes.Buffer
		if err := protocol.WriteRequest(&buf, tc); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
		return
	}
	c.JSON(http.StatusOK, newCaseView(tc))
}

func (s *Server) postSubmission(c *gin.Context) {
	tc, ok := s.generate(c)
	if !ok {
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxSubmissionBytes))
	if err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": ErrBodyLimit.Error()})
		return
	}

	out := judge.EvaluateText(tc, string(body))
	observability.RecordRun(string(out.Verdict), out.Score)
	c.JSON(http.StatusOK, out)
}

func (s *Server) postRun(c *gin.Context) {
	if s.launch == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": ErrRunsOff.Error()})
		return
	}
	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !s.runs.TryAcquire(1) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": ErrRunsBusy.Error()})
		return
	}
	defer s.runs.Release(1)

	out := s.run(c.Request.Context(), *req.Seed)
	c.JSON(http.StatusOK, out)
}

func (s *Server) run(ctx context.Context, seed int64) judge.Outcome {
	logger := observability.ComponentLogger("judge")
	return judge.Run{
		Seed:   seed,
		Params: s.Params,
		Launch: s.launch,
		Logger: &logger,
	}.Execute(ctx)
}
