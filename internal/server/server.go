package server

import (
	"time"

	"github.com/danmuck/chessjudge/internal/generator"
	"github.com/danmuck/chessjudge/internal/judge"
	"github.com/danmuck/chessjudge/internal/observability"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"
)

const (
	version = "0.1.0"

	// maxSubmissionBytes bounds a submitted response body.
	maxSubmissionBytes = 16 << 20
)

type Options struct {
	Name        string
	Addr        string
	CorsOrigins []string
	Params      generator.Params
	// Launch starts candidates for POST /runs. Nil disables live runs.
	Launch            judge.Launcher
	MaxConcurrentRuns int
}

// Server serves test cases, judges submitted responses and, when a
// candidate command is configured, runs live candidates.
type Server struct {
	Name     string
	Addr     string
	Params   generator.Params
	Appeared time.Time

	launch judge.Launcher
	runs   *semaphore.Weighted
	router *gin.Engine
}

func New(opts Options) *Server {
	observability.RegisterMetrics()
	logger := observability.ComponentLogger("server")

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestID())
	r.Use(observability.RequestLogger(logger))
	r.Use(observability.RequestMetricsMiddleware(opts.Name))
	r.Use(cors.New(cors.Config{
		AllowOrigins:  normalizeOrigins(opts.CorsOrigins),
		AllowMethods:  []string{"GET", "POST"},
		AllowHeaders:  []string{"Origin", "Content-Type", observability.RequestIDHeader},
		ExposeHeaders: []string{observability.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	if opts.Params == (generator.Params{}) {
		opts.Params = generator.DefaultParams()
	}
	if opts.MaxConcurrentRuns < 1 {
		opts.MaxConcurrentRuns = 1
	}
	return &Server{
		Name:     opts.Name,
		Addr:     opts.Addr,
		Params:   opts.Params,
		Appeared: time.Now(),
		launch:   opts.Launch,
		runs:     semaphore.NewWeighted(int64(opts.MaxConcurrentRuns)),
		router:   r,
	}
}

func (s *Server) HTTPRouter() *gin.Engine {
	return s.router
}

func (s *Server) Serve() error {
	s.RegisterRoutes()
	return s.router.Run(s.Addr)
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
