package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/specialistvlad/patternindex/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	ctx    context.Context

	httpServer *http.Server

	// status of the most recent build, served by the health check
	statusMu sync.Mutex
	status   buildStatus
}

type buildStatus struct {
	At       time.Time
	Patterns int
	Err      error
}

// NewApp is the constructor for the main application. It returns an App with
// its own isolated logger; nothing is loaded until Run.
func NewApp(outW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		ctx:    ctxlog.WithLogger(context.Background(), logger),
	}
}

func (a *App) recordStatus(patterns int, err error) {
	a.statusMu.Lock()
	defer a.statusMu.Unlock()
	a.status = buildStatus{At: time.Now(), Patterns: patterns, Err: err}
}

func (a *App) lastStatus() buildStatus {
	a.statusMu.Lock()
	defer a.statusMu.Unlock()
	return a.status
}
