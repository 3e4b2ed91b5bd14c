// Package cli carries the shared plumbing of flamegen commands: config
// resolution, logging and profile input.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

type App struct {
	logger *zap.Logger
	config *Config
	ctx    context.Context
	cancel context.CancelFunc
}

func New(config *Config) (*App, error) {
	config.fillDefault()
	if err := config.validate(); err != nil {
		return nil, err
	}

	logger, err := NewLogger(config.LogLevel)
	if err != nil {
		return nil, err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return &App{
		logger: logger,
		config: config,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

func (a *App) Shutdown() {
	a.cancel()
	_ = a.logger.Sync()
}

func (a *App) Logger() *zap.Logger {
	return a.logger
}

func (a *App) Config() *Config {
	return a.config
}

// Context is canceled on SIGINT or SIGTERM.
func (a *App) Context() context.Context {
	return a.ctx
}
