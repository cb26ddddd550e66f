package app

import (
	"errors"
	"fmt"
	"time"
)

// Mode selects what App.Run does.
type Mode string

const (
	// ModeEmit prints the materialized program of a session file.
	ModeEmit Mode = "emit"
	// ModeRun materializes, compiles and runs a session file.
	ModeRun Mode = "run"
	// ModeREPL starts the interactive loop.
	ModeREPL Mode = "repl"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Mode         Mode
	SessionPaths []string // session files or directories, emit/run only
	OutputPath   string   // emit only; empty means stdout

	LogFormat string
	LogLevel  string

	CC          string
	CFlags      []string
	LDFlags     []string
	Timeout     time.Duration
	Workers     int
	DiscardSink string
	HistoryPath string // repl only; empty disables history
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Mode {
	case ModeEmit, ModeRun:
		if len(cfg.SessionPaths) == 0 {
			return nil, fmt.Errorf("%s requires at least one session path", cfg.Mode)
		}
	case ModeREPL:
		if len(cfg.SessionPaths) > 0 {
			return nil, errors.New("repl does not take session paths")
		}
	default:
		return nil, fmt.Errorf("unknown mode %q", cfg.Mode)
	}

	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		return nil, errors.New("invalid log-format: must be 'text' or 'json'")
	}
	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return nil, errors.New("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	if cfg.Timeout < 0 {
		return nil, errors.New("timeout must not be negative")
	}
	if cfg.Workers < 0 {
		return nil, errors.New("workers must not be negative")
	}

	return &cfg, nil
}
