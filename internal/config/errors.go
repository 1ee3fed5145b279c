package config

import "errors"

var (
	// ErrInvalidConfig wraps every validation failure, including those
	// reported by the engine components a section configures.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig wraps file, parse and decode failures.
	ErrLoadConfig = errors.New("load config failed")
)
