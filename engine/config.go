package engine

import "time"

// Default timing.
const (
	DefaultStepDelay    = 50 * time.Millisecond
	DefaultSecondsScale = time.Second
)

// Config tunes an Engine.
type Config struct {
	// StepDelay separates two steps of a thread when the command reported
	// no delay of its own.
	StepDelay time.Duration
	// SecondsScale is the clock time of one script second, as used by
	// "wait [] secs", "say [] for [] secs" and "glide".
	SecondsScale time.Duration
	// Trace logs every executed command at info level instead of debug.
	Trace bool
}

// DefaultConfig returns the standard timing.
func DefaultConfig() Config {
	return Config{StepDelay: DefaultStepDelay, SecondsScale: DefaultSecondsScale}
}

func (c Config) withDefaults() Config {
	if c.StepDelay <= 0 {
		c.StepDelay = DefaultStepDelay
	}
	if c.SecondsScale <= 0 {
		c.SecondsScale = DefaultSecondsScale
	}
	return c
}
