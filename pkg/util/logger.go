package util

import (
	"time"

	"github.com/rs/zerolog"
)

// TimeLogger logs lap and cumulative times of a sequence of steps.
type TimeLogger struct {
	Timer    func() time.Time
	Logger   zerolog.Logger
	Level    zerolog.Level
	LogStart time.Time
	LapStart time.Time
}

func NewTimeLogger(timer func() time.Time, logger zerolog.Logger) *TimeLogger {
	now := timer()
	logger.Trace().Time("now", now).Msg("TimeLogger started")
	return &TimeLogger{
		Timer:    timer,
		Logger:   logger,
		Level:    zerolog.DebugLevel,
		LogStart: now,
		LapStart: now,
	}
}

func NewWallTimeLogger(logger zerolog.Logger) *TimeLogger {
	return NewTimeLogger(time.Now, logger)
}

// Log ends the current lap, naming it.
func (p *TimeLogger) Log(name string) {
	now := p.Timer()
	lapTime := now.Sub(p.LapStart)
	cumulative := now.Sub(p.LogStart)
	p.Logger.WithLevel(p.Level).
		Str("lap", name).
		Dur("lapTime", lapTime).
		Dur("cumulative", cumulative).
		Msg("finished lap")
	p.LapStart = now
}
