// Package clock supplies "now" to the journey planner. Departure rounding and
// off-peak fare windows both depend on wall-clock time in the network's own
// time zone, so every consumer takes a Clock instead of calling time.Now.
package clock

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// Clock provides the current time.
type Clock interface {
	// Now returns the current time
	Now() time.Time
	// NowUnixMilli returns the current time as Unix milliseconds
	NowUnixMilli() int64
}

// RealClock reads the system time. A non-nil Location converts the result
// into the network's service time zone.
type RealClock struct {
	Location *time.Location
}

// Now returns the current system time.
func (c RealClock) Now() time.Time {
	now := time.Now()
	if c.Location != nil {
		return now.In(c.Location)
	}
	return now
}

// NowUnixMilli returns the current time as Unix milliseconds.
func (RealClock) NowUnixMilli() int64 {
	return time.Now().UnixMilli()
}

// MockClock is a settable, thread-safe Clock for tests.
type MockClock struct {
	currentTime time.Time
	mu          sync.Mutex
}

// NewMockClock creates a new MockClock set to the specified time.
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{currentTime: t}
}

func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentTime
}

func (m *MockClock) NowUnixMilli() int64 {
	return m.Now().UnixMilli()
}

// Set changes the mock clock's current time.
func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = t
}

// Advance moves the mock clock by d, which may be negative.
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = m.currentTime.Add(d)
}

// EnvironmentClock pins "now" from an environment variable or a file so a
// deployed planner can be exercised at a fixed service time (for example a
// holiday or a peak hour). Priority: environment variable > file > system time.
type EnvironmentClock struct {
	envVar   string
	filePath string
	location *time.Location
	logger   *slog.Logger
}

// NewEnvironmentClock creates an EnvironmentClock. Times without an explicit
// offset are interpreted in location.
func NewEnvironmentClock(envVar string, filePath string, location *time.Location) *EnvironmentClock {
	return &EnvironmentClock{
		envVar:   envVar,
		filePath: filePath,
		location: location,
		logger:   slog.Default().With(slog.String("component", "environment_clock")),
	}
}

func (e *EnvironmentClock) Now() time.Time {
	if t, err := e.fromEnvVar(); err == nil {
		return t
	}
	if t, err := e.fromFile(); err == nil {
		return t
	}
	if e.envVar != "" || e.filePath != "" {
		e.logger.Warn("no pinned time available, falling back to system time",
			slog.String("envVar", e.envVar), slog.String("filePath", e.filePath))
	}
	now := time.Now()
	if e.location != nil {
		return now.In(e.location)
	}
	return now
}

func (e *EnvironmentClock) NowUnixMilli() int64 {
	return e.Now().UnixMilli()
}

func (e *EnvironmentClock) fromEnvVar() (time.Time, error) {
	if e.envVar == "" {
		return time.Time{}, errors.New("environment variable name not configured")
	}
	value := os.Getenv(e.envVar)
	if value == "" {
		return time.Time{}, errors.New("environment variable is empty: " + e.envVar)
	}
	return ParseTime(value, e.location)
}

func (e *EnvironmentClock) fromFile() (time.Time, error) {
	if e.filePath == "" {
		return time.Time{}, errors.New("file path not configured")
	}
	data, err := os.ReadFile(e.filePath)
	if err != nil {
		return time.Time{}, err
	}
	return ParseTime(string(data), e.location)
}

var localLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTime accepts RFC3339, or a local date/time layout interpreted in loc.
// The API uses it for the optional ?time= parameter as well.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	if loc == nil {
		return time.Time{}, errors.New("timezone not configured")
	}

	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse time %q: expected RFC3339 or YYYY-MM-DD[ HH:MM[:SS]]", s)
}
