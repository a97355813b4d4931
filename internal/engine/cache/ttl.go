package cache

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TTL bounds and defaults, in seconds.
const (
	// DefaultMaterialsTTLSeconds keeps the materials listing for 5 minutes.
	DefaultMaterialsTTLSeconds = 300

	// DefaultReportTTLSeconds keeps computed reports for 15 minutes.
	DefaultReportTTLSeconds = 900

	MinTTLSeconds = 60
	MaxTTLSeconds = 7 * 24 * 60 * 60

	// EnvMaterialsTTLSeconds overrides the materials listing TTL (read by config).
	EnvMaterialsTTLSeconds = "ECOSCORE_MATERIALS_CACHE_TTL_SECONDS"

	// EnvReportTTLSeconds overrides the report TTL.
	EnvReportTTLSeconds = "ECOSCORE_REPORT_CACHE_TTL_SECONDS"
)

// ErrInvalidTTL is returned for TTLs outside [MinTTLSeconds, MaxTTLSeconds].
var ErrInvalidTTL = fmt.Errorf("TTL must be between %d and %d seconds", MinTTLSeconds, MaxTTLSeconds)

// TTLConfig is a validated TTL.
type TTLConfig struct {
	Seconds  int
	Duration time.Duration
}

// NewTTLConfig validates seconds against the TTL bounds.
func NewTTLConfig(seconds int) (*TTLConfig, error) {
	if err := checkTTL(seconds); err != nil {
		return nil, err
	}
	return &TTLConfig{Seconds: seconds, Duration: time.Duration(seconds) * time.Second}, nil
}

func checkTTL(seconds int) error {
	if seconds < MinTTLSeconds || seconds > MaxTTLSeconds {
		return fmt.Errorf("%w: got %d", ErrInvalidTTL, seconds)
	}
	return nil
}

// ParseTTL accepts integer seconds ("600") or a Go duration ("10m", "1h30m")
// and returns the validated number of seconds.
func ParseTTL(s string) (int, error) {
	s = strings.TrimSpace(s)
	seconds, err := strconv.Atoi(s)
	if err != nil {
		d, durErr := time.ParseDuration(s)
		if durErr != nil {
			return 0, fmt.Errorf("invalid TTL %q: %w", s, durErr)
		}
		seconds = int(d / time.Second)
	}
	if err := checkTTL(seconds); err != nil {
		return 0, err
	}
	return seconds, nil
}

//nolint:gochecknoglobals // Constant lookup table
var durationUnits = []struct {
	suffix string
	size   time.Duration
}{
	{"d", 24 * time.Hour},
	{"h", time.Hour},
	{"m", time.Minute},
	{"s", time.Second},
}

// FormatDuration renders d using its two most significant units, e.g.
// "30s", "15m", "2h30m", "3d2h". Sub-second remainders are dropped.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return "0s"
	}
	var b strings.Builder
	parts := 0
	for _, u := range durationUnits {
		n := d / u.size
		if parts == 0 && n == 0 {
			continue
		}
		d -= n * u.size
		if n > 0 {
			fmt.Fprintf(&b, "%d%s", n, u.suffix)
		}
		if parts++; parts == 2 {
			break
		}
	}
	return b.String()
}
