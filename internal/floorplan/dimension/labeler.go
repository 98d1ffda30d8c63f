// Package dimension formats linear measurements for plan annotations.
package dimension

import (
	"fmt"
	"math"
	"strings"
)

// Mode selects one of the mutually exclusive label formats.
type Mode int

const (
	// Metric prints centimetres below one metre and metres otherwise.
	Metric Mode = iota
	// Imperial prints feet and whole inches.
	Imperial
)

const metersToInches = 39.3701

// ParseMode accepts "metric" or "imperial"; anything else is Metric.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), "imperial") {
		return Imperial
	}
	return Metric
}

func (m Mode) String() string {
	if m == Imperial {
		return "imperial"
	}
	return "metric"
}

// Labeler turns a measurement in metres into display text. It has no state
// beyond its mode.
type Labeler struct {
	Mode Mode
}

func NewLabeler(mode Mode) Labeler {
	return Labeler{Mode: mode}
}

// Format renders meters according to the labeler's mode.
func (l Labeler) Format(meters float64) string {
	if l.Mode == Imperial {
		return formatImperial(meters)
	}
	return formatMetric(meters)
}

func formatMetric(meters float64) string {
	if meters < 1 {
		return fmt.Sprintf("%.2f cm", meters*100)
	}
	return fmt.Sprintf("%.2f m", meters)
}

func formatImperial(meters float64) string {
	totalInches := meters * metersToInches
	feet := math.Floor(totalInches / 12)
	inches := math.Round(totalInches - feet*12)
	if inches >= 12 {
		feet++
		inches -= 12
	}
	return fmt.Sprintf("%d' %d\"", int(feet), int(inches))
}
