package gps

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Common errors for coordinate conversion.
var (
	ErrMalformedNumber      = errors.New("malformed number")
	ErrDivisionByZero       = errors.New("denominator is zero")
	ErrWrongComponentCount  = errors.New("DMS string must contain 3 components: [degrees, minutes, seconds]")
	errTooManyFractionParts = errors.New("fraction has more than one '/'")
)

const (
	dmsComponents   = 3
	minutesPerDeg   = 60.0
	secondsPerDeg   = 3600.0
	fractionParts   = 2
	dmsTrimCutset   = "[]"
	dmsSeparator    = ","
	fractionDivider = "/"
)

// Converter turns EXIF-style degree/minute/second strings into signed decimal degrees.
// It holds no state besides its logger and is safe for concurrent use.
type Converter struct {
	log *slog.Logger // log receives one entry per failed conversion
}

// NewConverter creates a Converter that reports malformed input to log.
func NewConverter(log *slog.Logger) *Converter {
	return &Converter{log: log}
}

// ParseFraction parses either a plain decimal ("46.3") or a "numerator/denominator"
// fraction ("463/10"). Failures are logged and returned as ErrMalformedNumber or
// ErrDivisionByZero.
func (c *Converter) ParseFraction(text string) (float64, error) {
	value, err := parseFraction(text)
	if err != nil {
		c.log.Error("Error parsing fraction", "value", text, "error", err)
		return 0, err
	}

	return value, nil
}

// ConvertDMS converts a DMS string such as "[40, 26, 463/10]" to decimal degrees.
// The value is negated when ref is "S" or "W" (any case). Every failure is logged
// with the original string and returned as a wrapped sentinel error.
func (c *Converter) ConvertDMS(dms, ref string) (float64, error) {
	value, err := convertDMS(dms, ref)
	if err != nil {
		c.log.Error("Error converting DMS string", "dms", dms, "ref", ref, "error", err)
		return 0, err
	}

	return value, nil
}

func parseFraction(text string) (float64, error) {
	if !strings.Contains(text, fractionDivider) {
		return parseNumber(text)
	}

	parts := strings.Split(text, fractionDivider)
	if len(parts) != fractionParts {
		return 0, fmt.Errorf("%w: %q: %w", ErrMalformedNumber, text, errTooManyFractionParts)
	}

	numerator, err := parseNumber(parts[0])
	if err != nil {
		return 0, err
	}
	denominator, err := parseNumber(parts[1])
	if err != nil {
		return 0, err
	}
	if denominator == 0 {
		return 0, fmt.Errorf("%w: %q", ErrDivisionByZero, text)
	}

	return numerator / denominator, nil
}

func parseNumber(text string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedNumber, text)
	}

	return value, nil
}

func convertDMS(dms, ref string) (float64, error) {
	cleaned := strings.TrimSpace(strings.Trim(strings.TrimSpace(dms), dmsTrimCutset))

	components := strings.Split(cleaned, dmsSeparator)
	if len(components) != dmsComponents {
		return 0, fmt.Errorf("%w: got %d in %q", ErrWrongComponentCount, len(components), dms)
	}
	for i := range components {
		components[i] = strings.TrimSpace(components[i])
	}

	degrees, err := parseNumber(components[0])
	if err != nil {
		return 0, fmt.Errorf("degrees of %q: %w", dms, err)
	}
	minutes, err := parseNumber(components[1])
	if err != nil {
		return 0, fmt.Errorf("minutes of %q: %w", dms, err)
	}
	seconds, err := parseFraction(components[2])
	if err != nil {
		return 0, fmt.Errorf("seconds of %q: %w", dms, err)
	}

	decimal := degrees + minutes/minutesPerDeg + seconds/secondsPerDeg

	switch strings.ToUpper(ref) {
	case "S", "W":
		decimal = -decimal
	}

	return decimal, nil
}

// Kind returns a stable label for a conversion error, suitable for metric labels.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrDivisionByZero):
		return "division_by_zero"
	case errors.Is(err, ErrWrongComponentCount):
		return "wrong_component_count"
	case errors.Is(err, ErrMalformedNumber):
		return "malformed_number"
	default:
		return "unknown"
	}
}
