package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/UnknownOlympus/geotag/internal/models"
	"github.com/golang/geo/s2"
	"github.com/tzneal/coordconv"
	"gopkg.in/yaml.v3"
)

// Format selects how photo locations are written.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatUTM  Format = "utm"
	FormatMGRS Format = "mgrs"
)

// ErrUnknownFormat is returned for an output format that is not supported.
var ErrUnknownFormat = errors.New("unknown output format")

const (
	mgrsPrecision = 5 // 1 m
	noCoordinates = "Could not extract GPS coordinates."
)

// ParseFormat validates a user supplied format name.
func ParseFormat(name string) (Format, error) {
	switch format := Format(name); format {
	case FormatText, FormatJSON, FormatYAML, FormatUTM, FormatMGRS:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %q (available: text, json, yaml, utm, mgrs)", ErrUnknownFormat, name)
	}
}

// Render writes photos to w in the requested format. Plain-text formats prefix each
// line with the photo path when more than one photo is rendered.
func Render(w io.Writer, format Format, photos []models.Photo) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(photos); err != nil {
			return fmt.Errorf("failed to encode json report: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(photos); err != nil {
			return fmt.Errorf("failed to encode yaml report: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to flush yaml report: %w", err)
		}
		return nil
	case FormatText, FormatUTM, FormatMGRS:
		return renderLines(w, format, photos)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func renderLines(w io.Writer, format Format, photos []models.Photo) error {
	prefixed := len(photos) > 1

	for _, photo := range photos {
		line := noCoordinates
		if coords, ok := photo.Coordinates(); ok {
			line = describe(format, coords)
		}
		if prefixed {
			line = photo.Path + ": " + line
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write report line: %w", err)
		}
	}

	return nil
}

func describe(format Format, coords models.Coordinates) string {
	latlng := s2.LatLngFromDegrees(coords.Latitude, coords.Longitude)

	switch format {
	case FormatUTM:
		utm, err := coordconv.DefaultUTMConverter.ConvertFromGeodetic(latlng, 0)
		if err != nil {
			return fmt.Sprintf("Conversion to UTM failed: %v", err)
		}
		return fmt.Sprintf("UTM zone = %d, hemisphere = %c, easting = %.0f, northing = %.0f",
			utm.Zone, hemisphereRune(utm.Hemisphere), utm.Easting, utm.Northing)
	case FormatMGRS:
		mgrs, err := coordconv.DefaultMGRSConverter.ConvertFromGeodetic(latlng, mgrsPrecision)
		if err != nil {
			return fmt.Sprintf("Conversion to MGRS failed: %v", err)
		}
		return fmt.Sprintf("MGRS = %s", mgrs)
	default:
		return fmt.Sprintf("Latitude: %s, Longitude: %s", formatDegrees(coords.Latitude), formatDegrees(coords.Longitude))
	}
}

func formatDegrees(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func hemisphereRune(h coordconv.Hemisphere) rune {
	switch h {
	case coordconv.HemisphereNorth:
		return 'N'
	case coordconv.HemisphereSouth:
		return 'S'
	case coordconv.HemisphereInvalid:
		return '!'
	default:
		return '?'
	}
}
