package gps

// EXIF tag names consumed by Locate.
const (
	TagLatitude     = "GPS GPSLatitude"
	TagLatitudeRef  = "GPS GPSLatitudeRef"
	TagLongitude    = "GPS GPSLongitude"
	TagLongitudeRef = "GPS GPSLongitudeRef"
)

// Hemisphere references assumed when the image carries none.
const (
	DefaultLatitudeRef  = "N"
	DefaultLongitudeRef = "E"
)

// Tags maps EXIF tag names (e.g. "GPS GPSLatitude") to their rendered string values.
type Tags map[string]string

// Lookup returns the value stored under key and whether it is present and non-empty.
func (t Tags) Lookup(key string) (string, bool) {
	value, ok := t[key]
	if !ok || value == "" {
		return "", false
	}

	return value, true
}

// LookupDefault returns the value stored under key, or def when it is absent.
func (t Tags) LookupDefault(key, def string) string {
	if value, ok := t.Lookup(key); ok {
		return value
	}

	return def
}

// Reading is the result of locating a photo. Each coordinate is nil when it could not be
// extracted.
type Reading struct {
	Latitude  *float64
	Longitude *float64
	// Errors holds the conversion failures behind a nil coordinate.
	Errors []error
}

// Complete reports whether both coordinates are available.
func (r Reading) Complete() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// Locate extracts latitude and longitude from an EXIF tag dictionary. If either coordinate
// tag is missing, both coordinates are absent; otherwise each one is converted on its own.
func (c *Converter) Locate(tags Tags) Reading {
	var reading Reading

	latDMS, okLat := tags.Lookup(TagLatitude)
	lonDMS, okLon := tags.Lookup(TagLongitude)
	if !okLat || !okLon {
		return reading
	}

	if lat, err := c.ConvertDMS(latDMS, tags.LookupDefault(TagLatitudeRef, DefaultLatitudeRef)); err != nil {
		reading.Errors = append(reading.Errors, err)
	} else {
		reading.Latitude = &lat
	}

	if lon, err := c.ConvertDMS(lonDMS, tags.LookupDefault(TagLongitudeRef, DefaultLongitudeRef)); err != nil {
		reading.Errors = append(reading.Errors, err)
	} else {
		reading.Longitude = &lon
	}

	return reading
}
