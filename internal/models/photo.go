package models

// Photo processing statuses.
const (
	StatusLocated = "located" // both coordinates were extracted
	StatusNoGPS   = "no_gps"  // the image carries no usable GPS tags
	StatusError   = "error"   // the image could not be read
)

// Photo is the outcome of extracting GPS coordinates from a single image.
type Photo struct {
	Path      string   `json:"path"            yaml:"path"`            // Path is the image location on disk.
	Latitude  *float64 `json:"latitude"        yaml:"latitude"`        // Latitude in decimal degrees, nil when unavailable.
	Longitude *float64 `json:"longitude"       yaml:"longitude"`       // Longitude in decimal degrees, nil when unavailable.
	Status    string   `json:"status"          yaml:"status"`          // Status is one of located, no_gps, error.
	Error     string   `json:"error,omitempty" yaml:"error,omitempty"` // Error explains a failed read.
}

// Coordinates returns the photo position when both coordinates are known.
func (p Photo) Coordinates() (Coordinates, bool) {
	if p.Latitude == nil || p.Longitude == nil {
		return Coordinates{}, false
	}

	return Coordinates{Latitude: *p.Latitude, Longitude: *p.Longitude}, true
}
