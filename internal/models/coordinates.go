package models

// Coordinates represents a geographical point defined by its longitude and latitude.
type Coordinates struct {
	Longitude float64 `json:"longitude" yaml:"longitude"` // Longitude of the geographical point.
	Latitude  float64 `json:"latitude"  yaml:"latitude"`  // Latitude of the geographical point.
}
