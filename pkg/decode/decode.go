// Package decode resolves a VIN to vehicle attributes through the NHTSA
// vPIC registry.
package decode

import (
	"context"
	"strings"
)

// Facts are the decoded vehicle attributes. Every field is optional; an
// empty field means the registry did not decode it, never an error.
type Facts struct {
	Make         string `json:"make,omitempty"`
	Model        string `json:"model,omitempty"`
	ModelYear    string `json:"model_year,omitempty"`
	BodyClass    string `json:"body_class,omitempty"`
	VehicleType  string `json:"vehicle_type,omitempty"`
	PlantCountry string `json:"plant_country,omitempty"`
}

// IsZero reports whether no attribute was decoded.
func (f Facts) IsZero() bool {
	return f == Facts{}
}

// Fields returns the non-empty attributes keyed by display name, for
// serialization into reports and risk scans.
func (f Facts) Fields() map[string]string {
	fields := make(map[string]string, 6)
	put := func(name, value string) {
		if strings.TrimSpace(value) != "" {
			fields[name] = value
		}
	}
	put("Make", f.Make)
	put("Model", f.Model)
	put("ModelYear", f.ModelYear)
	put("BodyClass", f.BodyClass)
	put("VehicleType", f.VehicleType)
	put("PlantCountry", f.PlantCountry)
	return fields
}

// Decoder resolves a 17-character VIN to vehicle facts.
type Decoder interface {
	Decode(ctx context.Context, vin string) (Facts, error)
}
