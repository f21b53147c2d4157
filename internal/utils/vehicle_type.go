package utils

import "strings"

// VehicleKindName maps the vehicle names seen in campus feeds and layout files
// onto the two bay kinds. Car and suv share the car bays, every two-wheeler
// spelling (including the upstream "motercycle"/"motocycle") maps to moto.
func VehicleKindName(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "moto", "motorcycle", "motorbike", "motercycle", "motocycle", "bike", "scooter":
		return "moto"
	}
	return "car"
}
