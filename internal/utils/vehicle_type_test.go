package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVehicleKindName(t *testing.T) {
	for _, name := range []string{"moto", " Motorcycle ", "motercycle", "motocycle", "scooter"} {
		assert.Equal(t, "moto", VehicleKindName(name), name)
	}
	for _, name := range []string{"car", "SUV", "", "truck"} {
		assert.Equal(t, "car", VehicleKindName(name), name)
	}
}
