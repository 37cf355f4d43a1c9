// Package device provides the sensor and clock capability interfaces with
// hardware abstraction. The real sensor is a BME280 on the I2C bus; fakes
// allow testing the control loop without hardware.
package device

import "math"

// Reading is one sensor poll. A field set to NaN means the sensor returned
// no data for it; such values are rejected at ingestion and the previous
// valid value is retained.
type Reading struct {
	Temperature float64 // °C
	Pressure    float64 // hPa
}

// TempValid reports whether the temperature field carries data.
func (r Reading) TempValid() bool {
	return !math.IsNaN(r.Temperature)
}

// PressValid reports whether the pressure field carries data.
func (r Reading) PressValid() bool {
	return !math.IsNaN(r.Pressure)
}

// Invalid returns a Reading with both fields marked as no-data.
func Invalid() Reading {
	return Reading{Temperature: math.NaN(), Pressure: math.NaN()}
}

// Sensor reads environmental data.
type Sensor interface {
	// Read returns the current reading. A failed poll returns an error and
	// the reading must be discarded.
	Read() (Reading, error)

	// Close releases sensor resources.
	Close() error
}

// Default BME280 bus location.
const (
	DefaultI2CDevice = "/dev/i2c-1"
	DefaultI2CAddr   = 0x76
)
