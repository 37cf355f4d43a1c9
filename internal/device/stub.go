//go:build !linux

package device

import "errors"

// BME280 is not available on non-Linux platforms.
type BME280 struct{}

// NewBME280 returns an error on non-Linux platforms.
func NewBME280(devPath string, addr int) (*BME280, error) {
	return nil, errors.New("bme280: not supported on this platform (requires Linux)")
}

// Read is not implemented on non-Linux platforms.
func (s *BME280) Read() (Reading, error) {
	return Invalid(), errors.New("bme280: not supported")
}

// Close is not implemented on non-Linux platforms.
func (s *BME280) Close() error {
	return nil
}
