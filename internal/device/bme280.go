//go:build linux

package device

import (
	"fmt"

	"github.com/quhar/bme280"
	"golang.org/x/exp/io/i2c"
)

// BME280 reads temperature and pressure from a Bosch BME280 on the I2C bus.
type BME280 struct {
	dev *i2c.Device
	drv *bme280.BME280
}

// NewBME280 opens the sensor at the given I2C device path and address.
func NewBME280(devPath string, addr int) (*BME280, error) {
	dev, err := i2c.Open(&i2c.Devfs{Dev: devPath}, addr)
	if err != nil {
		return nil, fmt.Errorf("open i2c %s: %w", devPath, err)
	}

	drv := bme280.New(dev)
	if err := drv.Init(); err != nil {
		dev.Close()
		return nil, fmt.Errorf("init bme280 at 0x%x: %w", addr, err)
	}

	return &BME280{dev: dev, drv: drv}, nil
}

// Read polls the sensor. The BME280 also reports humidity; it is dropped
// here as the monitor only tracks temperature and pressure.
func (s *BME280) Read() (Reading, error) {
	t, p, _, err := s.drv.EnvData()
	if err != nil {
		return Invalid(), fmt.Errorf("read bme280: %w", err)
	}
	return Reading{Temperature: t, Pressure: p}, nil
}

// Close releases the I2C device.
func (s *BME280) Close() error {
	return s.dev.Close()
}
