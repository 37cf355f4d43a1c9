// Package display abstracts the panel the control loop refreshes every tick
// with the current time, date, temperature and pressure.
package display

import (
	"fmt"
	"time"

	"github.com/sweeney/enviromon/internal/device"
)

// Display shows the current time and readings.
type Display interface {
	// Show refreshes the surface. Called once per tick; expected to return
	// promptly.
	Show(now time.Time, r device.Reading) error
}

// FormatLines renders the two display lines shared by all implementations:
// "15:04:05 02/01/2006" and "T 23.5C  P 1013.2hPa". A no-data field renders
// as dashes.
func FormatLines(now time.Time, r device.Reading) (string, string) {
	temp := "--.-"
	if r.TempValid() {
		temp = fmt.Sprintf("%.1f", r.Temperature)
	}
	press := "----.-"
	if r.PressValid() {
		press = fmt.Sprintf("%.1f", r.Pressure)
	}
	return now.Format("15:04:05 02/01/2006"), fmt.Sprintf("T %sC  P %shPa", temp, press)
}
