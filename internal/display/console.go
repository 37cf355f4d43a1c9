package display

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sweeney/enviromon/internal/device"
)

var log = logrus.WithField("component", "display")

// Console is the production display when no panel is attached: it writes the
// display lines to the debug log, so the tick cadence stays observable.
type Console struct{}

// Show logs the formatted display lines.
func (Console) Show(now time.Time, r device.Reading) error {
	line1, line2 := FormatLines(now, r)
	log.Debugf("%s | %s", line1, line2)
	return nil
}

// Fake is a test double that records every refresh.
type Fake struct {
	// Lines holds "line1 | line2" per Show call, in order.
	Lines []string

	// ShowError, if set, is returned by Show.
	ShowError error
}

// Show records the formatted lines.
func (f *Fake) Show(now time.Time, r device.Reading) error {
	line1, line2 := FormatLines(now, r)
	f.Lines = append(f.Lines, line1+" | "+line2)
	return f.ShowError
}
