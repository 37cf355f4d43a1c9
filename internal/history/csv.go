package history

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// csvTimeLayout renders sample timestamps as calendar strings, UTC.
const csvTimeLayout = "2006-01-02 15:04:05"

var csvHeader = []string{"Timestamp", "Temperature", "Pressure", "Heap", "RSSI"}

// WriteCSV serializes the ordered snapshot as CSV: a fixed header row and one
// row per sample. An empty store writes the header only.
func (s *Store) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, sample := range s.Snapshot() {
		row := []string{
			time.Unix(int64(sample.Timestamp), 0).UTC().Format(csvTimeLayout),
			strconv.FormatFloat(sample.Temperature, 'f', -1, 64),
			strconv.FormatFloat(sample.Pressure, 'f', -1, 64),
			strconv.FormatUint(uint64(sample.FreeHeap), 10),
			strconv.Itoa(sample.RSSI),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
