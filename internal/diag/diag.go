// Package diag samples execution-environment diagnostics: free heap, Wi-Fi
// signal strength, CPU frequency, flash size and uptime. Everything is
// best-effort: a source that cannot be read reports zero, never an error.
package diag

import (
	"bufio"
	"bytes"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/sweeney/enviromon/internal/device"
)

// Diagnostics is a fresh per-tick sample of the execution environment.
// Not owned state; consumers must not cache it across ticks.
type Diagnostics struct {
	FreeHeap     uint32 // bytes
	RSSI         int    // dBm, 0 when unknown
	CPUMHz       int
	FlashBytes   uint64
	UptimeMillis int64
}

// Collector produces Diagnostics.
type Collector interface {
	Collect() Diagnostics
}

// pi-helper env var, written alongside the NETWORK_* set; used when
// /proc/net/wireless has no station entry.
const envNetworkRSSI = "NETWORK_RSSI"

// System is the production Collector.
type System struct {
	clock device.Clock
}

// NewSystem creates a System collector; uptime counts from the clock origin.
func NewSystem(clock device.Clock) *System {
	return &System{clock: clock}
}

// Collect samples the environment.
func (s *System) Collect() Diagnostics {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	free := m.HeapSys - m.HeapAlloc
	if free > 1<<32-1 {
		free = 1<<32 - 1
	}

	return Diagnostics{
		FreeHeap:     uint32(free),
		RSSI:         readRSSI(),
		CPUMHz:       readCPUMHz(),
		FlashBytes:   readFlashBytes(),
		UptimeMillis: s.clock.Millis(),
	}
}

func readRSSI() int {
	if data, err := os.ReadFile("/proc/net/wireless"); err == nil {
		if rssi, ok := parseWirelessRSSI(data); ok {
			return rssi
		}
	}
	if v := os.Getenv(envNetworkRSSI); v != "" {
		if rssi, err := strconv.Atoi(v); err == nil {
			return rssi
		}
	}
	return 0
}

// parseWirelessRSSI extracts the signal level (dBm) of the first station in
// /proc/net/wireless content. Returns false if no station is associated.
func parseWirelessRSSI(data []byte) (int, bool) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for sc.Scan() {
		line++
		if line <= 2 {
			// Two header lines.
			continue
		}
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 {
			continue
		}
		// Fields: iface, status, link, level, ... Level may carry a trailing dot.
		level := strings.TrimSuffix(fields[3], ".")
		v, err := strconv.ParseFloat(level, 64)
		if err != nil {
			continue
		}
		return int(v), true
	}
	return 0, false
}

// parseCPUMHz extracts the first "cpu MHz" entry from /proc/cpuinfo content.
func parseCPUMHz(data []byte) (int, bool) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		text := sc.Text()
		if !strings.HasPrefix(text, "cpu MHz") {
			continue
		}
		_, value, found := strings.Cut(text, ":")
		if !found {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			continue
		}
		return int(v), true
	}
	return 0, false
}

func readCPUMHz() int {
	data, err := os.ReadFile("/proc/cpuinfo")
	if err != nil {
		return 0
	}
	mhz, _ := parseCPUMHz(data)
	return mhz
}

// Fake is a Collector test double returning a fixed sample, with uptime
// taken from the clock when one is set.
type Fake struct {
	D     Diagnostics
	Clock device.Clock
}

// Collect returns the fixed sample.
func (f *Fake) Collect() Diagnostics {
	d := f.D
	if f.Clock != nil {
		d.UptimeMillis = f.Clock.Millis()
	}
	return d
}
