package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/enviromon/internal/control"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"onOff": func(b bool) string {
		if b {
			return "ON"
		}
		return "OFF"
	},
	"clock": formatClock,
	"uptime": func(ms int64) string {
		d := time.Duration(ms) * time.Millisecond
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Enviromon</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.alert { color: red; font-weight: bold; }
button { font-family: monospace; margin-right: 4px; }
ul { padding-left: 1.2em; }
</style>
</head>
<body>
<h1>Enviromon</h1>

<h2>Readings</h2>
<table>
<tr><th>Time</th><td>{{clock .Now}}</td></tr>
<tr><th>Temperature</th><td>{{printf "%.1f" .Reading.Temperature}} &deg;C</td></tr>
<tr><th>Pressure</th><td>{{printf "%.1f" .Reading.Pressure}} hPa</td></tr>
</table>

<h2>Actuators</h2>
<table>
<tr><th>Fan</th><td class="{{if .Actuators.Fan}}on{{else}}off{{end}}">{{onOff .Actuators.Fan}}</td>
<td><button onclick="ctl('fan','on')">on</button><button onclick="ctl('fan','off')">off</button></td></tr>
<tr><th>Light</th><td class="{{if .Actuators.Light}}on{{else}}off{{end}}">{{onOff .Actuators.Light}}</td>
<td><button onclick="ctl('light','on')">on</button><button onclick="ctl('light','off')">off</button></td></tr>
<tr><th>Lamp</th><td class="{{if .Actuators.Lamp}}on{{else}}off{{end}}">{{onOff .Actuators.Lamp}}</td>
<td><button onclick="ctl('lamp','on')">on</button><button onclick="ctl('lamp','off')">off</button></td></tr>
</table>

<h2>Automation</h2>
<table>
<tr><th>Auto fan</th><td>{{onOff .Config.AutoFan}} (threshold {{printf "%.1f" .Config.Threshold}} &deg;C)</td></tr>
<tr><th>Schedule</th><td>{{onOff .Config.ScheduleEnabled}} ({{printf "%02d:%02d" .Config.ScheduleHour .Config.ScheduleMinute}})</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Diag.UptimeMillis}}</td></tr>
<tr><th>Free heap</th><td{{if .LowHeap}} class="alert"{{end}}>{{.Diag.FreeHeap}} B</td></tr>
<tr><th>RSSI</th><td{{if .LowRSSI}} class="alert"{{end}}>{{.Diag.RSSI}} dBm</td></tr>
<tr><th>CPU</th><td>{{.Diag.CPUMHz}} MHz</td></tr>
</table>

<h2>Events</h2>
<ul>
{{range .Events}}<li>{{.Time.Format "15:04:05"}} {{.Message}}</li>
{{end}}</ul>

<p><a href="/data">JSON</a> &middot; <a href="/history">History</a> &middot; <a href="/csv">CSV</a> &middot; <a href="/metrics">Metrics</a></p>
<script>
function ctl(device, state) {
  fetch("/control?device=" + device + "&state=" + state)
    .then(function() { location.reload(); });
}
</script>
</body>
</html>
`

func renderHTML(w io.Writer, snap control.Snapshot) {
	indexTmpl.Execute(w, snap)
}
