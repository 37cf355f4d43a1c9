// Package web serves the monitor's HTTP API: the state snapshot, the
// telemetry history, the command surface and the dashboard page.
package web

import (
	"context"
	"net"
	"net/http"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/sweeney/enviromon/internal/control"
)

var log = logrus.WithField("component", "web")

// Server serves the monitor API over HTTP.
type Server struct {
	httpServer *http.Server
	ctrl       *control.Controller
}

// New creates a Server backed by the given controller.
func New(addr string, ctrl *control.Controller) *Server {
	s := &Server{ctrl: ctrl}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/data", s.handleData).Methods(http.MethodGet)
	r.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)
	r.HandleFunc("/control", s.handleControl).Methods(http.MethodGet)
	r.HandleFunc("/set", s.handleSet).Methods(http.MethodGet)
	r.HandleFunc("/csv", s.handleCSV).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: handlers.LoggingHandler(log.WriterLevel(logrus.DebugLevel), r),
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, s.ctrl.Snapshot())
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(formatData(s.ctrl.Snapshot()))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(formatHistory(s.ctrl.History()))
}

func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	device := q.Get("device")

	var on bool
	switch q.Get("state") {
	case "on":
		on = true
	case "off":
		on = false
	default:
		http.Error(w, "state must be on or off", http.StatusBadRequest)
		return
	}

	if err := s.ctrl.SetActuator(device, on); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Write([]byte("OK"))
}

func (s *Server) handleSet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	enable, err := strconv.ParseBool(q.Get("enable"))
	if err != nil {
		http.Error(w, "enable must be true or false", http.StatusBadRequest)
		return
	}

	switch q.Get("type") {
	case "auto":
		threshold, err := strconv.ParseFloat(q.Get("threshold"), 64)
		if err != nil {
			http.Error(w, "bad threshold", http.StatusBadRequest)
			return
		}
		if err := s.ctrl.SetAuto(enable, threshold); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

	case "schedule":
		hour, err := strconv.Atoi(q.Get("hour"))
		if err != nil {
			http.Error(w, "bad hour", http.StatusBadRequest)
			return
		}
		minute, err := strconv.Atoi(q.Get("minute"))
		if err != nil {
			http.Error(w, "bad minute", http.StatusBadRequest)
			return
		}
		if err := s.ctrl.SetSchedule(enable, hour, minute); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

	default:
		http.Error(w, "type must be auto or schedule", http.StatusBadRequest)
		return
	}

	w.Write([]byte("OK"))
}

func (s *Server) handleCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="history.csv"`)
	if err := s.ctrl.WriteCSV(w); err != nil {
		// Headers are already out; all we can do is log.
		log.Warnf("csv export failed: %v", err)
	}
}
