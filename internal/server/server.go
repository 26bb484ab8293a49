package server

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/clambin/ledcontroller/internal/led"
	"github.com/clambin/ledcontroller/internal/pwm"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

var _ http.Handler = &Server{}
var _ prometheus.Collector = &Server{}

// Server exposes the LED state over a REST API and pushes accepted states to the PWM driver
type Server struct {
	Holder *led.Holder
	Driver pwm.Driver
	// LegacyResponses reports success for payloads with non-integer values, even though they are rejected
	LegacyResponses bool
	Logger          *log.Entry
	lock            sync.Mutex
	metrics         *metrics
	handler         http.Handler
}

// New creates a Server
func New(holder *led.Holder, driver pwm.Driver, legacyResponses bool, logger *log.Entry) *Server {
	s := Server{
		Holder:          holder,
		Driver:          driver,
		LegacyResponses: legacyResponses,
		Logger:          logger,
		metrics:         newMetrics(),
	}

	r := mux.NewRouter()
	r.Use(s.logRequest)
	r.HandleFunc("/leds{slash:/?}", s.handleGetLEDs).Methods(http.MethodGet)
	r.HandleFunc("/leds{slash:/?}", s.handleSetLEDs).Methods(http.MethodPost)
	r.HandleFunc("/health", handleHealth).Methods(http.MethodGet)

	s.handler = s.metrics.ServerMiddleware(r)
	return &s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.handler.ServeHTTP(w, req)
}

// SetLEDs stores the new state and, if it is accepted, sends the corresponding duty cycles to the driver.
// It returns the state that was sent. The store and the hardware update happen under one lock, so the driver
// always reflects the last accepted state.
func (s *Server) SetLEDs(red, green, blue any) (led.State, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.Holder.SetState(red, green, blue); err != nil {
		return led.State{}, err
	}
	state := s.Holder.GetState()
	return state, s.apply(state)
}

// apply sends the state to every channel, even if an earlier channel fails.
func (s *Server) apply(state led.State) error {
	var errs []error
	for _, c := range []struct {
		channel int
		colour  string
		percent int
	}{
		{channel: pwm.Red, colour: "red", percent: state.Red},
		{channel: pwm.Green, colour: "green", percent: state.Green},
		{channel: pwm.Blue, colour: "blue", percent: state.Blue},
	} {
		duty := led.DutyCycle(c.percent)
		if err := s.Driver.SetChannelDuty(c.channel, duty); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.colour, err))
			continue
		}
		s.metrics.dutyCycle.WithLabelValues(c.colour).Set(float64(duty))
	}
	return errors.Join(errs...)
}

func (s *Server) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path, _ := mux.CurrentRoute(req).GetPathTemplate()
		s.Logger.WithFields(log.Fields{
			"method": req.Method,
			"path":   path,
			"remote": req.RemoteAddr,
		}).Debug("request received")
		next.ServeHTTP(w, req)
	})
}

func (s *Server) Describe(ch chan<- *prometheus.Desc) {
	s.metrics.Describe(ch)
}

func (s *Server) Collect(ch chan<- prometheus.Metric) {
	s.metrics.Collect(ch)
}
