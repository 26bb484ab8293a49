package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/clambin/ledcontroller/internal/led"
)

// maxRequestSize is the largest POST body accepted
const maxRequestSize = 4096

type response struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type request struct {
	Red   any
	Green any
	Blue  any
}

func (s *Server) handleGetLEDs(w http.ResponseWriter, _ *http.Request) {
	state := s.Holder.GetState()
	s.writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleSetLEDs(w http.ResponseWriter, req *http.Request) {
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(req.Body)

	body, err := parseRequest(http.MaxBytesReader(w, req.Body, maxRequestSize))
	if err != nil {
		s.metrics.rejected.WithLabelValues("bad_request").Inc()
		s.Logger.WithError(err).Warning("failed to parse request")
		s.writeJSON(w, http.StatusBadRequest, response{Error: err.Error()})
		return
	}

	state, err := s.SetLEDs(body.Red, body.Green, body.Blue)

	switch {
	case err == nil:
		s.Logger.WithField("state", state).Debug("LEDs set")
		s.writeJSON(w, http.StatusOK, response{OK: true})
	case errors.Is(err, led.ErrInvalidType):
		s.metrics.rejected.WithLabelValues("invalid_type").Inc()
		s.Logger.WithError(err).Warning("incorrect data provided")
		if s.LegacyResponses {
			s.writeJSON(w, http.StatusOK, response{OK: true})
			return
		}
		s.writeJSON(w, http.StatusBadRequest, response{Error: err.Error()})
	default:
		s.metrics.rejected.WithLabelValues("driver").Inc()
		s.Logger.WithError(err).Error("failed to set LEDs")
		s.writeJSON(w, http.StatusInternalServerError, response{Error: "failed to set LEDs: " + err.Error()})
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func parseRequest(r io.Reader) (request, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return request{}, fmt.Errorf("invalid request: %w", err)
	}
	if fields == nil {
		return request{}, errors.New("invalid request: expected a JSON object")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return request{}, errors.New("invalid request: unexpected data after JSON object")
	}

	var req request
	for _, f := range []struct {
		name string
		dst  *any
	}{
		{name: "red", dst: &req.Red},
		{name: "green", dst: &req.Green},
		{name: "blue", dst: &req.Blue},
	} {
		v, ok := fields[f.name]
		if !ok {
			return request{}, fmt.Errorf("invalid request: missing field %q", f.name)
		}
		*f.dst = v
	}
	return req, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.Logger.WithError(err).Warning("failed to write response")
	}
}
