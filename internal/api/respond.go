package api

import (
	"encoding/json"
	"net/http"

	"github.com/petterhol/quizform/internal/services"
)

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeEnvelope(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func respondData(w http.ResponseWriter, status int, data any) {
	writeEnvelope(w, status, envelope{Success: true, Data: data})
}

func respondError(w http.ResponseWriter, status int, msg string) {
	writeEnvelope(w, status, envelope{Success: false, Message: msg})
}

// respondServiceError maps typed service failures to status codes. Anything
// untyped is a storage fault: logged and reported as a 500 with the fault's
// message, never a crash.
func (rt *Router) respondServiceError(w http.ResponseWriter, err error) {
	if se, ok := services.AsServiceError(err); ok {
		respondError(w, statusFor(se.Code), se.Message)
		return
	}
	rt.log.Error().Err(err).Msg("storage fault")
	respondError(w, http.StatusInternalServerError, err.Error())
}

func statusFor(code services.ErrorCode) int {
	switch code {
	case services.ErrorInvalid:
		return http.StatusBadRequest
	case services.ErrorNotFound:
		return http.StatusNotFound
	case services.ErrorUnauthorized:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}
