package handlers

import (
	"net/http"

	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/logger"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/service"

	"go.uber.org/zap"
)

func handleBusinessError(w http.ResponseWriter, r *http.Request, err error) {
	busErr := service.AsBusinessError(err)
	statusCode := mapBusinessErrorToHTTP(busErr.Code)

	if statusCode >= http.StatusInternalServerError {
		logger.Error("HTTP: service failure", err,
			zap.String("error_code", busErr.Code),
			zap.String("path", r.URL.Path))
	} else {
		logger.Warn("HTTP: business error",
			zap.String("error_code", busErr.Code),
			zap.Int("http_status", statusCode),
			zap.String("client_ip", r.RemoteAddr))
	}

	responseWithPayload(w, statusCode,
		toPayload("error", busErr.Code),
		toPayload("message", busErr.Message),
		toPayload("details", busErr.Details),
	)
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation, service.CodeMalformedFilter:
		return http.StatusBadRequest
	case service.CodeStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
