package common

import (
	"encoding/json"
	"finflow/logger"
	"net/http"

	"github.com/sirupsen/logrus"
)

// AppError is the single error shape every handler resolves to. Detail is the
// client-facing reason; Err carries the internal cause and is logged but never
// written to the response.
type AppError struct {
	Code   int    `json:"-"`
	Detail string `json:"detail"`
	Err    error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Detail
}

func NewAppError(code int, detail string, err error) *AppError {
	return &AppError{
		Code:   code,
		Detail: detail,
		Err:    err,
	}
}

func (e *AppError) Send(w http.ResponseWriter) {
	if e.Err != nil {
		logger.Log.WithFields(logrus.Fields{
			"status_code":    e.Code,
			"internal_error": e.Err.Error(),
		}).Error(e.Detail)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.Code)
	json.NewEncoder(w).Encode(e)
}
