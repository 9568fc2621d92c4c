package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"todo-tracker/api/core"
	"todo-tracker/api/pkg/res"
)

func WriteErr(log *slog.Logger, w http.ResponseWriter, err error) {
	var verr *core.ValidationError

	switch {
	case errors.As(err, &verr):
		writeValidation(w, verr)
	case errors.Is(err, core.ErrBadArguments):
		res.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, core.ErrNotFound):
		res.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, core.ErrUnavailable):
		res.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		log.Error("internal error", "error", err)
		res.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// WriteFieldErr reports a request field the gateway itself rejected.
func WriteFieldErr(w http.ResponseWriter, field, message string) {
	writeValidation(w, &core.ValidationError{Field: field, Message: message})
}

func writeValidation(w http.ResponseWriter, verr *core.ValidationError) {
	res.Json(w, map[string]any{
		"error":  verr.Error(),
		"fields": map[string]string{verr.Field: verr.Message},
	}, http.StatusBadRequest)
}
