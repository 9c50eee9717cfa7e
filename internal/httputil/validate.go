package httputil

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator is the shared request validator; validator instances cache
// struct metadata, so one per process is the intended usage.
var Validator = validator.New(validator.WithRequiredStructEnabled())

// ValidationError writes a 400 with a readable field-by-field summary.
func ValidationError(log *slog.Logger, w http.ResponseWriter, err error) {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		Fail(log, w, "invalid payload", err, http.StatusBadRequest)
		return
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s: failed %q", fe.Field(), fe.Tag()))
	}
	message := "validation failed: " + strings.Join(fields, "; ")
	log.Warn("request validation failed", "detail", message)
	WriteJSON(w, http.StatusBadRequest, map[string]any{"error": message})
}
