package api

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"

	"rinklog/internal/models"
)

// decodeBody reads a JSON body, rejecting unknown fields so typos surface
// as 400s instead of silently dropped input.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "ValidationError", "malformed JSON body", map[string]any{
			"error": err.Error(),
		})
		return false
	}
	return true
}

// fieldProblem writes a 400 with field-level detail.
func fieldProblem(w http.ResponseWriter, field, reason string) {
	models.WriteProblem(w, http.StatusBadRequest, "ValidationError", reason, map[string]any{
		"field": field,
	})
}

// requireQuery fetches a mandatory query parameter or writes a 400.
func requireQuery(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		fieldProblem(w, name, name+" required")
		return "", false
	}
	return v, true
}

func validEmail(s string) bool {
	a, err := mail.ParseAddress(strings.TrimSpace(s))
	return err == nil && a.Address == strings.TrimSpace(s)
}
