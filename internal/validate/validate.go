// Package validate decodes JSON request bodies and checks them with
// go-playground/validator, reporting field errors under their JSON names.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrBadBody wraps JSON decoding failures.
var ErrBadBody = errors.New("invalid request body")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// DecodeAndValidate parses the request body into dst and validates it.
func DecodeAndValidate(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrBadBody, err)
	}
	return validate.Struct(dst)
}

// Struct validates any struct value with the shared validator.
func Struct(v any) error {
	return validate.Struct(v)
}

// FieldErrors maps each failing field's namespace to the failed tag.
func FieldErrors(err error) (map[string]string, bool) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil, false
	}
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		ns := fe.Namespace()
		if i := strings.IndexByte(ns, '.'); i >= 0 {
			ns = ns[i+1:]
		}
		out[ns] = fe.Tag()
	}
	return out, true
}

// WriteError answers 400 for undecodable bodies, 422 with per-field errors
// for validation failures and 500 otherwise.
func WriteError(w http.ResponseWriter, err error) {
	if fields, ok := FieldErrors(err); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": "validation failed",
			"errors":  fields,
		})
		return
	}
	if errors.Is(err, ErrBadBody) {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	slog.Error("request failed", "error", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
