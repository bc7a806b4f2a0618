package handler

import (
	"encoding/json"
	"errors"
	"maps"
	"net/http"

	"github.com/uberspeed/dispatch/internal/service/auth"

	t "github.com/uberspeed/dispatch/internal/domain/types"
)

type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return errors.New("failed to encode json")
	}

	js = append(js, '\n')

	maps.Copy(w.Header(), headers)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)

	return nil
}

func errorResponse(w http.ResponseWriter, status int, message any) {
	env := envelope{"error": message}

	if err := writeJSON(w, status, env, nil); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func GetCode(err error) int {
	switch {
	case IsOneOf(err, auth.ErrMissingToken, auth.ErrInvalidToken, auth.ErrExpToken, t.ErrUserNotFound):
		return http.StatusUnauthorized
	case IsOneOf(err, t.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func IsOneOf(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
