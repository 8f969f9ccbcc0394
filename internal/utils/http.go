// Package utils holds small cross-cutting helpers shared by the transport
// layer.
package utils

import (
	"encoding/json"
	"net/http"
)

// Json writes v as a JSON response with the given status code.
func Json(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Err writes a uniform JSON error body.
func Err(w http.ResponseWriter, status int, msg string) {
	Json(w, status, map[string]string{"error": msg})
}
