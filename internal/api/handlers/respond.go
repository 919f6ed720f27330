package handlers

import (
	"encoding/json"
	"log"
	"math"
	"net/http"
)

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// internalError logs the cause server-side and sends a generic message.
func internalError(w http.ResponseWriter, op string, err error) {
	log.Printf("%s: %v", op, err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

// round2 rounds money to display precision at the response boundary.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
