package respond

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
)

// Message is the error body shared by every endpoint.
type Message struct {
	Message string `json:"message"`
}

// JSON writes payload as a JSON body with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("respond: encode payload failed: %v", err)
	}
}

// Error writes a {"message": ...} body.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Message{Message: message})
}

// Text writes a plain-text body.
func Text(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := io.WriteString(w, body); err != nil {
		log.Printf("respond: write body failed: %v", err)
	}
}
