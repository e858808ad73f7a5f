package kit

import (
	"encoding/json"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Envelope is the body shape shared by every API response.
type Envelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	Data      any    `json:"data,omitempty"`
	Total     *int   `json:"total,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteData(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

func WriteList(w http.ResponseWriter, data any, total int) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, Total: &total})
}

// WriteError writes a failure envelope. cause is shown to clients as "error";
// pass "" when the underlying detail must stay in the logs.
func WriteError(w http.ResponseWriter, r *http.Request, status int, msg, cause string) {
	WriteJSON(w, status, Envelope{
		Success:   false,
		Message:   msg,
		Error:     cause,
		RequestID: chimw.GetReqID(r.Context()),
	})
}
