package response

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"time"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Status: status, Error: message})
}

// WriteAttachment streams content as a file download. Range and conditional
// requests are handled by http.ServeContent.
func WriteAttachment(w http.ResponseWriter, r *http.Request, name, contentType string, modTime time.Time, content io.ReadSeeker) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	http.ServeContent(w, r, name, modTime, content)
}
