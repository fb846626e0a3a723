package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// readBodyJSON 空 body 视为未提供，不报错
func readBodyJSON(r *http.Request, maxBytes int64, out any) (bool, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes))
	if err != nil {
		return false, err
	}
	if len(body) == 0 {
		return false, nil
	}
	return true, json.Unmarshal(body, out)
}
