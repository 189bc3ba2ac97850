package util

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

func JSONResponse(w http.ResponseWriter, response interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ParseURL checks that rawURL is an absolute URL with a scheme and a host.
// The input is returned untouched: stored destinations stay verbatim.
func ParseURL(rawURL string) (string, error) {
	parsed, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %s", rawURL)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid URL: %s", rawURL)
	}
	return rawURL, nil
}
