// Package ui embeds the static single-page shell served at the root path.
package ui

import (
	"embed"
	"net/http"
)

//go:embed index.html
var content embed.FS

// Handler serves the embedded shell.
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := content.ReadFile("index.html")
		if err != nil {
			http.Error(w, "ui unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(data)
	})
}
