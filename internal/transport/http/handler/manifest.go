package handler

import (
	"net/http"

	"github.com/nonomnouns/clankpad/internal/config"
)

// ManifestHandler serves the frame manifest at /.well-known/farcaster.json.
type ManifestHandler struct {
	cfg *config.Config
}

func NewManifestHandler(cfg *config.Config) *ManifestHandler {
	return &ManifestHandler{cfg: cfg}
}

type accountAssociation struct {
	Header    string `json:"header"`
	Payload   string `json:"payload"`
	Signature string `json:"signature"`
}

type frameManifest struct {
	Version               string `json:"version"`
	Name                  string `json:"name"`
	IconURL               string `json:"iconUrl"`
	SplashImageURL        string `json:"splashImageUrl"`
	SplashBackgroundColor string `json:"splashBackgroundColor"`
	HomeURL               string `json:"homeUrl"`
	WebhookURL            string `json:"webhookUrl"`
}

type manifestResponse struct {
	AccountAssociation accountAssociation `json:"accountAssociation"`
	Frame              frameManifest      `json:"frame"`
}

func (h *ManifestHandler) Get(w http.ResponseWriter, _ *http.Request) {
	base := h.cfg.PublicBaseURL
	writeJSON(w, http.StatusOK, manifestResponse{
		AccountAssociation: accountAssociation{
			Header:    h.cfg.Manifest.Header,
			Payload:   h.cfg.Manifest.Payload,
			Signature: h.cfg.Manifest.Signature,
		},
		Frame: frameManifest{
			Version:               "1",
			Name:                  "Clankpad",
			IconURL:               base + "/icon.png",
			SplashImageURL:        base + "/splash.png",
			SplashBackgroundColor: "#fafaf9",
			HomeURL:               base,
			WebhookURL:            base + "/api/webhook",
		},
	})
}
