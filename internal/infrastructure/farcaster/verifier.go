package farcaster

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nonomnouns/clankpad/internal/domain"
)

// KeyVerifier checks that an app key is registered to a fid. Implemented by
// the Neynar client.
type KeyVerifier interface {
	ValidAppKey(ctx context.Context, fid int64, keyHex string) (bool, error)
}

// signedRequest is the JSON Farcaster Signature envelope: three unpadded
// base64url segments.
type signedRequest struct {
	Header    string `json:"header"`
	Payload   string `json:"payload"`
	Signature string `json:"signature"`
}

type signatureHeader struct {
	FID  int64  `json:"fid"`
	Type string `json:"type"`
	Key  string `json:"key"`
}

// Verifier validates signed webhook events. The signature is ed25519 over
// "<header>.<payload>" using the app key named in the header; the key itself
// must be registered to the claimed fid.
type Verifier struct {
	keys KeyVerifier
}

func NewVerifier(keys KeyVerifier) *Verifier {
	return &Verifier{keys: keys}
}

// VerifyAndParse checks the envelope signature and returns the decoded event.
// All verification and envelope-decoding failures wrap
// domain.ErrInvalidSignature; only key-registry lookups can fail otherwise.
func (v *Verifier) VerifyAndParse(ctx context.Context, raw []byte) (*domain.WebhookEvent, error) {
	var req signedRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", domain.ErrInvalidSignature)
	}

	headerJSON, err := base64.RawURLEncoding.DecodeString(req.Header)
	if err != nil {
		return nil, fmt.Errorf("decode header: %w", domain.ErrInvalidSignature)
	}
	var header signatureHeader
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, fmt.Errorf("parse header: %w", domain.ErrInvalidSignature)
	}
	if header.Type != "app_key" {
		return nil, fmt.Errorf("unsupported signature type %q: %w", header.Type, domain.ErrInvalidSignature)
	}

	pubKey, err := hex.DecodeString(strings.TrimPrefix(header.Key, "0x"))
	if err != nil || len(pubKey) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("malformed app key: %w", domain.ErrInvalidSignature)
	}

	sig, err := base64.RawURLEncoding.DecodeString(req.Signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return nil, fmt.Errorf("malformed signature: %w", domain.ErrInvalidSignature)
	}

	signed := []byte(req.Header + "." + req.Payload)
	if !ed25519.Verify(ed25519.PublicKey(pubKey), signed, sig) {
		return nil, fmt.Errorf("signature mismatch: %w", domain.ErrInvalidSignature)
	}

	valid, err := v.keys.ValidAppKey(ctx, header.FID, header.Key)
	if err != nil {
		return nil, fmt.Errorf("verify app key: %w", err)
	}
	if !valid {
		return nil, fmt.Errorf("app key not registered to fid %d: %w", header.FID, domain.ErrInvalidSignature)
	}

	payloadJSON, err := base64.RawURLEncoding.DecodeString(req.Payload)
	if err != nil {
		return nil, fmt.Errorf("decode payload: %w", domain.ErrInvalidSignature)
	}
	var event domain.WebhookEvent
	if err := json.Unmarshal(payloadJSON, &event); err != nil {
		return nil, fmt.Errorf("parse payload: %w", domain.ErrInvalidSignature)
	}
	event.FID = header.FID
	return &event, nil
}
