// Package qr encodes and parses the JSON payload embedded in bag QR codes.
// Rendering the code image and scanning it are left to the clients; this
// package only owns the payload format.
package qr

import (
	"encoding/json"
	"fmt"
	"time"
)

// AppID identifies payloads produced by this application. Scanned
// payloads carrying any other app id are rejected.
const AppID = "jambonrider"

// Payload is the structured record carried by a bag's QR code.
type Payload struct {
	App       string `json:"app"`
	BagID     string `json:"bagId"`
	Timestamp string `json:"timestamp"`
}

// New creates a payload for the given bag, stamped with the current time.
func New(bagID string) Payload {
	return Payload{
		App:       AppID,
		BagID:     bagID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Encode serializes the payload for embedding in a QR code.
func (p Payload) Encode() ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding qr payload: %w", err)
	}
	return data, nil
}

// Parse decodes a scanned payload. It accepts the payload only if the app
// identifier matches and a bag id is present.
func Parse(data []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing qr payload: %w", err)
	}
	if p.App != AppID {
		return nil, fmt.Errorf("qr payload from unknown app %q", p.App)
	}
	if p.BagID == "" {
		return nil, fmt.Errorf("qr payload has no bag id")
	}
	return &p, nil
}
