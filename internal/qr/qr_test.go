package qr

import (
	"testing"
	"time"
)

func TestRoundTrip(t *testing.T) {
	data, err := New("bag-123").Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	p, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.BagID != "bag-123" {
		t.Errorf("expected bag id 'bag-123', got %q", p.BagID)
	}
	if p.App != AppID {
		t.Errorf("expected app %q, got %q", AppID, p.App)
	}
	if _, err := time.Parse(time.RFC3339, p.Timestamp); err != nil {
		t.Errorf("timestamp not RFC3339: %q", p.Timestamp)
	}
}

func TestParseRejectsForeignApp(t *testing.T) {
	if _, err := Parse([]byte(`{"app":"someoneelse","bagId":"bag-1"}`)); err == nil {
		t.Error("expected error for foreign app id")
	}
}

func TestParseRejectsMissingBagID(t *testing.T) {
	if _, err := Parse([]byte(`{"app":"jambonrider"}`)); err == nil {
		t.Error("expected error for missing bag id")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse([]byte("https://example.com/not-our-qr")); err == nil {
		t.Error("expected error for non-JSON payload")
	}
}
