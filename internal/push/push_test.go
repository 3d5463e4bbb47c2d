package push

import (
	"encoding/base64"
	"testing"
)

func TestGenerateVAPIDKeys(t *testing.T) {
	pub, priv, err := GenerateVAPIDKeys()
	if err != nil {
		t.Fatalf("generate VAPID keys: %v", err)
	}

	// Public key: base64url, 65-byte uncompressed P-256 point.
	pubBytes, err := base64.RawURLEncoding.DecodeString(pub)
	if err != nil {
		t.Fatalf("decode public key: %v", err)
	}
	if len(pubBytes) != 65 {
		t.Errorf("public key length = %d, want 65", len(pubBytes))
	}

	// Private key: base64url, 32-byte P-256 scalar.
	privBytes, err := base64.RawURLEncoding.DecodeString(priv)
	if err != nil {
		t.Fatalf("decode private key: %v", err)
	}
	if len(privBytes) != 32 {
		t.Errorf("private key length = %d, want 32", len(privBytes))
	}

	pub2, _, err := GenerateVAPIDKeys()
	if err != nil {
		t.Fatalf("generate again: %v", err)
	}
	if pub == pub2 {
		t.Error("expected different keys on second generation")
	}
}

func TestServiceDefaults(t *testing.T) {
	svc := NewService(Config{VAPIDPublicKey: "pub", VAPIDPrivateKey: "priv"})
	if svc.VAPIDPublicKey() != "pub" {
		t.Errorf("public key = %q, want %q", svc.VAPIDPublicKey(), "pub")
	}
	if svc.subscriber == "" {
		t.Error("expected default subscriber")
	}

	svc = NewService(Config{Subscriber: "mailto:ops@example.com"})
	if svc.subscriber != "mailto:ops@example.com" {
		t.Errorf("subscriber = %q", svc.subscriber)
	}
}
