package crypto

import (
	"encoding/hex"
	"testing"
)

func testKey(t *testing.T) string {
	t.Helper()
	// Fixed 32-byte key for deterministic tests.
	return hex.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
}

func TestRoundtrip(t *testing.T) {
	c, err := NewCipher(testKey(t))
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}

	original := "tok_4f9a1c22e7b8d3"
	sealed, err := c.Seal(original)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if sealed == original {
		t.Fatal("sealed text should differ from plaintext")
	}

	opened, err := c.Open(sealed)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if opened != original {
		t.Errorf("roundtrip failed: got %q, want %q", opened, original)
	}
}

func TestNilCipherPassthrough(t *testing.T) {
	var c *Cipher

	sealed, err := c.Seal("plain")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if sealed != "plain" {
		t.Errorf("nil cipher should pass through, got %q", sealed)
	}

	opened, err := c.Open("plain")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if opened != "plain" {
		t.Errorf("nil cipher should pass through, got %q", opened)
	}
}

func TestNewCipherEmptyKey(t *testing.T) {
	c, err := NewCipher("")
	if err != nil {
		t.Fatalf("NewCipher with empty key: %v", err)
	}
	if c != nil {
		t.Error("empty key should yield a nil cipher")
	}
}

func TestNewCipherBadKey(t *testing.T) {
	if _, err := NewCipher("not-hex"); err == nil {
		t.Error("expected error for non-hex key")
	}
	if _, err := NewCipher(hex.EncodeToString([]byte("short"))); err == nil {
		t.Error("expected error for wrong-length key")
	}
}

func TestOpenGarbage(t *testing.T) {
	c, err := NewCipher(testKey(t))
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}

	if _, err := c.Open("%%%not-base64%%%"); err == nil {
		t.Error("expected error for invalid base64")
	}
	if _, err := c.Open("dG9vc2hvcnQ="); err == nil {
		t.Error("expected error for truncated ciphertext")
	}
}
