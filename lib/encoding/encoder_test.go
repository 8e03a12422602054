package encoding

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

type testClaims struct {
	Session string `msgpack:"s"`
	Level   int    `msgpack:"l"`
	Admin   bool   `msgpack:"a"`
}

func TestNewEncoder(t *testing.T) {
	// Should work with any key length (derives 32-byte key)
	if _, err := NewEncoder([]byte("short")); err != nil {
		t.Fatalf("NewEncoder with short key failed: %v", err)
	}
	if _, err := NewEncoder([]byte("this-is-a-32-byte-key-for-aes!!!")); err != nil {
		t.Fatalf("NewEncoder with 32-byte key failed: %v", err)
	}
	if _, err := NewEncoder([]byte(strings.Repeat("k", 64))); err != nil {
		t.Fatalf("NewEncoder with 64-byte key failed: %v", err)
	}
}

func TestSignRoundTrip(t *testing.T) {
	enc, err := NewEncoder([]byte("test-key"))
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}

	original := testClaims{Session: "abc", Level: 2, Admin: true}
	token, err := enc.Sign(original)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if !strings.Contains(token, ".") {
		t.Fatalf("signed token %q has no separator", token)
	}

	var decoded testClaims
	if err := enc.Verify(token, &decoded); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if decoded != original {
		t.Errorf("decoded = %+v, want %+v", decoded, original)
	}
}

func TestSealRoundTrip(t *testing.T) {
	enc, err := NewEncoder([]byte("test-key"))
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}

	original := testClaims{Session: "secret", Level: 1}
	token, err := enc.Seal(original)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if strings.Contains(token, "secret") {
		t.Errorf("sealed token leaks plaintext: %q", token)
	}

	var decoded testClaims
	if err := enc.Open(token, &decoded); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if decoded != original {
		t.Errorf("decoded = %+v, want %+v", decoded, original)
	}
}

func TestSignatureMismatch(t *testing.T) {
	enc, _ := NewEncoder([]byte("test-key"))

	a, _ := enc.Sign(testClaims{Session: "a"})
	b, _ := enc.Sign(testClaims{Session: "b"})
	payloadA, _, _ := strings.Cut(a, ".")
	_, sigB, _ := strings.Cut(b, ".")

	var decoded testClaims
	err := enc.Verify(payloadA+"."+sigB, &decoded)
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Errorf("Verify(spliced) = %v, want ErrSignatureInvalid", err)
	}
}

func TestSealTampered(t *testing.T) {
	enc, _ := NewEncoder([]byte("test-key"))

	token, err := enc.Seal(testClaims{Session: "x"})
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	raw, _ := base64.RawURLEncoding.DecodeString(token)
	raw[len(raw)-1] ^= 0xff
	tampered := base64.RawURLEncoding.EncodeToString(raw)

	var decoded testClaims
	if err := enc.Open(tampered, &decoded); !errors.Is(err, ErrDecryptFailed) {
		t.Errorf("Open(tampered) = %v, want ErrDecryptFailed", err)
	}
}

func TestInvalidFormat(t *testing.T) {
	enc, _ := NewEncoder([]byte("test-key"))

	tests := []struct {
		name  string
		token string
		open  bool
	}{
		{"missing separator", "invalidbase64withoutseparator", false},
		{"bad payload", "!!!.AAAA", false},
		{"bad signature", "AAAA.!!!", false},
		{"sealed not base64", "!!!", true},
		{"sealed too short", "AAAA", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var decoded testClaims
			var err error
			if tt.open {
				err = enc.Open(tt.token, &decoded)
			} else {
				err = enc.Verify(tt.token, &decoded)
			}
			if !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("got %v, want ErrInvalidFormat", err)
			}
		})
	}
}

func TestDifferentKeysCannotDecode(t *testing.T) {
	enc1, _ := NewEncoder([]byte("key-one"))
	enc2, _ := NewEncoder([]byte("key-two"))

	signed, _ := enc1.Sign(testClaims{Session: "s"})
	var decoded testClaims
	if err := enc2.Verify(signed, &decoded); err == nil {
		t.Error("expected error verifying with a different key")
	}

	sealed, _ := enc1.Seal(testClaims{Session: "s"})
	if err := enc2.Open(sealed, &decoded); err == nil {
		t.Error("expected error opening with a different key")
	}
}
