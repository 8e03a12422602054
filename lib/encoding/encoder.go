// Package encoding turns small Go values into URL- and cookie-safe tokens.
//
// Values are packed with msgpack and then either signed (readable but
// tamper-evident) or sealed (AES-256-GCM, opaque). CSRF tokens are signed;
// session cookies are sealed.
package encoding

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Sentinel errors returned when a token cannot be decoded.
var (
	ErrInvalidFormat    = errors.New("encoding: invalid token format")
	ErrSignatureInvalid = errors.New("encoding: signature verification failed")
	ErrDecryptFailed    = errors.New("encoding: decryption failed")
)

// sigLen is the truncated HMAC length in bytes.
const sigLen = 16

// Encoder signs and seals values with a single key.
type Encoder struct {
	key []byte
	gcm cipher.AEAD
}

// NewEncoder creates an encoder. Keys shorter than 32 bytes are stretched
// with SHA-256.
func NewEncoder(key []byte) (*Encoder, error) {
	if len(key) < 32 {
		h := sha256.Sum256(key)
		key = h[:]
	}

	block, err := aes.NewCipher(key[:32])
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &Encoder{key: key, gcm: gcm}, nil
}

// Sign packs v and returns "<payload>.<signature>".
func (e *Encoder) Sign(v any) (string, error) {
	packed, err := msgpack.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding: pack: %w", err)
	}
	payload := base64.RawURLEncoding.EncodeToString(packed)
	sig := base64.RawURLEncoding.EncodeToString(e.mac(packed))
	return payload + "." + sig, nil
}

// Verify checks a token produced by Sign and unpacks it into v.
func (e *Encoder) Verify(token string, v any) error {
	payload, sig, ok := strings.Cut(token, ".")
	if !ok {
		return ErrInvalidFormat
	}
	packed, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return ErrInvalidFormat
	}
	got, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return ErrInvalidFormat
	}
	if !hmac.Equal(got, e.mac(packed)) {
		return ErrSignatureInvalid
	}
	if err := msgpack.Unmarshal(packed, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return nil
}

// Seal packs and encrypts v.
func (e *Encoder) Seal(v any) (string, error) {
	packed, err := msgpack.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding: pack: %w", err)
	}
	nonce := make([]byte, e.gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(e.gcm.Seal(nonce, nonce, packed, nil)), nil
}

// Open decrypts a token produced by Seal and unpacks it into v.
func (e *Encoder) Open(token string, v any) error {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return ErrInvalidFormat
	}
	if len(raw) < e.gcm.NonceSize() {
		return ErrInvalidFormat
	}
	nonce, ciphertext := raw[:e.gcm.NonceSize()], raw[e.gcm.NonceSize():]
	packed, err := e.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return ErrDecryptFailed
	}
	if err := msgpack.Unmarshal(packed, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return nil
}

func (e *Encoder) mac(data []byte) []byte {
	m := hmac.New(sha256.New, e.key)
	m.Write(data)
	return m.Sum(nil)[:sigLen]
}
