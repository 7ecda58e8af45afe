package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
)

// PassportCipher encrypts passport numbers at rest with AES-256-GCM.
// The stored form is base64(nonce || ciphertext); the raw number never
// touches the database or logs.
type PassportCipher struct {
	aead cipher.AEAD
}

// NewPassportCipher derives a 256-bit key from the configured secret.
func NewPassportCipher(secret string) (*PassportCipher, error) {
	if secret == "" {
		return nil, fmt.Errorf("passport encryption secret is empty")
	}
	key := sha256.Sum256([]byte(secret))

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &PassportCipher{aead: aead}, nil
}

func (c *PassportCipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (c *PassportCipher) Decrypt(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("malformed ciphertext: %w", err)
	}
	if len(raw) < c.aead.NonceSize() {
		return "", fmt.Errorf("ciphertext too short")
	}
	nonce, sealed := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("decryption failed: %w", err)
	}
	return string(plaintext), nil
}

// Mask returns the display form shown in the portal: last four characters
// visible, rest starred.
func Mask(passportNumber string) string {
	if len(passportNumber) <= 4 {
		return "****"
	}
	masked := make([]byte, len(passportNumber))
	for i := range masked {
		masked[i] = '*'
	}
	copy(masked[len(masked)-4:], passportNumber[len(passportNumber)-4:])
	return string(masked)
}
