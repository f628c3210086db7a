package tokencipher

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log"

	"planbackend/core"
)

const (
	nonceSize = 12
	tagSize   = 16
)

// Cipher seals token bundles with AES-GCM.
// The stored format is base64(nonce(12) || tag(16) || ciphertext).
// A Cipher built without a key is a pass-through: Encrypt and Decrypt return their input.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher builds a Cipher from a base64 encoded 16, 24 or 32 byte key.
// An empty key yields the pass-through cipher.
func NewCipher(base64Key string) (*Cipher, error) {
	if base64Key == "" {
		return &Cipher{}, nil
	}

	key, err := base64.StdEncoding.DecodeString(base64Key)
	if err != nil {
		return nil, fmt.Errorf("encryption key must be base64 encoded: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("invalid encryption key: %w", err)
	}

	aead, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM cipher: %w", err)
	}

	return &Cipher{aead: aead}, nil
}

// Enabled reports whether a key is configured
func (c *Cipher) Enabled() bool {
	return c.aead != nil
}

func (c *Cipher) Encrypt(plaintext string) (string, error) {
	if !c.Enabled() {
		return plaintext, nil
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	// Seal appends the tag after the ciphertext, the stored layout puts it first
	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	encrypted, tag := sealed[:len(sealed)-tagSize], sealed[len(sealed)-tagSize:]

	blob := make([]byte, 0, nonceSize+tagSize+len(encrypted))
	blob = append(blob, nonce...)
	blob = append(blob, tag...)
	blob = append(blob, encrypted...)
	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt opens a blob produced by Encrypt. Any malformed or tampered input fails with core.ErrDecryptFailed.
func (c *Cipher) Decrypt(ciphertext string) (string, error) {
	if !c.Enabled() {
		return ciphertext, nil
	}

	blob, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		log.Printf("⚠️ Stored credentials are not valid base64")
		return "", fmt.Errorf("%w: %v", core.ErrDecryptFailed, err)
	}
	if len(blob) < nonceSize+tagSize {
		log.Printf("⚠️ Stored credentials are too short to be a sealed blob")
		return "", fmt.Errorf("%w: ciphertext too short", core.ErrDecryptFailed)
	}

	nonce := blob[:nonceSize]
	tag := blob[nonceSize : nonceSize+tagSize]
	encrypted := blob[nonceSize+tagSize:]

	sealed := make([]byte, 0, len(encrypted)+tagSize)
	sealed = append(sealed, encrypted...)
	sealed = append(sealed, tag...)

	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		log.Printf("⚠️ Stored credentials failed authentication")
		return "", fmt.Errorf("%w: %v", core.ErrDecryptFailed, err)
	}

	return string(plaintext), nil
}
