package storage

import (
	"context"
	"fmt"

	"github.com/pfrederiksen/outage-log/internal/crypto"
)

// EncryptedBackend encrypts values before handing them to the wrapped backend.
type EncryptedBackend struct {
	inner     Backend
	encryptor *crypto.Encryptor
}

// NewEncryptedBackend wraps inner. With a nil encryptor values pass through unchanged.
func NewEncryptedBackend(inner Backend, encryptor *crypto.Encryptor) *EncryptedBackend {
	return &EncryptedBackend{
		inner:     inner,
		encryptor: encryptor,
	}
}

// GetItem reads and decrypts the value for key
func (e *EncryptedBackend) GetItem(ctx context.Context, key string) (string, bool, error) {
	value, found, err := e.inner.GetItem(ctx, key)
	if err != nil || !found {
		return value, found, err
	}

	plaintext, err := e.encryptor.Decrypt(value)
	if err != nil {
		return "", false, fmt.Errorf("decrypting %s: %w", key, err)
	}
	return plaintext, true, nil
}

// SetItem encrypts value and stores it under key
func (e *EncryptedBackend) SetItem(ctx context.Context, key, value string) error {
	ciphertext, err := e.encryptor.Encrypt(value)
	if err != nil {
		return fmt.Errorf("encrypting %s: %w", key, err)
	}
	return e.inner.SetItem(ctx, key, ciphertext)
}

// RemoveItem deletes key from the wrapped backend
func (e *EncryptedBackend) RemoveItem(ctx context.Context, key string) error {
	return e.inner.RemoveItem(ctx, key)
}
