package config

import (
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "foodlog"

// KeyringStore keeps secrets in the system keyring
type KeyringStore struct {
	ring keyring.Keyring
}

// NewKeyringStore creates a new keyring store instance
func NewKeyringStore() (*KeyringStore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return &KeyringStore{ring: ring}, nil
}

// SetPassword stores a secret under name
func (k *KeyringStore) SetPassword(name, password string) error {
	return k.ring.Set(keyring.Item{
		Key:   name,
		Data:  []byte(password),
		Label: serviceName + " " + name,
	})
}

// GetPassword retrieves the secret stored under name
func (k *KeyringStore) GetPassword(name string) (string, error) {
	item, err := k.ring.Get(name)
	if err != nil {
		return "", fmt.Errorf("secret not found in keyring: %s", name)
	}
	return string(item.Data), nil
}
