package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	"remotejobs-engine/internal/config"
)

const (
	// “Service” groups the app’s secrets in the OS keychain.
	KeyringService = "remotejobs"

	// EnvDBPassword overrides the keychain, for containers without one.
	EnvDBPassword = "REMOTEJOBS_DB_PASSWORD"
)

var ErrNotFound = errors.New("database password not found (set it in keychain or via env)")

// GetDBPassword looks in the environment first, then the keychain.
func GetDBPassword(keyringAccount string) (string, error) {
	if pw := os.Getenv(EnvDBPassword); strings.TrimSpace(pw) != "" {
		return pw, nil
	}
	if strings.TrimSpace(keyringAccount) != "" {
		pw, err := keyring.Get(KeyringService, keyringAccount)
		if err == nil && strings.TrimSpace(pw) != "" {
			return pw, nil
		}
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("keyring: %w", err)
		}
	}
	return "", ErrNotFound
}

func SetDBPassword(keyringAccount string, password string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, keyringAccount, password)
}

func DeleteDBPassword(keyringAccount string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, keyringAccount)
}

func DBKeyringAccount(cfg config.Config) string {
	account := strings.TrimSpace(cfg.Store.KeyringAccount)
	if account == "" {
		account = "default"
	}
	return "remotejobs:db:" + account
}
