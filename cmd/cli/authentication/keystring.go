package authentication

// Session persistence for the CLI, kept in the OS keyring.
import (
	"encoding/json"
	"errors"
	"fmt"

	"veritaslab/cmd/cli/command/client"

	"github.com/zalando/go-keyring"
)

const (
	serviceName = "veritas-cli"
	sessionKey  = "session"
)

// SaveSession stores sess for later commands.
func SaveSession(sess client.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return keyring.Set(serviceName, sessionKey, string(data))
}

// LoadSession returns the stored session, or a zero Session when nobody is signed in.
func LoadSession() (client.Session, error) {
	value, err := keyring.Get(serviceName, sessionKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return client.Session{}, nil
	}
	if err != nil {
		return client.Session{}, fmt.Errorf("failed to read session from keyring: %w", err)
	}

	var sess client.Session
	if err := json.Unmarshal([]byte(value), &sess); err != nil {
		return client.Session{}, fmt.Errorf("stored session is corrupt, please log in again: %w", err)
	}
	return sess, nil
}

// DeleteSession signs out. Deleting a missing session is not an error.
func DeleteSession() error {
	err := keyring.Delete(serviceName, sessionKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
