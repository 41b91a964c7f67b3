// Package credentials stores the Canvas API token in the operating
// system keychain, keyed per Canvas instance and course.
package credentials

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const service = "canvas-course-builder"

// ErrNotFound indicates no token is stored for the given course.
var ErrNotFound = errors.New("credentials: no token stored")

func account(canvasURL, courseID string) string {
	return fmt.Sprintf("%s:%s", strings.TrimRight(canvasURL, "/"), courseID)
}

// Token returns the stored API token for a course.
func Token(canvasURL, courseID string) (string, error) {
	token, err := keyring.Get(service, account(canvasURL, courseID))
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("credentials: reading keychain: %w", err)
	}
	return token, nil
}

// Store saves an API token for a course, replacing any previous one.
func Store(canvasURL, courseID, token string) error {
	if err := keyring.Set(service, account(canvasURL, courseID), token); err != nil {
		return fmt.Errorf("credentials: writing keychain: %w", err)
	}
	return nil
}

// Forget deletes the stored token for a course. Deleting a token that
// was never stored is not an error.
func Forget(canvasURL, courseID string) error {
	err := keyring.Delete(service, account(canvasURL, courseID))
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("credentials: deleting keychain entry: %w", err)
	}
	return nil
}
