package service

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions the orchestrator reacts to.
var (
	// ErrNoTokenCache means no token cache file exists yet; the user has
	// never completed an interactive login.
	ErrNoTokenCache = errors.New("no token cache")

	// ErrNoRefreshToken means the token cache exists but holds no
	// refresh-token entry.
	ErrNoRefreshToken = errors.New("token cache has no refresh token")

	// ErrNoTaskListSelected means a task operation was attempted before a
	// list was selected.
	ErrNoTaskListSelected = errors.New("no task list selected")

	// ErrNoActiveNote means the note to push from could not be read.
	ErrNoActiveNote = errors.New("no active note")

	// ErrNoTasksFound means a push source contained no checklist items.
	ErrNoTasksFound = errors.New("no tasks found in note")
)

// ConfigError reports a missing credential field.
type ConfigError struct {
	Field string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing configuration: %s", e.Field)
}

// OAuthError carries the error the authorization provider returned
// during interactive login.
type OAuthError struct {
	Code        string
	Description string
}

func (e *OAuthError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("oauth error: %s: %s", e.Code, e.Description)
	}
	return fmt.Sprintf("oauth error: %s", e.Code)
}

// RemoteError is a non-success HTTP response from the task API. Status
// and body are preserved unmodified.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote error: status %d: %s", e.Status, e.Body)
}
