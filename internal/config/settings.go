package config

import (
	"encoding/json"
	"os"

	"github.com/joho/godotenv"

	"mstodo/internal/service"
)

// Credentials is the OAuth app registration the token manager needs.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Settings is the persisted settings object. Client credentials may be
// stored here or supplied through the environment / .env file; the
// environment wins when both are present.
type Settings struct {
	ClientID              string             `json:"clientId,omitempty"`
	ClientSecret          string             `json:"clientSecret,omitempty"`
	RedirectURL           string             `json:"redirectUrl,omitempty"`
	SelectedTaskListID    string             `json:"selectedTaskListId,omitempty"`
	SelectedTaskListTitle string             `json:"selectedTaskListTitle,omitempty"`
	TaskLists             []service.TaskList `json:"taskLists,omitempty"`
	ShowComplete          bool               `json:"showComplete"`
	ShowDueDate           bool               `json:"showDueDate"`
	EnableConfetti        bool               `json:"enableConfetti"`

	path string
}

// DefaultSettings returns settings with display defaults enabled.
func DefaultSettings(path string) *Settings {
	return &Settings{
		RedirectURL:  "http://localhost:5000/callback",
		ShowComplete: true,
		ShowDueDate:  true,
		path:         path,
	}
}

// LoadSettings reads the settings file and applies environment
// overrides. A missing file yields defaults; the .env file next to the
// settings is loaded first if present.
func LoadSettings(cfg *Config) (*Settings, error) {
	// Ignore a missing .env; only real read failures matter.
	if err := godotenv.Load(cfg.EnvPath()); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	s := DefaultSettings(cfg.SettingsPath())
	data, err := os.ReadFile(s.path)
	switch {
	case os.IsNotExist(err):
		// First run.
	case err != nil:
		return nil, err
	default:
		if err := json.Unmarshal(data, s); err != nil {
			return nil, err
		}
	}

	if v := os.Getenv("MSTODO_CLIENT_ID"); v != "" {
		s.ClientID = v
	}
	if v := os.Getenv("MSTODO_CLIENT_SECRET"); v != "" {
		s.ClientSecret = v
	}
	if v := os.Getenv("MSTODO_REDIRECT_URL"); v != "" {
		s.RedirectURL = v
	}
	return s, nil
}

// Save writes the settings file with mode 0600. Settings without a
// backing path (in-memory, tests) save nowhere.
func (s *Settings) Save() error {
	if s.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// Credentials returns the OAuth credentials, or a ConfigError naming
// the first missing field.
func (s *Settings) Credentials() (Credentials, error) {
	switch {
	case s.ClientID == "":
		return Credentials{}, &service.ConfigError{Field: "clientId"}
	case s.ClientSecret == "":
		return Credentials{}, &service.ConfigError{Field: "clientSecret"}
	case s.RedirectURL == "":
		return Credentials{}, &service.ConfigError{Field: "redirectUrl"}
	}
	return Credentials{
		ClientID:     s.ClientID,
		ClientSecret: s.ClientSecret,
		RedirectURL:  s.RedirectURL,
	}, nil
}

// HasSelectedList reports whether a task list has been selected.
func (s *Settings) HasSelectedList() bool {
	return s.SelectedTaskListID != ""
}
