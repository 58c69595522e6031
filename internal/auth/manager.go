// Package auth owns the OAuth token lifecycle: the interactive
// authorization-code flow, the persisted token cache, and refresh-token
// exchanges. One Manager owns one cache file; there is no ambient
// state.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"

	"mstodo/internal/config"
	"mstodo/internal/service"
)

// Authority tenant for consumer Microsoft accounts.
const tenant = "consumers"

// Scopes requested on every exchange. offline_access is what yields a
// refresh token.
var scopes = []string{"Tasks.ReadWrite", "offline_access"}

// tokenCache is the serialized cache format: token entries keyed by an
// account identifier. The whole file is rewritten on every successful
// exchange; last writer wins.
type tokenCache struct {
	Entries map[string]*oauth2.Token `json:"entries"`
	SavedAt time.Time                `json:"savedAt"`
}

// Manager runs the OAuth flows and owns the token cache file.
type Manager struct {
	conf      *oauth2.Config
	cachePath string
	opener    Opener
	log       *zap.Logger
}

// New creates a Manager from credentials. Missing fields surface as a
// ConfigError.
func New(creds config.Credentials, cachePath string, opener Opener, log *zap.Logger) (*Manager, error) {
	switch {
	case creds.ClientID == "":
		return nil, &service.ConfigError{Field: "clientId"}
	case creds.ClientSecret == "":
		return nil, &service.ConfigError{Field: "clientSecret"}
	case creds.RedirectURL == "":
		return nil, &service.ConfigError{Field: "redirectUrl"}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		conf: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  creds.RedirectURL,
			Scopes:       scopes,
			Endpoint:     microsoft.AzureADEndpoint(tenant),
		},
		cachePath: cachePath,
		opener:    opener,
		log:       log,
	}, nil
}

// GetToken returns a valid access token. Without a cache file it runs
// the interactive flow; otherwise it exchanges the cached refresh
// token. A failed refresh is returned as-is and never falls back to
// interactive login; the caller decides whether to re-run login.
func (m *Manager) GetToken(ctx context.Context) (service.AccessToken, error) {
	if _, err := os.Stat(m.cachePath); os.IsNotExist(err) {
		return m.GetAccessToken(ctx)
	}
	return m.RefreshAccessToken(ctx)
}

// GetAccessToken runs the interactive authorization-code flow: open the
// auth surface, watch redirects for a code or a provider error, then
// exchange the code and persist the resulting cache.
func (m *Manager) GetAccessToken(ctx context.Context) (service.AccessToken, error) {
	if m.opener == nil {
		return service.AccessToken{}, fmt.Errorf("no auth surface available")
	}

	authURL := m.conf.AuthCodeURL(uuid.NewString(),
		oauth2.SetAuthURLParam("response_mode", "query"),
		oauth2.SetAuthURLParam("prompt", "consent"),
	)

	surface, err := m.opener.Open(ctx, authURL)
	if err != nil {
		return service.AccessToken{}, fmt.Errorf("open auth surface: %w", err)
	}

	code, err := m.waitForCode(ctx, surface)
	surface.Close()
	if err != nil {
		return service.AccessToken{}, err
	}

	token, err := m.conf.Exchange(ctx, code)
	if err != nil {
		return service.AccessToken{}, fmt.Errorf("code exchange failed: %w", err)
	}
	if err := m.saveCache(token); err != nil {
		return service.AccessToken{}, err
	}

	m.log.Debug("interactive login complete",
		zap.Bool("hasRefreshToken", token.RefreshToken != ""))
	return service.AccessToken{
		Value:        token.AccessToken,
		ObtainedFrom: service.TokenFromInteractive,
	}, nil
}

// waitForCode consumes redirects until one carries a code or an error
// parameter. Redirects with neither are ignored. There is no timeout;
// an abandoned sign-in only ends when the context is cancelled or the
// surface closes.
func (m *Manager) waitForCode(ctx context.Context, surface Surface) (string, error) {
	for {
		select {
		case u, ok := <-surface.Redirects():
			if !ok {
				return "", fmt.Errorf("auth surface closed before a code arrived")
			}
			q := u.Query()
			if errCode := q.Get("error"); errCode != "" {
				return "", &service.OAuthError{
					Code:        errCode,
					Description: q.Get("error_description"),
				}
			}
			if code := q.Get("code"); code != "" {
				return code, nil
			}
			// Intermediate navigation; keep waiting.
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// RefreshAccessToken exchanges the cached refresh token for a new
// access token and rewrites the cache. Fails with ErrNoTokenCache when
// the file is absent and ErrNoRefreshToken when the cache holds no
// refresh-token entry; neither performs a network call. Exchange
// failures propagate untouched.
func (m *Manager) RefreshAccessToken(ctx context.Context) (service.AccessToken, error) {
	cache, err := m.loadCache()
	if err != nil {
		return service.AccessToken{}, err
	}

	refreshToken := firstRefreshToken(cache)
	if refreshToken == "" {
		return service.AccessToken{}, service.ErrNoRefreshToken
	}

	src := m.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := src.Token()
	if err != nil {
		return service.AccessToken{}, err
	}
	if token.RefreshToken == "" {
		// Providers may omit the refresh token on renewal; keep the old one.
		token.RefreshToken = refreshToken
	}
	if err := m.saveCache(token); err != nil {
		return service.AccessToken{}, err
	}

	m.log.Debug("access token refreshed", zap.Time("expiry", token.Expiry))
	return service.AccessToken{
		Value:        token.AccessToken,
		ObtainedFrom: service.TokenFromRefresh,
	}, nil
}

// RedirectURL exposes the configured redirect URI, mostly for wiring
// the local surface.
func (m *Manager) RedirectURL() string {
	u, _ := url.Parse(m.conf.RedirectURL)
	if u == nil {
		return m.conf.RedirectURL
	}
	return u.String()
}

func (m *Manager) loadCache() (*tokenCache, error) {
	data, err := os.ReadFile(m.cachePath)
	if os.IsNotExist(err) {
		return nil, service.ErrNoTokenCache
	}
	if err != nil {
		return nil, err
	}
	var cache tokenCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("corrupt token cache: %w", err)
	}
	return &cache, nil
}

// saveCache serializes the full cache and overwrites the file with mode
// 0600, in the same call as the originating exchange.
func (m *Manager) saveCache(token *oauth2.Token) error {
	cache := tokenCache{
		Entries: map[string]*oauth2.Token{"default": token},
		SavedAt: time.Now().UTC(),
	}
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(m.cachePath, data, 0600); err != nil {
		return fmt.Errorf("persist token cache: %w", err)
	}
	return nil
}

// firstRefreshToken returns the first refresh-token entry, scanning in
// sorted key order so the choice is deterministic.
func firstRefreshToken(cache *tokenCache) string {
	keys := make([]string, 0, len(cache.Entries))
	for k := range cache.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if t := cache.Entries[k]; t != nil && t.RefreshToken != "" {
			return t.RefreshToken
		}
	}
	return ""
}
