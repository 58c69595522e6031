package auth

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

// closeTimeout bounds the listener shutdown, not the login itself.
const closeTimeout = 5 * time.Second

// Surface is a user-facing browser surface the login flow observes.
// Implementations report every navigation that reaches the redirect URL
// on the Redirects channel; the flow decides what to do with each one.
type Surface interface {
	// Redirects delivers observed redirect URLs. The channel is closed
	// when the surface is closed.
	Redirects() <-chan *url.URL

	// Close tears the surface down. Safe to call more than once.
	Close() error
}

// Opener opens a Surface pointed at an authorization URL.
type Opener interface {
	Open(ctx context.Context, authURL string) (Surface, error)
}

// LocalOpener opens a localSurface: an HTTP listener on the redirect
// URL's host and port that captures the provider's redirect. The auth
// URL is printed to Out for the user to open in a browser.
type LocalOpener struct {
	// RedirectURL must match the app registration's redirect URI; its
	// host:port is where the listener binds and its path is the only
	// route served.
	RedirectURL string

	// Out receives the sign-in instructions. Defaults to io.Discard.
	Out io.Writer
}

// Open starts the listener and prints the sign-in URL.
func (o *LocalOpener) Open(ctx context.Context, authURL string) (Surface, error) {
	u, err := url.Parse(o.RedirectURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect url: %w", err)
	}
	path := u.Path
	if path == "" {
		path = "/"
	}

	listener, err := net.Listen("tcp", u.Host)
	if err != nil {
		return nil, fmt.Errorf("cannot listen on %s: %w", u.Host, err)
	}

	s := &localSurface{
		listener:  listener,
		redirects: make(chan *url.URL, 1),
	}

	r := chi.NewRouter()
	r.Get(path, func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, "Authorization successful! You can close this tab.")
		s.deliver(req.URL)
	})

	s.server = &http.Server{Handler: r}
	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.deliverErr(err)
		}
	}()

	out := o.Out
	if out == nil {
		out = io.Discard
	}
	fmt.Fprintln(out, "Open this URL in your browser to sign in:")
	fmt.Fprintln(out, authURL)

	return s, nil
}

type localSurface struct {
	server   *http.Server
	listener net.Listener

	mu        sync.Mutex
	closed    bool
	redirects chan *url.URL
}

func (s *localSurface) Redirects() <-chan *url.URL {
	return s.redirects
}

func (s *localSurface) deliver(u *url.URL) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.redirects <- u:
	default:
		// A redirect is already pending; the flow only consumes one.
	}
}

func (s *localSurface) deliverErr(err error) {
	// Server failure shows up to the flow as a closed channel.
	_ = s.Close()
}

func (s *localSurface) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.redirects)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}
