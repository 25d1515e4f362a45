// Package session is the auth session provider: it resolves the current
// user from the session cookie once per request and exposes the sign-in
// and sign-out actions. The hosted auth provider owns the OAuth flow;
// this package only holds the resulting access token.
package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"log/slog"
	"time"

	"socially/internal/backend"
	"socially/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	sessionCookie  = "socially_session"
	verifierCookie = "socially_verifier"
	stateLocal     = "sessionState"
)

// State is the per-request auth state. By the time a handler runs the
// session middleware has always finished resolving it, so absence of a
// user is a settled fact, never an in-flight one.
type State struct {
	User  *backend.User
	Token string
	Err   error
}

// Profile returns the identity snapshot written into rows the user creates.
func (s *State) Profile() models.Profile {
	if s.User == nil {
		return models.Profile{}
	}
	return models.Profile{
		ID:        s.User.ID,
		Email:     s.User.Email,
		Name:      s.User.UserMetadata.FullName,
		AvatarURL: s.User.UserMetadata.AvatarURL,
	}
}

// Manager wires the auth provider to cookies and Fiber handlers.
type Manager struct {
	auth    *backend.Auth
	baseURL string
	secure  bool
	log     *slog.Logger
}

// NewManager creates a session manager. baseURL is this application's
// externally visible URL, used for the OAuth callback.
func NewManager(auth *backend.Auth, baseURL string, secure bool, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{auth: auth, baseURL: baseURL, secure: secure, log: logger}
}

// Middleware resolves the session state for every request, exactly once.
// A failed lookup records the error and leaves the user nil; the request
// proceeds as unauthenticated. Nothing is retried.
func (m *Manager) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		state := &State{}
		if token := c.Cookies(sessionCookie); token != "" {
			user, err := m.auth.CurrentUser(c.Context(), token)
			if err != nil {
				m.log.Warn("session resolution failed", "error", err)
				state.Err = err
			} else {
				state.User = user
				state.Token = token
			}
		}
		c.Locals(stateLocal, state)
		return c.Next()
	}
}

// Inject returns a middleware that installs a fixed, pre-resolved state
// on every request. Tests use it in place of Middleware.
func Inject(state *State) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(stateLocal, state)
		return c.Next()
	}
}

// FromCtx returns the resolved session state for the request.
func FromCtx(c *fiber.Ctx) *State {
	if state, ok := c.Locals(stateLocal).(*State); ok {
		return state
	}
	return &State{}
}

// BeginOAuth starts the Google sign-in: it stores a fresh PKCE verifier
// in a short-lived cookie and redirects to the provider. No local state
// changes until the browser comes back with a code.
func (m *Manager) BeginOAuth(c *fiber.Ctx) error {
	verifier, challenge, err := newPKCEPair()
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     verifierCookie,
		Value:    verifier,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect(m.auth.AuthorizeURL("google", m.baseURL+"/auth/callback", challenge))
}

// Callback exchanges the provider's code for a session and stores the
// access token in the session cookie.
func (m *Manager) Callback(c *fiber.Ctx) error {
	code := c.Query("code")
	verifier := c.Cookies(verifierCookie)
	if code == "" || verifier == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing auth code")
	}

	sess, err := m.auth.ExchangeCode(c.Context(), code, verifier)
	if err != nil {
		return err
	}

	c.ClearCookie(verifierCookie)
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    sess.AccessToken,
		Expires:  time.Now().Add(tokenLifetime(sess)),
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

// SignOut asks the provider to invalidate the session, then clears the
// cookie regardless of the outcome so the local user is gone either way.
func (m *Manager) SignOut(c *fiber.Ctx) error {
	if token := c.Cookies(sessionCookie); token != "" {
		if err := m.auth.SignOut(c.Context(), token); err != nil {
			m.log.Warn("sign-out request failed", "error", err)
		}
	}
	c.ClearCookie(sessionCookie)
	return nil
}

// tokenLifetime derives the cookie lifetime from the session, falling
// back to the token's own exp claim when the provider omits expires_in.
func tokenLifetime(sess *backend.Session) time.Duration {
	if sess.ExpiresIn > 0 {
		return time.Duration(sess.ExpiresIn) * time.Second
	}
	// The token was just issued by the provider; only its exp claim is
	// read here, so an unverified parse is sufficient.
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(sess.AccessToken, &claims); err == nil {
		if claims.ExpiresAt != nil {
			if d := time.Until(claims.ExpiresAt.Time); d > 0 {
				return d
			}
		}
	}
	return time.Hour
}

// newPKCEPair generates a code verifier and its S256 challenge.
func newPKCEPair() (verifier, challenge string, err error) {
	buf := make([]byte, 32)
	if _, err = rand.Read(buf); err != nil {
		return "", "", err
	}
	verifier = base64.RawURLEncoding.EncodeToString(buf)
	sum := sha256.Sum256([]byte(verifier))
	challenge = base64.RawURLEncoding.EncodeToString(sum[:])
	return verifier, challenge, nil
}
