package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// Auth is the auth provider interface of the backend service. The
// provider owns the OAuth flow end to end; this client only redirects
// to it, exchanges the returned code, and resolves or revokes sessions.
type Auth struct {
	client *Client
}

// User is the authenticated identity as reported by the auth provider.
type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	UserMetadata UserMetadata `json:"user_metadata"`
}

// UserMetadata carries the profile attributes the OAuth provider shared.
type UserMetadata struct {
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

// Session is an issued auth session.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         User   `json:"user"`
}

// AuthorizeURL builds the provider redirect URL for the OAuth code flow.
// The browser is sent here; the provider redirects back to redirectTo
// with a one-time code bound to codeChallenge.
func (a *Auth) AuthorizeURL(provider, redirectTo, codeChallenge string) string {
	v := url.Values{}
	v.Set("provider", provider)
	v.Set("redirect_to", redirectTo)
	v.Set("code_challenge", codeChallenge)
	v.Set("code_challenge_method", "s256")
	return a.client.baseURL + "/auth/v1/authorize?" + v.Encode()
}

// ExchangeCode trades the OAuth callback code for a session.
func (a *Auth) ExchangeCode(ctx context.Context, code, codeVerifier string) (*Session, error) {
	body, err := json.Marshal(map[string]string{
		"auth_code":     code,
		"code_verifier": codeVerifier,
	})
	if err != nil {
		return nil, err
	}
	req, err := a.client.newRequest(ctx, http.MethodPost, "/auth/v1/token?grant_type=pkce", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := a.client.do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CurrentUser resolves the user behind an access token. The token is
// verified by the provider, not locally.
func (a *Auth) CurrentUser(ctx context.Context, accessToken string) (*User, error) {
	req, err := a.client.newRequest(WithToken(ctx, accessToken), http.MethodGet, "/auth/v1/user", nil)
	if err != nil {
		return nil, err
	}
	resp, err := a.client.do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SignOut asks the provider to invalidate the session behind the token.
func (a *Auth) SignOut(ctx context.Context, accessToken string) error {
	req, err := a.client.newRequest(WithToken(ctx, accessToken), http.MethodPost, "/auth/v1/logout", nil)
	if err != nil {
		return err
	}
	resp, err := a.client.do(req)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}
