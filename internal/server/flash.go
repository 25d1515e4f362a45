package server

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Flash is a one-shot user-visible notice carried across a redirect,
// the server-side equivalent of a toast.
type Flash struct {
	Kind    string
	Message string
}

const (
	flashCookie = "socially_flash"
	flashOK     = "ok"
	flashError  = "error"
)

// setFlash queues a notice for the next rendered page.
func (s *Server) setFlash(c *fiber.Ctx, kind, message string) {
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    kind + "." + base64.RawURLEncoding.EncodeToString([]byte(message)),
		Expires:  time.Now().Add(time.Minute),
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// popFlash reads and clears the pending notice, if any.
func (s *Server) popFlash(c *fiber.Ctx) *Flash {
	raw := c.Cookies(flashCookie)
	if raw == "" {
		return nil
	}
	c.ClearCookie(flashCookie)

	kind, encoded, found := strings.Cut(raw, ".")
	if !found {
		return nil
	}
	msg, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil
	}
	return &Flash{Kind: kind, Message: string(msg)}
}
