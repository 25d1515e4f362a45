package server

import (
	"bytes"
	"embed"
	"html/template"
	"time"

	"github.com/gofiber/fiber/v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"timeAgo": func(t time.Time) string {
		return TimeAgo(t, time.Now())
	},
}).ParseFS(templateFS, "templates/*.html"))

// render executes the named page template into the response. Pages are
// buffered so a template error surfaces as an error response instead of
// a torn page.
func (s *Server) render(c *fiber.Ctx, name string, data any) error {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.log.Error("template render failed", "template", name, "error", err)
		return fiber.ErrInternalServerError
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}
