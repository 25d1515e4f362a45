package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// parsePostID extracts the :id route parameter as a positive int.
func parsePostID(c *fiber.Ctx) (int, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// returnTo reads the return_to form field so mutations can land back on
// the page the form was on. Only local paths are accepted.
func returnTo(c *fiber.Ctx) string {
	rt := c.FormValue("return_to")
	if rt == "" || !strings.HasPrefix(rt, "/") || strings.HasPrefix(rt, "//") {
		return "/"
	}
	return rt
}
