package handler

import (
	"go-pos-inventory/internal/access"
	"go-pos-inventory/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// actor returns the caller's identity; routes outside RequireAuth act as
// the system identity.
func actor(c *fiber.Ctx) access.Identity {
	if id, ok := middleware.Identity(c); ok {
		return id
	}
	return access.System
}
