package middleware

import (
	"strings"

	"go-pos-inventory/internal/access"
	"go-pos-inventory/internal/apperror"
	"go-pos-inventory/pkg/jwt"
	"go-pos-inventory/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// minCredentialLength rejects credentials too short to be a signed token.
const minCredentialLength = 10

// credential extracts the bearer token. The x-auth-token header is accepted
// when no Authorization header is sent.
func credential(c *fiber.Ctx) string {
	if header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return ""
		}
		return strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(c.Get("x-auth-token"))
}

// RequireAuth verifies the token, checks the role against policy for the
// normalized request path and attaches the identity to the request.
func RequireAuth(tokens *jwt.Manager, policy *access.Policy, log *logger.Logger) fiber.Handler {
	log = log.WithComponent("auth")

	return func(c *fiber.Ctx) error {
		path := access.Normalize(c.OriginalURL())
		method := c.Method()

		deny := func(err *apperror.AppError, role, reason string) error {
			log.Warnw("access denied",
				"reason", reason, "role", role, "path", path, "method", method, "ip", c.IP())
			return err
		}

		token := credential(c)
		if len(token) < minCredentialLength {
			return deny(apperror.NewUnauthenticated("Missing or malformed authorization token").WithCause(jwt.ErrMissingToken),
				"", "missing_credential")
		}

		claims, err := tokens.ValidateToken(token)
		if err != nil {
			return deny(apperror.NewUnauthenticated("Invalid or expired token").WithCause(err), "", "invalid_token")
		}

		if claims.Role == "" {
			return deny(apperror.NewForbidden("Token carries no role"), "", "missing_role")
		}

		if !policy.Allows(claims.Role, path, method) {
			return deny(apperror.NewForbidden("Access denied for this route"), claims.Role, "no_matching_rule")
		}

		id := access.Identity{UserID: claims.UserID, Role: claims.Role}
		c.SetUserContext(access.WithIdentity(c.UserContext(), id))
		c.Locals("user_id", id.UserID)
		c.Locals("user_role", id.Role)

		return c.Next()
	}
}

// Identity returns the identity attached by RequireAuth.
func Identity(c *fiber.Ctx) (access.Identity, bool) {
	return access.FromContext(c.UserContext())
}
