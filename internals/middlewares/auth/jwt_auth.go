package auth

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// Locals keys hydrated from the token.
const (
	LocUserID = "user_id"
	LocRole   = "role"
	LocClaims = "jwt_claims"
)

type AuthJWTOpts struct {
	Secret              string
	AllowCookieFallback bool // read the access_token cookie when no Bearer header is sent
}

func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: secret is required")
	}

	return func(c *fiber.Ctx) error {
		raw := ""
		if authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			raw = strings.TrimSpace(authz[7:])
		} else if o.AllowCookieFallback {
			raw = strings.TrimSpace(c.Cookies("access_token"))
		}
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}
		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
		}
		c.Locals(LocClaims, claims)

		// user id: id, sub, user_id in order of preference
		for _, key := range []string{"id", "sub", "user_id"} {
			if id, ok := intClaim(claims, key); ok {
				c.Locals(LocUserID, id)
				break
			}
		}
		if role := primaryRole(claims); role != "" {
			c.Locals(LocRole, role)
		}
		return c.Next()
	}
}

// intClaim accepts numeric claims and numeric strings.
func intClaim(m jwt.MapClaims, key string) (int64, bool) {
	switch v := m[key].(type) {
	case float64:
		if v > 0 {
			return int64(v), true
		}
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil && n > 0 {
			return n, true
		}
	}
	return 0, false
}

// primaryRole reads "role", falling back to the first entry of "roles".
func primaryRole(m jwt.MapClaims) string {
	if s, ok := m["role"].(string); ok && strings.TrimSpace(s) != "" {
		return strings.ToLower(strings.TrimSpace(s))
	}
	if arr, ok := m["roles"].([]any); ok {
		for _, it := range arr {
			if s, ok := it.(string); ok && strings.TrimSpace(s) != "" {
				return strings.ToLower(strings.TrimSpace(s))
			}
		}
	}
	return ""
}
