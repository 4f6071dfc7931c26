package middleware

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/liuwy-dev/tuimian-go-api/internal/models"
	"github.com/liuwy-dev/tuimian-go-api/internal/utils"
)

// JWTProtected validates bearer tokens and stores the caller's identity in
// request locals. Every protected route needs a subject, so tokens without a
// usable user id are rejected outright.
func JWTProtected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		userID, err := subjectFromClaims(claims)
		if err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "token has no valid subject")
		}
		c.Locals("user_id", userID)
		c.Locals("user_role", roleFromClaims(claims))

		if number, ok := claims["student_number"].(string); ok && number != "" {
			c.Locals("student_number", number)
		}

		return c.Next()
	}
}

func subjectFromClaims(claims jwt.MapClaims) (uint, error) {
	for _, key := range []string{"sub", "user_id"} {
		value, ok := claims[key]
		if !ok {
			continue
		}
		switch v := value.(type) {
		case float64:
			if v >= 0 {
				return uint(v), nil
			}
		case string:
			if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
				return uint(parsed), nil
			}
		}
	}
	return 0, fmt.Errorf("no usable subject claim")
}

// roleFromClaims maps the token's role claim to a known account role.
// Unknown or missing roles default to student, the least privileged role.
func roleFromClaims(claims jwt.MapClaims) string {
	raw, ok := claims["role"].(string)
	if !ok {
		return models.RoleStudent
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case models.RoleReviewer:
		return models.RoleReviewer
	default:
		return models.RoleStudent
	}
}
