package auth

import (
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
)

// FirebaseMiddleware verifies the Bearer token as a Firebase ID token and
// stores the resulting uid in the request context.
func FirebaseMiddleware(client *fbauth.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		if raw == "" || raw == c.Get(fiber.HeaderAuthorization) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		}
		token, err := client.VerifyIDToken(c.UserContext(), raw)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		}
		c.SetUserContext(WithUserID(c.UserContext(), token.UID))
		return c.Next()
	}
}

// JWTMiddleware returns the local-development middleware chain: HMAC token
// verification followed by extraction of the subject claim into the request
// context. The token layout matches what the mobile client sends in dev mode.
func JWTMiddleware(secret string) []fiber.Handler {
	return []fiber.Handler{
		jwtware.New(jwtware.Config{
			SigningKey: []byte(secret),
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
			},
		}),
		func(c *fiber.Ctx) error {
			token, _ := c.Locals("user").(*jwt.Token)
			if token == nil {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
			}
			claims, _ := token.Claims.(jwt.MapClaims)
			uid, _ := claims["sub"].(string)
			if uid == "" {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
			}
			c.SetUserContext(WithUserID(c.UserContext(), uid))
			return c.Next()
		},
	}
}
