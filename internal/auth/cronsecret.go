package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/portal-service/pkg/util"
)

// CronGuard authorizes non-interactive scheduled-job callers by shared
// secret. The check is a flat equality against a configured set and is
// independent of the Principal model.
type CronGuard struct {
	secrets [][]byte
}

// NewCronGuard builds a guard. With no configured secrets every request is
// rejected.
func NewCronGuard(secrets []string) *CronGuard {
	g := &CronGuard{}
	for _, s := range secrets {
		if s != "" {
			g.secrets = append(g.secrets, []byte(s))
		}
	}
	return g
}

// Handle accepts the secret from the X-Cron-Secret header, a bearer token or
// the `secret` query parameter.
func (g *CronGuard) Handle(c *fiber.Ctx) error {
	for _, supplied := range g.supplied(c) {
		if g.match(supplied) {
			return c.Next()
		}
	}
	return apperrors.NewUnauthorized("invalid job secret")
}

func (g *CronGuard) supplied(c *fiber.Ctx) []string {
	var out []string
	if v := c.Get("X-Cron-Secret"); v != "" {
		out = append(out, v)
	}
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			out = append(out, parts[1])
		}
	}
	if v := c.Query("secret"); v != "" {
		out = append(out, v)
	}
	return out
}

func (g *CronGuard) match(supplied string) bool {
	for _, secret := range g.secrets {
		if subtle.ConstantTimeCompare(secret, []byte(supplied)) == 1 {
			return true
		}
	}
	return false
}
