package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	sessionLocalsKey = "sessionID"
	// maxSessionIDLength bounds client-supplied session ids
	maxSessionIDLength = 128
)

// SessionConfig defines the config for the session middleware
type SessionConfig struct {
	// Next defines a function to skip middleware.
	// Optional. Default: nil
	Next func(c *fiber.Ctx) bool

	// Header is the request header carrying the session id.
	// Optional. Default: "X-Session-ID"
	Header string

	// Cookie is the cookie carrying the session id when the header is absent.
	// Optional. Default: "sc_session"
	Cookie string

	// Generator creates ids for new sessions.
	// Optional. Default: uuid.NewString
	Generator func() string
}

// SessionConfigDefault is the default config
var SessionConfigDefault = SessionConfig{
	Header:    "X-Session-ID",
	Cookie:    "sc_session",
	Generator: uuid.NewString,
}

// NewSession identifies the browser session a request belongs to. The id
// scopes volatile view state only; it grants no access to anything.
func NewSession(config ...SessionConfig) fiber.Handler {
	cfg := SessionConfigDefault

	if len(config) > 0 {
		cfg = config[0]

		if cfg.Header == "" {
			cfg.Header = SessionConfigDefault.Header
		}
		if cfg.Cookie == "" {
			cfg.Cookie = SessionConfigDefault.Cookie
		}
		if cfg.Generator == nil {
			cfg.Generator = SessionConfigDefault.Generator
		}
	}
	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		id := c.Get(cfg.Header)
		if !validSessionID(id) {
			id = c.Cookies(cfg.Cookie)
		}
		if !validSessionID(id) {
			id = cfg.Generator()
			c.Cookie(&fiber.Cookie{
				Name:     cfg.Cookie,
				Value:    id,
				Path:     "/",
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
				// no Expires: the cookie lives as long as the browser session
			})
		}

		c.Locals(sessionLocalsKey, id)
		c.Set(cfg.Header, id)
		return c.Next()
	}
}

// SessionID returns the session id stored by NewSession
func SessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(sessionLocalsKey).(string)
	return id
}

func validSessionID(id string) bool {
	return id != "" && len(id) <= maxSessionIDLength
}
