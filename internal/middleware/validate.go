package middleware

import (
	"errors"
	"net/http"

	"github.com/bilgisen/spacecards/internal/logger"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const (
	queryLocalsKey = "queryParams"
	bodyLocalsKey  = "validated"
)

var validate = validator.New()

// ValidateBody parses the request body into a fresh T per request and
// validates it. Handlers read the result with Body[T].
func ValidateBody[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		v := new(T)
		if err := c.BodyParser(v); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
				"msg":   err.Error(),
			})
		}

		if err := validate.Struct(v); err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":  "Validation failed",
				"fields": fieldErrors(err),
			})
		}

		c.Locals(bodyLocalsKey, v)
		return c.Next()
	}
}

// ValidateQuery is ValidateBody for query parameters. Handlers read the
// result with Query[T].
func ValidateQuery[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		v := new(T)
		if err := c.QueryParser(v); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid query parameters",
				"msg":   err.Error(),
			})
		}

		if err := validate.Struct(v); err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":  "Invalid query parameters",
				"fields": fieldErrors(err),
			})
		}

		c.Locals(queryLocalsKey, v)
		return c.Next()
	}
}

// Body returns the body validated by ValidateBody[T]
func Body[T any](c *fiber.Ctx) *T {
	v, _ := c.Locals(bodyLocalsKey).(*T)
	return v
}

// Query returns the query validated by ValidateQuery[T]
func Query[T any](c *fiber.Ctx) *T {
	v, _ := c.Locals(queryLocalsKey).(*T)
	return v
}

func fieldErrors(err error) map[string]string {
	out := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			out[fe.Field()] = fe.Tag()
		}
	}
	return out
}

// ErrorHandler is a middleware that handles errors in a consistent way
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	logger.Get().Error().
		Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", code).
		Msg("HTTP error")

	return c.Status(code).JSON(fiber.Map{
		"error": http.StatusText(code),
	})
}
