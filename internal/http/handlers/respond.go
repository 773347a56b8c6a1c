package handlers

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"kalaur/internal/apperr"
	applog "kalaur/internal/log"
)

var errBadJSON = apperr.New(apperr.CodeValidation, "invalid JSON body").WithReason("bad_json")

// ErrorHandler renders every error as JSON. Messages of internal and
// upstream failures are replaced with a generic one and logged instead.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	status, msg, reason := apperr.Public(err)
	if status >= fiber.StatusInternalServerError && status != fiber.StatusNotImplemented {
		applog.Error(c, "server.error", err, nil)
	}
	code := apperr.CodeInternal
	if e := apperr.As(err); e != nil {
		code = e.Code()
	}
	body := fiber.Map{"error": msg, "code": code}
	if reason != "" {
		body["reason"] = reason
	}
	return c.Status(status).JSON(body)
}

// decodeJSON reads the request body regardless of Content-Type. An empty
// body leaves dst untouched.
func decodeJSON(c *fiber.Ctx, dst any) error {
	body := c.Body()
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return errBadJSON
	}
	return nil
}

func cookieHeader(c *fiber.Ctx) string {
	return string(c.Request().Header.Peek(fiber.HeaderCookie))
}
