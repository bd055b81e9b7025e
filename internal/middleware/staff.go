package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/looooooty/basesweb/internal/models"
	"github.com/looooooty/basesweb/internal/types"
)

// Staff gate headers.
const (
	StaffCodeHeader = "X-Staff-Code"
	StaffNameHeader = "X-Staff-Name"
)

const staffUserKey = "staffUser"

// CheckCode validates a presented staff code.
type CheckCode func(code string) bool

// SharedSecret returns a CheckCode comparing against a single static code.
func SharedSecret(code string) CheckCode {
	return func(presented string) bool {
		return subtle.ConstantTimeCompare([]byte(presented), []byte(code)) == 1
	}
}

// RequireStaff validates the staff code header and records the acting
// staff name in the request context for review attribution.
func RequireStaff(check CheckCode) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := strings.TrimSpace(c.Get(StaffCodeHeader))
		if code == "" || !check(code) {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Invalid staff code",
				Type:    "staff.authorization",
			}
		}

		name := models.CleanText(c.Get(StaffNameHeader), models.MaxReviewerLen)
		if name == "" {
			name = "Staff"
		}
		c.Locals(staffUserKey, name)

		return c.Next()
	}
}

// StaffUser returns the staff name recorded by RequireStaff.
func StaffUser(c *fiber.Ctx) string {
	if name, ok := c.Locals(staffUserKey).(string); ok && name != "" {
		return name
	}
	return "Staff"
}
