package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/campus-helpdesk/backend/internal/auth"
	"github.com/campus-helpdesk/backend/internal/metrics"
	"github.com/campus-helpdesk/backend/internal/middleware/adminauth"
	"github.com/campus-helpdesk/backend/internal/storage/jsonstore"
	"github.com/campus-helpdesk/backend/pkg/logger"
)

type AdminHandler struct {
	authenticator *auth.Authenticator
	adminData     *jsonstore.AdminDataStore
}

func NewAdminHandler(authenticator *auth.Authenticator, adminData *jsonstore.AdminDataStore) *AdminHandler {
	return &AdminHandler{
		authenticator: authenticator,
		adminData:     adminData,
	}
}

// Login is the password step. Success issues a one-time code and the
// client proceeds to VerifyOTP.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Username and password are required",
		})
	}

	result, err := h.authenticator.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		logger.Error("Admin login failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Login failed. Please try again.",
		})
	}

	if !result.OK {
		metrics.AdminLogins.WithLabelValues("denied").Inc()
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": result.Message,
		})
	}

	metrics.AdminLogins.WithLabelValues("otp_issued").Inc()

	response := fiber.Map{
		"success": true,
		"message": result.Message,
	}
	if result.OTP != "" {
		response["otp"] = result.OTP
	}
	return c.JSON(response)
}

// VerifyOTP is the second step, exchanging a valid code for a session
// token.
func (h *AdminHandler) VerifyOTP(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		OTP      string `json:"otp"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Username == "" || req.OTP == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Username and OTP are required",
		})
	}

	result, err := h.authenticator.VerifyOTP(c.Context(), req.Username, req.OTP)
	if err != nil {
		logger.Error("OTP verification failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Verification failed. Please try again.",
		})
	}

	if !result.OK {
		metrics.AdminLogins.WithLabelValues("otp_denied").Inc()
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": result.Message,
		})
	}

	metrics.AdminLogins.WithLabelValues("success").Inc()

	return c.JSON(fiber.Map{
		"success":   true,
		"message":   result.Message,
		"token":     result.Token,
		"username":  result.Session.Username,
		"role":      result.Session.Role,
		"full_name": result.Session.FullName,
	})
}

func (h *AdminHandler) Logout(c *fiber.Ctx) error {
	token := c.Get(fiber.HeaderAuthorization)
	const prefix = "Bearer "
	if len(token) > len(prefix) {
		token = token[len(prefix):]
	}

	if err := h.authenticator.Logout(c.Context(), token); err != nil {
		logger.Error("Admin logout failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Logout failed",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out successfully.",
	})
}

// GetData returns the raw admin data file so dashboard fields this
// service does not model survive the round trip.
func (h *AdminHandler) GetData(c *fiber.Ctx) error {
	data, err := h.adminData.Raw()
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Admin data file not found",
		})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(data)
}

func (h *AdminHandler) SaveData(c *fiber.Ctx) error {
	session, _ := c.Locals(adminauth.SessionKey).(auth.Session)

	if err := h.adminData.Save(c.Body()); err != nil {
		logger.Error("Failed to save admin data",
			zap.String("username", session.Username),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to save admin data",
		})
	}

	logger.Info("Admin data updated", zap.String("username", session.Username))

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Data saved successfully",
	})
}
