package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-helpdesk/backend/internal/storage/jsonstore"
	"github.com/campus-helpdesk/backend/internal/storage/models"
)

// StudentHandler serves the public subset of admin data used by the
// profile dropdowns. Timetables, faculty details and the rest stay
// private to the chatbot.
type StudentHandler struct {
	adminData *jsonstore.AdminDataStore
}

func NewStudentHandler(adminData *jsonstore.AdminDataStore) *StudentHandler {
	return &StudentHandler{
		adminData: adminData,
	}
}

func (h *StudentHandler) GetStudentData(c *fiber.Ctx) error {
	data := h.adminData.AdminData()

	departments := data.Departments
	if departments == nil {
		departments = []string{}
	}
	semesters := data.Semesters
	if semesters == nil {
		semesters = []string{}
	}
	sections := data.Sections
	if sections == nil {
		sections = []string{}
	}
	notifications := data.Notifications
	if notifications == nil {
		notifications = []models.Notification{}
	}

	return c.JSON(fiber.Map{
		"departments":   departments,
		"semesters":     semesters,
		"sections":      sections,
		"notifications": notifications,
	})
}
