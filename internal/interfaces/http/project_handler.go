package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/studio-portal/internal/application/dto"
	"github.com/jhoicas/studio-portal/internal/application/usecase"
)

// ProjectHandler proyectos y reuniones de clientes.
type ProjectHandler struct {
	projects *usecase.ProjectUseCase
	meetings *usecase.MeetingUseCase
}

// NewProjectHandler construye el handler.
func NewProjectHandler(projects *usecase.ProjectUseCase, meetings *usecase.MeetingUseCase) *ProjectHandler {
	return &ProjectHandler{projects: projects, meetings: meetings}
}

// CreateProject POST /admin/projects
func (h *ProjectHandler) CreateProject(c *fiber.Ctx) error {
	var in dto.CreateProjectRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.projects.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListProjects GET /admin/projects
func (h *ProjectHandler) ListProjects(c *fiber.Ctx) error {
	list, err := h.projects.List(c.UserContext(), pageFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// MyProjects GET /portal/projects
func (h *ProjectHandler) MyProjects(c *fiber.Ctx) error {
	list, err := h.projects.ListForCaller(c.UserContext(), GetSession(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// CreateMeeting POST /admin/meetings
func (h *ProjectHandler) CreateMeeting(c *fiber.Ctx) error {
	var in dto.CreateMeetingRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.meetings.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMeetings GET /admin/meetings
func (h *ProjectHandler) ListMeetings(c *fiber.Ctx) error {
	list, err := h.meetings.List(c.UserContext(), pageFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// MyMeetings GET /portal/meetings (próximas primero)
func (h *ProjectHandler) MyMeetings(c *fiber.Ctx) error {
	list, err := h.meetings.ListForCaller(c.UserContext(), GetSession(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}
