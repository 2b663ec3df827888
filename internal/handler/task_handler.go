package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/capstone-go-api/internal/service"
	"github.com/noah-isme/capstone-go-api/internal/utils"
)

// TaskHandler serves task listings with classifications.
type TaskHandler struct {
	service service.TaskService
	logger  zerolog.Logger
}

// NewTaskHandler builds a task handler instance.
func NewTaskHandler(service service.TaskService, logger zerolog.Logger) *TaskHandler {
	return &TaskHandler{
		service: service,
		logger:  logger.With().Str("component", "task_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *TaskHandler) Register(router fiber.Router) {
	router.Get("/student", h.forStudent)
	router.Get("/team/:id", h.forTeam)
}

func (h *TaskHandler) forStudent(c *fiber.Ctx) error {
	accountID := userIDFromContext(c)
	if accountID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	tasks, err := h.service.TasksForStudent(c.Context(), accountID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "tasks retrieved", tasks)
}

func (h *TaskHandler) forTeam(c *fiber.Ctx) error {
	teamID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	tasks, err := h.service.TasksForTeam(c.Context(), teamID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "tasks retrieved", tasks)
}

func (h *TaskHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrTeamNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "team not found")
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
