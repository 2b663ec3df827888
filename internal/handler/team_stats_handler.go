package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/capstone-go-api/internal/service"
	"github.com/noah-isme/capstone-go-api/internal/utils"
)

// TeamStatsHandler serves aggregated task grids.
type TeamStatsHandler struct {
	service service.TeamStatsService
	logger  zerolog.Logger
}

// NewTeamStatsHandler builds a team stats handler instance.
func NewTeamStatsHandler(service service.TeamStatsService, logger zerolog.Logger) *TeamStatsHandler {
	return &TeamStatsHandler{
		service: service,
		logger:  logger.With().Str("component", "team_stats_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *TeamStatsHandler) Register(router fiber.Router) {
	router.Get("/teams/:id/task-grid", h.teamGrid)
	router.Get("/grades/:id/task-grid", h.gradeGrid)
}

func (h *TeamStatsHandler) teamGrid(c *fiber.Ctx) error {
	teamID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	grid, err := h.service.TeamTaskGrid(c.Context(), teamID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "team task grid retrieved", grid)
}

func (h *TeamStatsHandler) gradeGrid(c *fiber.Ctx) error {
	gradeID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	grid, err := h.service.GradeTaskGrid(c.Context(), gradeID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "grade task grid retrieved", grid)
}

func (h *TeamStatsHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrTeamNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "team not found")
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
