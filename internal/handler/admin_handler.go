package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/codoraai/hackeval-api/internal/service"
	"github.com/codoraai/hackeval-api/internal/utils"
)

// AdminHandler exposes organizer tooling: bulk roster import and standings
// export as Excel workbooks, plus a team listing.
type AdminHandler struct {
	imports service.ImportService
	teams   service.TeamService
	logger  zerolog.Logger
}

// NewAdminHandler constructs an admin handler.
func NewAdminHandler(imports service.ImportService, teams service.TeamService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		imports: imports,
		teams:   teams,
		logger:  logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register wires admin routes.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Post("/upload/teams", h.importTeams)
	router.Get("/export/leaderboard", h.exportStandings)
	router.Get("/teams", h.listTeams)
}

func (h *AdminHandler) importTeams(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "spreadsheet file is required")
	}

	handle, err := file.Open()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "failed to open spreadsheet")
	}
	defer handle.Close()

	report, err := h.imports.ImportTeams(c.Context(), handle)
	if err != nil {
		if errors.Is(err, service.ErrEmptySheet) {
			return utils.SendError(c, fiber.StatusBadRequest, service.ErrEmptySheet.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("team import failed")
		return utils.SendError(c, fiber.StatusBadRequest, "failed to import spreadsheet")
	}

	return utils.SendSuccess(c, "teams imported", report)
}

func (h *AdminHandler) exportStandings(c *fiber.Ctx) error {
	workbook, err := h.imports.ExportStandings(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("standings export failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to export standings")
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="standings.xlsx"`)

	buffer, err := workbook.WriteToBuffer()
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to serialize workbook")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to export standings")
	}

	return c.Send(buffer.Bytes())
}

func (h *AdminHandler) listTeams(c *fiber.Ctx) error {
	teams, err := h.teams.List(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list teams")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list teams")
	}

	return utils.SendSuccess(c, "teams fetched", teams)
}
