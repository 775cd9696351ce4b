package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/codoraai/hackeval-api/internal/service"
	"github.com/codoraai/hackeval-api/internal/utils"
)

// SubmissionHandler exposes the presentation upload and analysis endpoints
// for the team panel.
type SubmissionHandler struct {
	service service.SubmissionService
	logger  zerolog.Logger
}

// NewSubmissionHandler constructs a submission handler.
func NewSubmissionHandler(service service.SubmissionService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register wires the public submission routes onto the team PPT group.
func (h *SubmissionHandler) Register(router fiber.Router) {
	router.Get("/team-evaluation/:teamName", h.summary)
}

// RegisterProtected wires routes requiring a team token.
func (h *SubmissionHandler) RegisterProtected(router fiber.Router) {
	router.Post("/:teamId/submit-ppt", h.submit)
	router.Get("/:teamId/ppt-analysis", h.analysis)
}

func (h *SubmissionHandler) submit(c *fiber.Ctx) error {
	teamID, err := parseParamUint(c, "teamId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid team id")
	}

	file, err := c.FormFile("pptFile")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, service.ErrFileRequired.Error())
	}

	leaderEmail := strings.TrimSpace(c.FormValue("leaderEmail"))

	response, err := h.service.Submit(c.Context(), teamID, file, leaderEmail)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "PPT submitted successfully. Analysis is in progress.", response)
}

func (h *SubmissionHandler) analysis(c *fiber.Ctx) error {
	teamID, err := parseParamUint(c, "teamId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid team id")
	}

	response, err := h.service.GetAnalysis(c.Context(), teamID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "ppt analysis fetched", response)
}

func (h *SubmissionHandler) summary(c *fiber.Ctx) error {
	teamName := strings.TrimSpace(c.Params("teamName"))
	if teamName == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "team name is required")
	}

	response, err := h.service.GetSummaryByTeamName(c.Context(), teamName)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "team evaluation fetched", response)
}

func (h *SubmissionHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrTeamNotFound):
		return utils.SendError(c, fiber.StatusNotFound, service.ErrTeamNotFound.Error())
	case errors.Is(err, service.ErrSubmissionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, service.ErrSubmissionNotFound.Error())
	case errors.Is(err, service.ErrNoAnalysis):
		return utils.SendError(c, fiber.StatusNotFound, service.ErrNoAnalysis.Error())
	case errors.Is(err, service.ErrFileRequired):
		return utils.SendError(c, fiber.StatusBadRequest, service.ErrFileRequired.Error())
	case errors.Is(err, service.ErrFileTypeNotAllowed):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUploadFailed):
		requestLogger(h.logger, c).Error().Err(err).Msg("upload to object store failed")
		return utils.SendError(c, fiber.StatusInternalServerError, service.ErrUploadFailed.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("submission request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to process submission")
	}
}
