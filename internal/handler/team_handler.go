package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/codoraai/hackeval-api/internal/dto"
	"github.com/codoraai/hackeval-api/internal/service"
	"github.com/codoraai/hackeval-api/internal/utils"
)

// TeamHandler exposes team registration, login and profile endpoints.
type TeamHandler struct {
	service service.TeamService
	logger  zerolog.Logger
}

// NewTeamHandler constructs a team handler.
func NewTeamHandler(service service.TeamService, logger zerolog.Logger) *TeamHandler {
	return &TeamHandler{
		service: service,
		logger:  logger.With().Str("component", "team_handler").Logger(),
	}
}

// Register wires public team routes.
func (h *TeamHandler) Register(router fiber.Router) {
	router.Post("/register", h.register)
	router.Post("/login", h.login)
}

// RegisterProtected wires routes requiring a team token.
func (h *TeamHandler) RegisterProtected(router fiber.Router) {
	router.Get("/current-team", h.currentTeam)
}

func (h *TeamHandler) register(c *fiber.Ctx) error {
	var payload dto.TeamRegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := validate.Struct(payload); err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Register(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "team registered", response)
}

func (h *TeamHandler) login(c *fiber.Ctx) error {
	var payload dto.TeamLoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := validate.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "email and password are required")
	}

	response, err := h.service.Login(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "login successful", response)
}

func (h *TeamHandler) currentTeam(c *fiber.Ctx) error {
	teamID := authIDFromContext(c)
	if teamID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
	}

	response, err := h.service.GetByID(c.Context(), teamID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "team profile fetched", response)
}

func (h *TeamHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrTeamExists):
		return utils.SendError(c, fiber.StatusConflict, service.ErrTeamExists.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, service.ErrInvalidCredentials.Error())
	case errors.Is(err, service.ErrTeamNotFound):
		return utils.SendError(c, fiber.StatusNotFound, service.ErrTeamNotFound.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("team request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to process request")
	}
}
