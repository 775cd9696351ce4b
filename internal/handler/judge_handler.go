package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/codoraai/hackeval-api/internal/dto"
	"github.com/codoraai/hackeval-api/internal/service"
	"github.com/codoraai/hackeval-api/internal/utils"
)

// JudgeHandler exposes judge authentication and scorecard endpoints.
type JudgeHandler struct {
	service     service.JudgeService
	leaderboard service.LeaderboardService
	logger      zerolog.Logger
}

// NewJudgeHandler constructs a judge handler.
func NewJudgeHandler(service service.JudgeService, leaderboard service.LeaderboardService, logger zerolog.Logger) *JudgeHandler {
	return &JudgeHandler{
		service:     service,
		leaderboard: leaderboard,
		logger:      logger.With().Str("component", "judge_handler").Logger(),
	}
}

// Register wires public judge routes.
func (h *JudgeHandler) Register(router fiber.Router) {
	router.Post("/register", h.register)
	router.Post("/login", h.login)
}

// RegisterProtected wires routes requiring a judge token.
func (h *JudgeHandler) RegisterProtected(router fiber.Router) {
	router.Post("/evaluations", h.submitEvaluation)
	router.Get("/evaluations", h.listEvaluations)
}

func (h *JudgeHandler) register(c *fiber.Ctx) error {
	var payload dto.JudgeRegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := validate.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "name, email and password are required")
	}

	response, err := h.service.Register(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "judge registered", response)
}

func (h *JudgeHandler) login(c *fiber.Ctx) error {
	var payload dto.JudgeLoginRequest
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

func (h *JudgeHandler) submitEvaluation(c *fiber.Ctx) error {
	judgeID := authIDFromContext(c)
	if judgeID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
	}

	var payload dto.EvaluationSubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := validate.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "scores must be between 0 and 100")
	}

	response, err := h.service.SubmitEvaluation(c.Context(), judgeID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	h.leaderboard.Invalidate(c.Context())

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "evaluation recorded", response)
}

func (h *JudgeHandler) listEvaluations(c *fiber.Ctx) error {
	judgeID := authIDFromContext(c)
	if judgeID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
	}

	response, err := h.service.ListEvaluations(c.Context(), judgeID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "evaluations fetched", response)
}

func (h *JudgeHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrJudgeExists):
		return utils.SendError(c, fiber.StatusConflict, service.ErrJudgeExists.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, service.ErrInvalidCredentials.Error())
	case errors.Is(err, service.ErrJudgeNotFound):
		return utils.SendError(c, fiber.StatusNotFound, service.ErrJudgeNotFound.Error())
	case errors.Is(err, service.ErrTeamNotFound):
		return utils.SendError(c, fiber.StatusNotFound, service.ErrTeamNotFound.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("judge request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to process request")
	}
}
