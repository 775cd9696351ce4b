package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/codoraai/hackeval-api/internal/dto"
	"github.com/codoraai/hackeval-api/internal/service"
	"github.com/codoraai/hackeval-api/internal/utils"
)

// WebhookHandler receives asynchronous evaluation results from the external
// evaluator.
type WebhookHandler struct {
	service service.SubmissionService
	logger  zerolog.Logger
}

// NewWebhookHandler constructs a webhook handler.
func NewWebhookHandler(service service.SubmissionService, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		logger:  logger.With().Str("component", "webhook_handler").Logger(),
	}
}

// Register wires the evaluator callback route.
func (h *WebhookHandler) Register(router fiber.Router) {
	router.Post("/evaluation-result", h.receive)
}

func (h *WebhookHandler) receive(c *fiber.Ctx) error {
	var payload dto.WebhookRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.service.ReceiveWebhook(c.Context(), payload); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSignature):
			requestLogger(h.logger, c).Warn().Msg("webhook rejected: bad signature")
			return utils.SendError(c, fiber.StatusUnauthorized, service.ErrInvalidSignature.Error())
		case errors.Is(err, service.ErrMissingWebhookFields):
			return utils.SendError(c, fiber.StatusBadRequest, service.ErrMissingWebhookFields.Error())
		case errors.Is(err, service.ErrTeamNotFound):
			return utils.SendError(c, fiber.StatusNotFound, service.ErrTeamNotFound.Error())
		case errors.Is(err, service.ErrSubmissionNotFound):
			return utils.SendError(c, fiber.StatusNotFound, service.ErrSubmissionNotFound.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to reconcile webhook result")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to process evaluation result")
		}
	}

	return utils.SendSuccess(c, "evaluation result recorded", nil)
}
