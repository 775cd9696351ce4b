package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/codoraai/hackeval-api/internal/dto"
	"github.com/codoraai/hackeval-api/internal/models"
	"github.com/codoraai/hackeval-api/internal/service"
	"github.com/codoraai/hackeval-api/internal/utils"
)

type submissionServiceStub struct {
	submitResponse dto.TeamResponse
	submitErr      error
	analysis       dto.SubmissionResponse
	analysisErr    error
	summary        dto.EvaluationSummary
	summaryErr     error
	webhookErr     error
	webhookPayload dto.WebhookRequest
}

func (s *submissionServiceStub) Submit(ctx context.Context, teamID uint, file *multipart.FileHeader, leaderEmail string) (dto.TeamResponse, error) {
	return s.submitResponse, s.submitErr
}

func (s *submissionServiceStub) GetAnalysis(ctx context.Context, teamID uint) (dto.SubmissionResponse, error) {
	return s.analysis, s.analysisErr
}

func (s *submissionServiceStub) GetSummaryByTeamName(ctx context.Context, teamName string) (dto.EvaluationSummary, error) {
	return s.summary, s.summaryErr
}

func (s *submissionServiceStub) ReceiveWebhook(ctx context.Context, payload dto.WebhookRequest) error {
	s.webhookPayload = payload
	return s.webhookErr
}

func (s *submissionServiceStub) Redispatch(team models.Team, submission models.Submission) {}

func newSubmissionApp(stub *submissionServiceStub) *fiber.App {
	app := fiber.New()
	handler := NewSubmissionHandler(stub, zerolog.Nop())
	group := app.Group("/api/v1/team/ppt")
	handler.Register(group)
	handler.RegisterProtected(group)
	return app
}

func multipartUpload(t *testing.T, field, name string, content []byte) (io.Reader, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func decodeEnvelope(t *testing.T, resp *http.Response) utils.APIResponse {
	t.Helper()

	var envelope utils.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope
}

func TestSubmitEndpointAccepts(t *testing.T) {
	stub := &submissionServiceStub{submitResponse: dto.TeamResponse{ID: 1, TeamName: "alpha"}}
	app := newSubmissionApp(stub)

	body, contentType := multipartUpload(t, "pptFile", "deck.pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/team/ppt/1/submit-ppt", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, decodeEnvelope(t, resp).Success)
}

func TestSubmitEndpointRequiresFile(t *testing.T) {
	app := newSubmissionApp(&submissionServiceStub{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/team/ppt/1/submit-ppt", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSubmitEndpointRejectsBadTeamID(t *testing.T) {
	app := newSubmissionApp(&submissionServiceStub{})

	body, contentType := multipartUpload(t, "pptFile", "deck.pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/team/ppt/abc/submit-ppt", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSubmitEndpointUploadFailure(t *testing.T) {
	app := newSubmissionApp(&submissionServiceStub{submitErr: service.ErrUploadFailed})

	body, contentType := multipartUpload(t, "pptFile", "deck.pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/team/ppt/1/submit-ppt", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	require.False(t, envelope.Success)
	require.Equal(t, service.ErrUploadFailed.Error(), envelope.Message)
}

func TestAnalysisEndpointNotFound(t *testing.T) {
	app := newSubmissionApp(&submissionServiceStub{analysisErr: service.ErrSubmissionNotFound})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/team/ppt/1/ppt-analysis", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	require.False(t, envelope.Success)
	require.Equal(t, service.ErrSubmissionNotFound.Error(), envelope.Message)
}

func TestSummaryEndpointNoAnalysis(t *testing.T) {
	app := newSubmissionApp(&submissionServiceStub{summaryErr: service.ErrNoAnalysis})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/team/ppt/team-evaluation/alpha", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWebhookEndpointStatuses(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		expected int
	}{
		{"accepted", nil, http.StatusOK},
		{"bad signature", service.ErrInvalidSignature, http.StatusUnauthorized},
		{"missing fields", service.ErrMissingWebhookFields, http.StatusBadRequest},
		{"unknown team", service.ErrTeamNotFound, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &submissionServiceStub{webhookErr: tc.err}
			app := fiber.New()
			NewWebhookHandler(stub, zerolog.Nop()).Register(app.Group("/api/v1/team-ppt/webhook"))

			payload, err := json.Marshal(dto.WebhookRequest{
				Signature:   "secret",
				LeaderEmail: "lead@example.com",
				Analysis:    map[string]any{"total_score": 70.0},
			})
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/team-ppt/webhook/evaluation-result", bytes.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.expected, resp.StatusCode)
			if tc.err == nil {
				require.Equal(t, "lead@example.com", stub.webhookPayload.LeaderEmail)
			}
		})
	}
}
