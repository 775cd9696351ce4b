package evaluator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Config contains connection details for the external evaluation service.
type Config struct {
	URL             string
	CallbackURL     string
	WebhookSecret   string
	DispatchTimeout time.Duration
	DownloadTimeout time.Duration
	EvaluateTimeout time.Duration
}

const (
	defaultDispatchTimeout = 30 * time.Second
	defaultDownloadTimeout = 2 * time.Minute
	defaultEvaluateTimeout = 5 * time.Minute
)

// Client talks to the external evaluator. Dispatch registers a file for
// asynchronous evaluation with a webhook callback; Evaluate runs the whole
// round trip synchronously and returns the normalized result.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     zerolog.Logger
}

// New constructs an evaluator client.
func New(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("evaluator url must be provided")
	}
	if cfg.DispatchTimeout <= 0 {
		cfg.DispatchTimeout = defaultDispatchTimeout
	}
	if cfg.DownloadTimeout <= 0 {
		cfg.DownloadTimeout = defaultDownloadTimeout
	}
	if cfg.EvaluateTimeout <= 0 {
		cfg.EvaluateTimeout = defaultEvaluateTimeout
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
		logger:     logger.With().Str("component", "evaluator_client").Logger(),
	}, nil
}

type dispatchRequest struct {
	FileURL     string `json:"fileUrl"`
	LeaderEmail string `json:"leaderEmail"`
	CallbackURL string `json:"callbackUrl"`
	Signature   string `json:"signature"`
}

// Dispatch registers the stored file for evaluation. The evaluator fetches
// the file itself and posts the result to the configured callback URL.
func (c *Client) Dispatch(ctx context.Context, fileURL, leaderEmail string) error {
	payload := dispatchRequest{
		FileURL:     fileURL,
		LeaderEmail: leaderEmail,
		CallbackURL: c.cfg.CallbackURL,
		Signature:   c.cfg.WebhookSecret,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode dispatch payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.DispatchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build dispatch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("dispatch request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("evaluator rejected dispatch: status %d", resp.StatusCode)
	}

	c.logger.Info().Str("file_url", fileURL).Msg("submission dispatched to evaluator")

	return nil
}

// Evaluate downloads the stored file and streams it to the evaluator in one
// synchronous call, returning the normalized result.
func (c *Client) Evaluate(ctx context.Context, fileURL, fileName string) (Result, error) {
	file, err := c.download(ctx, fileURL)
	if err != nil {
		return Result{}, err
	}

	raw, err := c.submit(ctx, fileName, file)
	if err != nil {
		return Result{}, err
	}

	return Normalize(raw), nil
}

func (c *Client) download(ctx context.Context, fileURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.DownloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("file download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("file download failed: status %d", resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file body: %w", err)
	}

	return payload, nil
}

func (c *Client) submit(ctx context.Context, fileName string, file []byte) (map[string]any, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(file); err != nil {
		return nil, fmt.Errorf("failed to write multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.EvaluateTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build evaluate request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("evaluate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("evaluator returned status %d", resp.StatusCode)
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode evaluator response: %w", err)
	}

	c.logger.Info().Str("file_name", fileName).Msg("synchronous evaluation completed")

	return raw, nil
}
