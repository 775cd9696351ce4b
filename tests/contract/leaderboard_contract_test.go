package contract_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/codoraai/hackeval-api/internal/dto"
	"github.com/codoraai/hackeval-api/internal/handler"
)

type stubLeaderboardService struct {
	entries []dto.LeaderboardEntry
}

func (s stubLeaderboardService) Leaderboard(context.Context) ([]dto.LeaderboardEntry, error) {
	return s.entries, nil
}

func (s stubLeaderboardService) Invalidate(context.Context) {}

func TestLeaderboardContract(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", "leaderboard.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)

	rank := 1
	entries := []dto.LeaderboardEntry{
		{
			TeamName:             "alpha",
			InnovationUniqueness: ptrFloat(28),
			TechnicalFeasibility: ptrFloat(27),
			PotentialImpact:      ptrFloat(29),
			TotalScore:           ptrFloat(84),
			Rank:                 &rank,
			Status:               dto.LeaderboardStatusAI,
		},
		{
			TeamName: "newcomers",
			Status:   dto.LeaderboardStatusPending,
		},
	}

	leaderboardHandler := handler.NewLeaderboardHandler(stubLeaderboardService{entries: entries}, zerolog.Nop())

	app := fiber.New()
	leaderboardHandler.Register(app.Group("/api/v1/leaderboard"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard/ppt", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
}

func ptrFloat(value float64) *float64 {
	return &value
}
