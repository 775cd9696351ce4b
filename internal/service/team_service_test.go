package service

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/codoraai/hackeval-api/internal/dto"
)

func registerPayload() dto.TeamRegisterRequest {
	return dto.TeamRegisterRequest{
		TeamName: "alpha",
		Email:    "Account@Example.com",
		Password: "hunter22",
		Members: []dto.MemberPayload{
			{Name: "Lead", Email: "lead@example.com"},
			{Name: "Dev", Email: "dev@example.com"},
		},
		ProjectTitle: "HackEval",
		TechStack:    []string{"go", "postgres"},
	}
}

func TestTeamRegisterAndLogin(t *testing.T) {
	teams := newTeamRepoStub()
	svc := NewTeamService(teams, NewLogMailDelivery(testLogger()), "jwt-secret", testLogger())

	response, err := svc.Register(context.Background(), registerPayload())
	require.NoError(t, err)
	require.Equal(t, "alpha", response.Team.TeamName)
	require.Equal(t, "account@example.com", response.Team.Email)
	require.NotEmpty(t, response.AccessToken)

	// first member becomes the leader
	require.True(t, response.Team.Members[0].IsLeader)
	require.False(t, response.Team.Members[1].IsLeader)

	token, err := jwt.Parse(response.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte("jwt-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	require.Equal(t, "team", claims["role"])

	login, err := svc.Login(context.Background(), dto.TeamLoginRequest{
		Email:    "account@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	require.Equal(t, response.Team.ID, login.Team.ID)
}

func TestTeamRegisterDuplicate(t *testing.T) {
	teams := newTeamRepoStub()
	svc := NewTeamService(teams, NewLogMailDelivery(testLogger()), "jwt-secret", testLogger())

	_, err := svc.Register(context.Background(), registerPayload())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerPayload())
	require.ErrorIs(t, err, ErrTeamExists)
}

func TestTeamLoginBadCredentials(t *testing.T) {
	teams := newTeamRepoStub()
	svc := NewTeamService(teams, NewLogMailDelivery(testLogger()), "jwt-secret", testLogger())

	_, err := svc.Register(context.Background(), registerPayload())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.TeamLoginRequest{
		Email:    "account@example.com",
		Password: "wrong",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.TeamLoginRequest{
		Email:    "ghost@example.com",
		Password: "hunter22",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
