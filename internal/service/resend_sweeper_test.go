package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/codoraai/hackeval-api/internal/models"
)

type dispatcherStub struct {
	mu    sync.Mutex
	teams []uint
}

func (d *dispatcherStub) Redispatch(team models.Team, submission models.Submission) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.teams = append(d.teams, team.ID)
}

func (d *dispatcherStub) redispatched() []uint {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]uint(nil), d.teams...)
}

func TestSweepRedispatchesStaleSubmissions(t *testing.T) {
	teams := newTeamRepoStub(sampleTeam())
	subs := newSubmissionRepoStub()
	subs.put(models.Submission{
		TeamID:     1,
		StoredName: "stored-deck.pdf",
		Status:     models.SubmissionStatusProcessing,
		UploadedAt: time.Now().Add(-20 * time.Minute),
	})
	coordinator := testCoordinator()
	defer coordinator.Stop()

	dispatcher := &dispatcherStub{}
	sweeper := NewResendSweeper(teams, subs, coordinator, dispatcher, time.Minute, 15*time.Minute, testLogger())

	sweeper.Sweep(context.Background())

	require.Equal(t, []uint{1}, dispatcher.redispatched())
}

func TestSweepLeavesFreshSubmissionsAlone(t *testing.T) {
	teams := newTeamRepoStub(sampleTeam())
	subs := newSubmissionRepoStub()
	subs.put(models.Submission{
		TeamID:     1,
		Status:     models.SubmissionStatusProcessing,
		UploadedAt: time.Now().Add(-time.Minute),
	})
	coordinator := testCoordinator()
	defer coordinator.Stop()

	dispatcher := &dispatcherStub{}
	sweeper := NewResendSweeper(teams, subs, coordinator, dispatcher, time.Minute, 15*time.Minute, testLogger())

	sweeper.Sweep(context.Background())

	require.Empty(t, dispatcher.redispatched())
}

func TestSweepPrefersPendingRegistryTimestamp(t *testing.T) {
	teams := newTeamRepoStub(sampleTeam())
	subs := newSubmissionRepoStub()
	// upload looks ancient, but the dispatch only just went out
	subs.put(models.Submission{
		TeamID:     1,
		Status:     models.SubmissionStatusProcessing,
		UploadedAt: time.Now().Add(-2 * time.Hour),
	})
	coordinator := testCoordinator()
	defer coordinator.Stop()
	coordinator.TrackPending(1, "stored-deck.pdf")

	dispatcher := &dispatcherStub{}
	sweeper := NewResendSweeper(teams, subs, coordinator, dispatcher, time.Minute, 15*time.Minute, testLogger())

	sweeper.Sweep(context.Background())

	require.Empty(t, dispatcher.redispatched())
}

func TestSweeperStartStop(t *testing.T) {
	teams := newTeamRepoStub()
	subs := newSubmissionRepoStub()
	coordinator := testCoordinator()
	defer coordinator.Stop()

	sweeper := NewResendSweeper(teams, subs, coordinator, &dispatcherStub{}, 10*time.Millisecond, time.Minute, testLogger())
	sweeper.Start()

	time.Sleep(30 * time.Millisecond)
	sweeper.Stop()
	// a second Stop must not panic or block
	sweeper.Stop()
}
