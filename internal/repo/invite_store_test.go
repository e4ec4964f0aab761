package repo

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rinklog/internal/models"
)

func seedTeamWithOwner(t *testing.T, teams *TeamStore, ownerID string) string {
	t.Helper()
	res, err := teams.Bootstrap(context.Background(), ownerID)
	require.NoError(t, err)
	return res.TeamID
}

func TestInviteRoundTrip(t *testing.T) {
	db := openTestDB(t)
	teams := NewTeamStore(db)
	invites := NewInviteStore(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@x.com")
	teamID := seedTeamWithOwner(t, teams, owner.ID)

	inv, err := invites.Create(ctx, CreateInviteInput{
		TeamID: teamID,
		Email:  "P@X.com", // stored lower-cased
		Role:   models.RoleAdmin,
		TTL:    7 * 24 * time.Hour,
	})
	require.NoError(t, err)
	assert.Equal(t, "p@x.com", inv.Email)
	assert.Len(t, inv.Token, inviteTokenBytes*2)
	assert.Nil(t, inv.AcceptedAt)

	invitee := seedUser(t, db, "p@x.com")
	res, err := invites.Accept(ctx, invitee.ID, invitee.Email, inv.Token)
	require.NoError(t, err)
	assert.Equal(t, teamID, res.TeamID)
	assert.Equal(t, models.RoleAdmin, res.Role)

	// membership carries exactly the invite's role
	m, err := teams.Membership(ctx, teamID, invitee.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, m.Role)
}

func TestInviteAcceptCaseInsensitiveEmail(t *testing.T) {
	db := openTestDB(t)
	teams := NewTeamStore(db)
	invites := NewInviteStore(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@x.com")
	teamID := seedTeamWithOwner(t, teams, owner.ID)

	inv, err := invites.Create(ctx, CreateInviteInput{
		TeamID: teamID, Email: "a@x.com", Role: models.RoleViewer, TTL: time.Hour,
	})
	require.NoError(t, err)

	invitee := seedUser(t, db, "a@x.com")
	// caller email differing only in case must match
	_, err = invites.Accept(ctx, invitee.ID, "A@X.com", inv.Token)
	require.NoError(t, err)
}

func TestInviteAcceptEmailMismatch(t *testing.T) {
	db := openTestDB(t)
	teams := NewTeamStore(db)
	invites := NewInviteStore(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@x.com")
	teamID := seedTeamWithOwner(t, teams, owner.ID)

	inv, err := invites.Create(ctx, CreateInviteInput{
		TeamID: teamID, Email: "a@x.com", Role: models.RoleViewer, TTL: time.Hour,
	})
	require.NoError(t, err)

	stranger := seedUser(t, db, "c@x.com")
	_, err = invites.Accept(ctx, stranger.ID, stranger.Email, inv.Token)
	assert.ErrorIs(t, err, ErrEmailMismatch)

	_, err = invites.Accept(ctx, stranger.ID, "", inv.Token)
	assert.ErrorIs(t, err, ErrNoEmail)
}

func TestInviteAcceptExpired(t *testing.T) {
	db := openTestDB(t)
	teams := NewTeamStore(db)
	invites := NewInviteStore(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@x.com")
	teamID := seedTeamWithOwner(t, teams, owner.ID)

	inv, err := invites.Create(ctx, CreateInviteInput{
		TeamID: teamID, Email: "late@x.com", Role: models.RoleViewer, TTL: -time.Second,
	})
	require.NoError(t, err)

	invitee := seedUser(t, db, "late@x.com")
	// expired and never accepted: always Expired, never AlreadyUsed
	_, err = invites.Accept(ctx, invitee.ID, invitee.Email, inv.Token)
	assert.ErrorIs(t, err, ErrInviteExpired)
	_, err = invites.Accept(ctx, invitee.ID, invitee.Email, inv.Token)
	assert.ErrorIs(t, err, ErrInviteExpired)
}

func TestInviteAcceptUnknownToken(t *testing.T) {
	db := openTestDB(t)
	invites := NewInviteStore(db)
	u := seedUser(t, db, "who@x.com")

	_, err := invites.Accept(context.Background(), u.ID, u.Email, "deadbeefdeadbeef")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestInviteDoubleAccept(t *testing.T) {
	db := openTestDB(t)
	teams := NewTeamStore(db)
	invites := NewInviteStore(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@x.com")
	teamID := seedTeamWithOwner(t, teams, owner.ID)

	inv, err := invites.Create(ctx, CreateInviteInput{
		TeamID: teamID, Email: "once@x.com", Role: models.RoleViewer, TTL: time.Hour,
	})
	require.NoError(t, err)

	invitee := seedUser(t, db, "once@x.com")
	_, err = invites.Accept(ctx, invitee.ID, invitee.Email, inv.Token)
	require.NoError(t, err)

	_, err = invites.Accept(ctx, invitee.ID, invitee.Email, inv.Token)
	assert.ErrorIs(t, err, ErrInviteUsed)
}

func TestInviteConcurrentAcceptSingleWinner(t *testing.T) {
	db := openTestDB(t)
	teams := NewTeamStore(db)
	invites := NewInviteStore(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@x.com")
	teamID := seedTeamWithOwner(t, teams, owner.ID)

	inv, err := invites.Create(ctx, CreateInviteInput{
		TeamID: teamID, Email: "race@x.com", Role: models.RoleAdmin, TTL: time.Hour,
	})
	require.NoError(t, err)
	invitee := seedUser(t, db, "race@x.com")

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = invites.Accept(ctx, invitee.ID, invitee.Email, inv.Token)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, e := range errs {
		if e == nil {
			successes++
		}
	}
	assert.Equal(t, 1, successes, "exactly one concurrent accept may win")

	var n int64
	require.NoError(t, db.Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, invitee.ID).
		Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestInviteReAcceptOverwritesRole(t *testing.T) {
	db := openTestDB(t)
	teams := NewTeamStore(db)
	invites := NewInviteStore(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@x.com")
	teamID := seedTeamWithOwner(t, teams, owner.ID)
	invitee := seedUser(t, db, "m@x.com")

	first, err := invites.Create(ctx, CreateInviteInput{
		TeamID: teamID, Email: "m@x.com", Role: models.RoleAdmin, TTL: time.Hour,
	})
	require.NoError(t, err)
	_, err = invites.Accept(ctx, invitee.ID, invitee.Email, first.Token)
	require.NoError(t, err)

	// a second invite with a lower role overwrites on redemption
	second, err := invites.Create(ctx, CreateInviteInput{
		TeamID: teamID, Email: "m@x.com", Role: models.RoleViewer, TTL: time.Hour,
	})
	require.NoError(t, err)
	_, err = invites.Accept(ctx, invitee.ID, invitee.Email, second.Token)
	require.NoError(t, err)

	m, err := teams.Membership(ctx, teamID, invitee.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleViewer, m.Role)

	var n int64
	require.NoError(t, db.Model(&models.TeamMember{}).
		Where("team_id = ?", teamID).Count(&n).Error)
	assert.EqualValues(t, 2, n) // owner + invitee, no duplicate rows
}

func TestHasPending(t *testing.T) {
	db := openTestDB(t)
	teams := NewTeamStore(db)
	invites := NewInviteStore(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@x.com")
	teamID := seedTeamWithOwner(t, teams, owner.ID)

	ok, err := invites.HasPending(ctx, "new@x.com")
	require.NoError(t, err)
	assert.False(t, ok)

	inv, err := invites.Create(ctx, CreateInviteInput{
		TeamID: teamID, Email: "new@x.com", Role: models.RoleViewer, TTL: time.Hour,
	})
	require.NoError(t, err)

	ok, err = invites.HasPending(ctx, "NEW@X.com")
	require.NoError(t, err)
	assert.True(t, ok)

	invitee := seedUser(t, db, "new@x.com")
	_, err = invites.Accept(ctx, invitee.ID, invitee.Email, inv.Token)
	require.NoError(t, err)

	ok, err = invites.HasPending(ctx, "new@x.com")
	require.NoError(t, err)
	assert.False(t, ok)
}
