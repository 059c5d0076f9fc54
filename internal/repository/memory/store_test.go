package memory

import (
	"context"
	"math"
	"testing"
	"time"

	"skill-swap/internal/domain/swap"
	"skill-swap/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, repo *UserRepository, name, email string, public bool, at time.Time, offered ...string) user.User {
	t.Helper()
	u := user.User{
		ID: uuid.New(), Name: name, Email: email, Availability: user.AvailabilityFlexible,
		SkillsOffered: offered, SkillsWanted: []string{}, IsPublic: public, CreatedAt: at, UpdatedAt: at,
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestUserRepository_EmailUniqueIgnoresCase(t *testing.T) {
	users := NewStore().Users()
	seedUser(t, users, "Ann", "ann@example.com", true, time.Now())

	err := users.Create(context.Background(), user.User{ID: uuid.New(), Email: "ANN@example.com"})
	require.ErrorIs(t, err, user.ErrEmailTaken)

	ok, err := users.ExistsByEmail(context.Background(), "Ann@Example.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUserRepository_ListPublic(t *testing.T) {
	users := NewStore().Users()
	base := time.Now()
	me := seedUser(t, users, "Me", "me@example.com", true, base)
	seedUser(t, users, "Hidden", "h@example.com", false, base.Add(time.Second), "Guitar")
	older := seedUser(t, users, "Older", "o@example.com", true, base.Add(2*time.Second), "guitar")
	newer := seedUser(t, users, "Newer", "n@example.com", true, base.Add(3*time.Second), "Bass Guitar")

	got, total, err := users.ListPublic(context.Background(), user.DirectoryFilter{
		Search: "GUITAR", Page: 1, Limit: 6, ExcludeID: me.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, got, 2)
	assert.Equal(t, newer.ID, got[0].ID)
	assert.Equal(t, older.ID, got[1].ID)

	got, total, err = users.ListPublic(context.Background(), user.DirectoryFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, got, 1)
	assert.Equal(t, me.ID, got[0].ID)
}

func TestUserRepository_ListPublicExtremePaging(t *testing.T) {
	users := NewStore().Users()
	base := time.Now()
	for i, name := range []string{"A", "B", "C"} {
		seedUser(t, users, name, name+"@example.com", true, base.Add(time.Duration(i)*time.Second))
	}
	ctx := context.Background()

	got, total, err := users.ListPublic(ctx, user.DirectoryFilter{Page: 1, Limit: math.MaxInt})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, got, 3)

	for _, f := range []user.DirectoryFilter{
		{Page: 2, Limit: math.MaxInt},
		{Page: 4611686018427387905, Limit: 4},
		{Page: math.MaxInt, Limit: math.MaxInt},
	} {
		got, total, err := users.ListPublic(ctx, f)
		require.NoError(t, err, "%+v", f)
		assert.Equal(t, 3, total)
		assert.Empty(t, got, "%+v", f)
	}
}

func TestSwapRequestRepository_Lifecycle(t *testing.T) {
	store := NewStore()
	users, reqs := store.Users(), store.SwapRequests()
	a := seedUser(t, users, "A", "a@example.com", true, time.Now())
	b := seedUser(t, users, "B", "b@example.com", true, time.Now())
	ctx := context.Background()

	r := swap.Request{ID: uuid.New(), SenderID: a.ID, ReceiverID: b.ID, Status: swap.StatusPending, CreatedAt: time.Now()}
	require.NoError(t, reqs.Create(ctx, r))

	dup := r
	dup.ID = uuid.New()
	require.ErrorIs(t, reqs.Create(ctx, dup), swap.ErrDuplicatePending)

	views, err := reqs.List(ctx, swap.ListFilter{UserID: b.ID, Direction: swap.DirectionReceived})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "A", views[0].SenderName)
	assert.Equal(t, "B", views[0].ReceiverName)

	_, err = reqs.UpdateStatusIfPending(ctx, r.ID, swap.StatusAccepted, time.Now())
	require.NoError(t, err)
	_, err = reqs.UpdateStatusIfPending(ctx, r.ID, swap.StatusRejected, time.Now())
	require.ErrorIs(t, err, swap.ErrNotPending)

	require.NoError(t, reqs.Create(ctx, dup))
	require.NoError(t, reqs.Delete(ctx, r.ID))
	require.ErrorIs(t, reqs.Delete(ctx, r.ID), swap.ErrNotFound)
}

func TestSwapRequestRepository_ListToleratesMissingUsers(t *testing.T) {
	reqs := NewStore().SwapRequests()
	me := uuid.New()
	require.NoError(t, reqs.Create(context.Background(), swap.Request{
		ID: uuid.New(), SenderID: me, ReceiverID: uuid.New(), Status: swap.StatusPending, CreatedAt: time.Now(),
	}))

	views, err := reqs.List(context.Background(), swap.ListFilter{UserID: me, Direction: swap.DirectionAll})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Empty(t, views[0].ReceiverName)
	assert.Nil(t, views[0].ReceiverPhoto)
}
