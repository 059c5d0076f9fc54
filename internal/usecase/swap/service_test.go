package swap

import (
	"context"
	"sync"
	"testing"
	"time"

	"skill-swap/internal/domain/swap"
	"skill-swap/internal/domain/user"
	"skill-swap/internal/repository/memory"
	"skill-swap/internal/usecase/ucerr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc     *Service
	a, b, c user.User
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	users := store.Users()
	mk := func(name string) user.User {
		u := user.User{ID: uuid.New(), Name: name, Email: name + "@example.com", IsPublic: true, CreatedAt: time.Now()}
		require.NoError(t, users.Create(context.Background(), u))
		return u
	}
	return fixture{
		svc: NewService(store.SwapRequests(), users),
		a:   mk("a"),
		b:   mk("b"),
		c:   mk("c"),
	}
}

func (f fixture) create(t *testing.T) swap.Request {
	t.Helper()
	req, err := f.svc.Create(context.Background(), f.a.ID, CreateInput{
		ReceiverID: f.b.ID.String(), OfferedSkill: "Guitar", WantedSkill: "Piano",
	})
	require.NoError(t, err)
	return req
}

func TestService_Create(t *testing.T) {
	f := newFixture(t)
	req := f.create(t)

	assert.Equal(t, swap.StatusPending, req.Status)
	assert.Equal(t, "", req.Message)

	_, err := f.svc.Create(context.Background(), f.a.ID, CreateInput{
		ReceiverID: f.b.ID.String(), OfferedSkill: "Guitar", WantedSkill: "Piano",
	})
	require.ErrorIs(t, err, ErrDuplicatePending)

	_, err = f.svc.Create(context.Background(), f.b.ID, CreateInput{
		ReceiverID: f.a.ID.String(), OfferedSkill: "Piano", WantedSkill: "Guitar",
	})
	require.NoError(t, err, "reverse direction is a different pair")
}

func TestService_CreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.a.ID, CreateInput{OfferedSkill: "x", WantedSkill: "y"})
	fe, ok := ucerr.AsFieldError(err)
	require.True(t, ok)
	assert.Equal(t, "receiverId", fe.Field)

	_, err = f.svc.Create(ctx, f.a.ID, CreateInput{ReceiverID: "nope", OfferedSkill: "x", WantedSkill: "y"})
	fe, ok = ucerr.AsFieldError(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid receiver ID", fe.Message)

	_, err = f.svc.Create(ctx, f.a.ID, CreateInput{ReceiverID: f.b.ID.String(), OfferedSkill: "x"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.Create(ctx, f.a.ID, CreateInput{ReceiverID: uuid.NewString(), OfferedSkill: "x", WantedSkill: "y"})
	require.ErrorIs(t, err, ErrReceiverNotFound)
}

func TestService_ListByDirectionAndStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.create(t)

	sent, err := f.svc.List(ctx, f.a.ID, ListInput{Type: "sent"})
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, swap.DirectionSent, sent[0].DirectionFor(f.a.ID))
	assert.Equal(t, "a", sent[0].SenderName)
	assert.Equal(t, "b", sent[0].ReceiverName)

	received, err := f.svc.List(ctx, f.a.ID, ListInput{Type: "received"})
	require.NoError(t, err)
	assert.Empty(t, received)

	all, err := f.svc.List(ctx, f.b.ID, ListInput{Type: "all", Status: "pending"})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, req.ID, all[0].ID)
	assert.Equal(t, swap.DirectionReceived, all[0].DirectionFor(f.b.ID))

	accepted, err := f.svc.List(ctx, f.b.ID, ListInput{Status: "accepted"})
	require.NoError(t, err)
	assert.Empty(t, accepted)

	third, err := f.svc.List(ctx, f.c.ID, ListInput{})
	require.NoError(t, err)
	assert.Empty(t, third)
}

func TestService_ListRejectsUnknownFilters(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.List(context.Background(), f.a.ID, ListInput{Type: "outgoing"})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.svc.List(context.Background(), f.a.ID, ListInput{Status: "done"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_TransitionOnlyByReceiverAndOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.create(t)

	_, err := f.svc.Transition(ctx, f.a.ID, TransitionInput{ID: req.ID.String(), Status: "accepted"})
	require.ErrorIs(t, err, ErrForbidden)

	got, err := f.svc.Transition(ctx, f.b.ID, TransitionInput{ID: req.ID.String(), Status: "accepted"})
	require.NoError(t, err)
	assert.Equal(t, swap.StatusAccepted, got.Status)

	_, err = f.svc.Transition(ctx, f.b.ID, TransitionInput{ID: req.ID.String(), Status: "rejected"})
	require.ErrorIs(t, err, ErrAlreadyResponded)

	_, err = f.svc.Transition(ctx, f.c.ID, TransitionInput{ID: req.ID.String(), Status: "rejected"})
	require.ErrorIs(t, err, ErrForbidden, "non-receiver is refused whatever the status")

	_, err = f.svc.Create(ctx, f.a.ID, CreateInput{ReceiverID: f.b.ID.String(), OfferedSkill: "Guitar", WantedSkill: "Piano"})
	require.NoError(t, err, "a new pending request is allowed once the old one is resolved")
}

func TestService_TransitionValidationOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Transition(ctx, f.b.ID, TransitionInput{ID: "bad", Status: "accepted"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.Transition(ctx, f.b.ID, TransitionInput{ID: uuid.NewString(), Status: "pending"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.Transition(ctx, f.b.ID, TransitionInput{ID: uuid.NewString(), Status: "accepted"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestService_ConcurrentAcceptsOnlyOneWins(t *testing.T) {
	f := newFixture(t)
	req := f.create(t)

	const n = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		okCount  int
		conflict int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Transition(context.Background(), f.b.ID, TransitionInput{ID: req.ID.String(), Status: "accepted"})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				okCount++
			} else if assert.ErrorIs(t, err, ErrAlreadyResponded) {
				conflict++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, okCount)
	assert.Equal(t, n-1, conflict)
}

func TestService_DeleteAnyStatusByParticipants(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pending := f.create(t)
	require.ErrorIs(t, f.svc.Delete(ctx, f.c.ID, pending.ID.String()), ErrForbidden)
	require.NoError(t, f.svc.Delete(ctx, f.a.ID, pending.ID.String()))
	require.ErrorIs(t, f.svc.Delete(ctx, f.a.ID, pending.ID.String()), ErrNotFound)

	accepted := f.create(t)
	_, err := f.svc.Transition(ctx, f.b.ID, TransitionInput{ID: accepted.ID.String(), Status: "accepted"})
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, f.b.ID, accepted.ID.String()))

	rejected := f.create(t)
	_, err = f.svc.Transition(ctx, f.b.ID, TransitionInput{ID: rejected.ID.String(), Status: "rejected"})
	require.NoError(t, err)
	require.ErrorIs(t, f.svc.Delete(ctx, f.c.ID, rejected.ID.String()), ErrForbidden)
	require.NoError(t, f.svc.Delete(ctx, f.a.ID, rejected.ID.String()))
	require.ErrorIs(t, f.svc.Delete(ctx, f.b.ID, rejected.ID.String()), ErrNotFound)

	require.ErrorIs(t, f.svc.Delete(ctx, f.a.ID, "not-a-uuid"), ErrInvalidInput)
}
