package swap

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"skill-swap/internal/domain/swap"
	"skill-swap/internal/domain/user"
	"skill-swap/internal/usecase/ucerr"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = ucerr.ErrInvalidInput
	ErrInternal     = ucerr.ErrInternal

	ErrNotFound         = errors.New("swap request not found")
	ErrReceiverNotFound = errors.New("receiver not found")
	ErrForbidden        = errors.New("forbidden")
	ErrDuplicatePending = errors.New("pending request already exists")
	ErrAlreadyResponded = errors.New("request already responded to")
)

type CreateInput struct {
	ReceiverID   string
	OfferedSkill string
	WantedSkill  string
	Message      string
}

// ListInput filters by the caller's role and by status. Empty values mean
// "all".
type ListInput struct {
	Type   string
	Status string
}

type TransitionInput struct {
	ID     string
	Status string
}

type Service struct {
	requests swap.Repository
	users    user.Repository
	now      func() time.Time
}

func NewService(requests swap.Repository, users user.Repository) *Service {
	return &Service{requests: requests, users: users, now: time.Now}
}

func (s *Service) Create(ctx context.Context, senderID uuid.UUID, in CreateInput) (swap.Request, error) {
	receiverRaw := strings.TrimSpace(in.ReceiverID)
	offered := strings.TrimSpace(in.OfferedSkill)
	wanted := strings.TrimSpace(in.WantedSkill)

	switch {
	case receiverRaw == "":
		return swap.Request{}, ucerr.Required("receiverId")
	case offered == "":
		return swap.Request{}, ucerr.Required("offeredSkill")
	case wanted == "":
		return swap.Request{}, ucerr.Required("wantedSkill")
	}
	receiverID, err := uuid.Parse(receiverRaw)
	if err != nil {
		return swap.Request{}, ucerr.NewFieldError("receiverId", "uuid", "Invalid receiver ID")
	}

	if _, err := s.users.GetByID(ctx, receiverID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return swap.Request{}, ErrReceiverNotFound
		}
		return swap.Request{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	exists, err := s.requests.ExistsPending(ctx, senderID, receiverID)
	if err != nil {
		return swap.Request{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	if exists {
		return swap.Request{}, ErrDuplicatePending
	}

	now := s.now().UTC()
	req := swap.Request{
		ID:           uuid.New(),
		SenderID:     senderID,
		ReceiverID:   receiverID,
		OfferedSkill: offered,
		WantedSkill:  wanted,
		Message:      in.Message,
		Status:       swap.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		if errors.Is(err, swap.ErrDuplicatePending) {
			return swap.Request{}, ErrDuplicatePending
		}
		return swap.Request{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return req, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, in ListInput) ([]swap.View, error) {
	dir := swap.DirectionAll
	if t := strings.TrimSpace(in.Type); t != "" {
		d, ok := swap.ParseDirection(t)
		if !ok {
			return nil, ucerr.NewFieldError("type", "oneof", "Invalid type. Must be sent, received or all")
		}
		dir = d
	}

	var status swap.Status
	if st := strings.TrimSpace(in.Status); st != "" && st != "all" {
		parsed, ok := swap.ParseStatus(st)
		if !ok {
			return nil, ucerr.NewFieldError("status", "oneof", "Invalid status. Must be pending, accepted, rejected or all")
		}
		status = parsed
	}

	views, err := s.requests.List(ctx, swap.ListFilter{UserID: userID, Direction: dir, Status: status})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return views, nil
}

// Transition lets the receiver accept or reject a pending request. Checks
// run in order: input, existence, receiver, still pending.
func (s *Service) Transition(ctx context.Context, userID uuid.UUID, in TransitionInput) (swap.Request, error) {
	id, err := parseRequestID(in.ID)
	if err != nil {
		return swap.Request{}, err
	}
	next, ok := swap.ParseStatus(strings.TrimSpace(in.Status))
	if !ok || next == swap.StatusPending {
		return swap.Request{}, ucerr.NewFieldError("status", "oneof", `Invalid status. Must be "accepted" or "rejected"`)
	}

	req, err := s.get(ctx, id)
	if err != nil {
		return swap.Request{}, err
	}
	if req.ReceiverID != userID {
		return swap.Request{}, ErrForbidden
	}
	if !req.Status.CanTransitionTo(next) {
		return swap.Request{}, ErrAlreadyResponded
	}

	updated, err := s.requests.UpdateStatusIfPending(ctx, id, next, s.now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, swap.ErrNotPending):
			return swap.Request{}, ErrAlreadyResponded
		case errors.Is(err, swap.ErrNotFound):
			return swap.Request{}, ErrNotFound
		default:
			return swap.Request{}, fmt.Errorf("%w: %w", ErrInternal, err)
		}
	}
	return updated, nil
}

// Delete removes a request in any status. Only its sender or receiver may
// delete it.
func (s *Service) Delete(ctx context.Context, userID uuid.UUID, rawID string) error {
	id, err := parseRequestID(rawID)
	if err != nil {
		return err
	}

	req, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if !req.IsParticipant(userID) {
		return ErrForbidden
	}

	if err := s.requests.Delete(ctx, id); err != nil {
		if errors.Is(err, swap.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return nil
}

func (s *Service) get(ctx context.Context, id uuid.UUID) (swap.Request, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, swap.ErrNotFound) {
			return swap.Request{}, ErrNotFound
		}
		return swap.Request{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return req, nil
}

func parseRequestID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, ucerr.NewFieldError("id", "uuid", "Invalid request ID")
	}
	return id, nil
}
