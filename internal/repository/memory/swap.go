package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"skill-swap/internal/domain/swap"

	"github.com/google/uuid"
)

type SwapRequestRepository struct {
	s *Store
}

func (r *SwapRequestRepository) Create(_ context.Context, req swap.Request) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if req.Status == swap.StatusPending && r.pendingLocked(req.SenderID, req.ReceiverID) {
		return swap.ErrDuplicatePending
	}
	r.s.requests[req.ID] = req
	r.s.requestOrder = append(r.s.requestOrder, req.ID)
	return nil
}

func (r *SwapRequestRepository) GetByID(_ context.Context, id uuid.UUID) (swap.Request, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	req, ok := r.s.requests[id]
	if !ok {
		return swap.Request{}, swap.ErrNotFound
	}
	return req, nil
}

func (r *SwapRequestRepository) ExistsPending(_ context.Context, senderID, receiverID uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.pendingLocked(senderID, receiverID), nil
}

func (r *SwapRequestRepository) pendingLocked(senderID, receiverID uuid.UUID) bool {
	for _, req := range r.s.requests {
		if req.SenderID == senderID && req.ReceiverID == receiverID && req.Status == swap.StatusPending {
			return true
		}
	}
	return false
}

func (r *SwapRequestRepository) List(_ context.Context, f swap.ListFilter) ([]swap.View, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]swap.View, 0)
	for _, id := range r.s.requestOrder {
		req, ok := r.s.requests[id]
		if !ok {
			continue
		}
		switch f.Direction {
		case swap.DirectionSent:
			if req.SenderID != f.UserID {
				continue
			}
		case swap.DirectionReceived:
			if req.ReceiverID != f.UserID {
				continue
			}
		default:
			if !req.IsParticipant(f.UserID) {
				continue
			}
		}
		if f.Status != "" && req.Status != f.Status {
			continue
		}

		v := swap.View{Request: req}
		if u, ok := r.s.users[req.SenderID]; ok {
			v.SenderName = u.Name
			v.SenderPhoto = clonePtr(u.ProfilePhoto)
		}
		if u, ok := r.s.users[req.ReceiverID]; ok {
			v.ReceiverName = u.Name
			v.ReceiverPhoto = clonePtr(u.ProfilePhoto)
		}
		out = append(out, v)
	}
	slices.SortStableFunc(out, func(a, b swap.View) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})
	return out, nil
}

func (r *SwapRequestRepository) UpdateStatusIfPending(_ context.Context, id uuid.UUID, status swap.Status, at time.Time) (swap.Request, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	req, ok := r.s.requests[id]
	if !ok {
		return swap.Request{}, swap.ErrNotFound
	}
	if req.Status != swap.StatusPending {
		return swap.Request{}, swap.ErrNotPending
	}
	req.Status = status
	req.UpdatedAt = at
	r.s.requests[id] = req
	return req, nil
}

func (r *SwapRequestRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.requests[id]; !ok {
		return swap.ErrNotFound
	}
	delete(r.s.requests, id)
	r.s.requestOrder = slices.DeleteFunc(r.s.requestOrder, func(v uuid.UUID) bool { return v == id })
	return nil
}
