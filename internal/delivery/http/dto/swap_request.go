package dto

import (
	"time"

	"skill-swap/internal/domain/swap"

	"github.com/google/uuid"
)

type SwapRequestResponse struct {
	ID            uuid.UUID `json:"id"`
	SenderID      uuid.UUID `json:"senderId"`
	ReceiverID    uuid.UUID `json:"receiverId"`
	SenderName    string    `json:"senderName"`
	ReceiverName  string    `json:"receiverName"`
	SenderPhoto   *string   `json:"senderPhoto,omitempty"`
	ReceiverPhoto *string   `json:"receiverPhoto,omitempty"`
	OfferedSkill  string    `json:"offeredSkill"`
	WantedSkill   string    `json:"wantedSkill"`
	Message       string    `json:"message"`
	Status        string    `json:"status"`
	Type          string    `json:"type"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// NewSwapRequestResponse renders v as seen by viewer.
func NewSwapRequestResponse(v swap.View, viewer uuid.UUID) SwapRequestResponse {
	return SwapRequestResponse{
		ID:            v.ID,
		SenderID:      v.SenderID,
		ReceiverID:    v.ReceiverID,
		SenderName:    v.SenderName,
		ReceiverName:  v.ReceiverName,
		SenderPhoto:   v.SenderPhoto,
		ReceiverPhoto: v.ReceiverPhoto,
		OfferedSkill:  v.OfferedSkill,
		WantedSkill:   v.WantedSkill,
		Message:       v.Message,
		Status:        string(v.Status),
		Type:          string(v.DirectionFor(viewer)),
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}

type SwapRequestList struct {
	Requests []SwapRequestResponse `json:"requests"`
}

func NewSwapRequestList(views []swap.View, viewer uuid.UUID) SwapRequestList {
	out := make([]SwapRequestResponse, 0, len(views))
	for _, v := range views {
		out = append(out, NewSwapRequestResponse(v, viewer))
	}
	return SwapRequestList{Requests: out}
}

type CreatedSwapRequest struct {
	ID uuid.UUID `json:"id"`
}

type TransitionedSwapRequest struct {
	Request struct {
		ID        uuid.UUID `json:"id"`
		Status    string    `json:"status"`
		UpdatedAt time.Time `json:"updatedAt"`
	} `json:"request"`
}

func NewTransitionedSwapRequest(r swap.Request) TransitionedSwapRequest {
	var out TransitionedSwapRequest
	out.Request.ID = r.ID
	out.Request.Status = string(r.Status)
	out.Request.UpdatedAt = r.UpdatedAt
	return out
}
