package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"skill-swap/internal/database"
	"skill-swap/internal/domain/swap"

	"github.com/google/uuid"
)

const swapColumns = `id, sender_id, receiver_id, offered_skill, wanted_skill, message, status, created_at, updated_at`

type PostgresSwapRequestRepository struct {
	db database.DB
}

func NewPostgresSwapRequestRepository(db database.DB) *PostgresSwapRequestRepository {
	return &PostgresSwapRequestRepository{db: db}
}

func (r *PostgresSwapRequestRepository) Create(ctx context.Context, req swap.Request) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO swap_requests (`+swapColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		req.ID, req.SenderID, req.ReceiverID, req.OfferedSkill, req.WantedSkill,
		req.Message, string(req.Status), req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return swap.ErrDuplicatePending
		}
		return fmt.Errorf("create swap request: %w", err)
	}
	return nil
}

func (r *PostgresSwapRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (swap.Request, error) {
	row := r.db.QueryRow(ctx, `SELECT `+swapColumns+` FROM swap_requests WHERE id = $1`, id)
	return scanSwapRequest(row)
}

func (r *PostgresSwapRequestRepository) ExistsPending(ctx context.Context, senderID, receiverID uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM swap_requests WHERE sender_id = $1 AND receiver_id = $2 AND status = 'pending')`,
		senderID, receiverID,
	)
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("check pending swap request: %w", err)
	}
	return exists, nil
}

func (r *PostgresSwapRequestRepository) List(ctx context.Context, f swap.ListFilter) ([]swap.View, error) {
	var where string
	switch f.Direction {
	case swap.DirectionSent:
		where = `sr.sender_id = $1`
	case swap.DirectionReceived:
		where = `sr.receiver_id = $1`
	default:
		where = `(sr.sender_id = $1 OR sr.receiver_id = $1)`
	}
	args := []any{f.UserID}
	if f.Status != "" {
		where += ` AND sr.status = $2`
		args = append(args, string(f.Status))
	}

	rows, err := r.db.Query(ctx,
		`SELECT sr.id, sr.sender_id, sr.receiver_id, sr.offered_skill, sr.wanted_skill, sr.message, sr.status,
		        sr.created_at, sr.updated_at,
		        COALESCE(s.name, ''), s.profile_photo, COALESCE(rc.name, ''), rc.profile_photo
		 FROM swap_requests sr
		 LEFT JOIN users s ON s.id = sr.sender_id
		 LEFT JOIN users rc ON rc.id = sr.receiver_id
		 WHERE `+where+`
		 ORDER BY sr.created_at DESC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list swap requests: %w", err)
	}
	defer rows.Close()

	out := make([]swap.View, 0)
	for rows.Next() {
		var (
			v           swap.View
			status      string
			senderPhoto sql.NullString
			recvPhoto   sql.NullString
		)
		if err := rows.Scan(
			&v.ID, &v.SenderID, &v.ReceiverID, &v.OfferedSkill, &v.WantedSkill, &v.Message, &status,
			&v.CreatedAt, &v.UpdatedAt,
			&v.SenderName, &senderPhoto, &v.ReceiverName, &recvPhoto,
		); err != nil {
			return nil, fmt.Errorf("scan swap request: %w", err)
		}
		v.Status = swap.Status(status)
		v.SenderPhoto = nullStringPtr(senderPhoto)
		v.ReceiverPhoto = nullStringPtr(recvPhoto)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list swap requests: %w", err)
	}
	return out, nil
}

func (r *PostgresSwapRequestRepository) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status swap.Status, at time.Time) (swap.Request, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE swap_requests
		 SET status = $2, updated_at = $3
		 WHERE id = $1 AND status = 'pending'
		 RETURNING `+swapColumns,
		id, string(status), at,
	)
	req, err := scanSwapRequest(row)
	if err == nil {
		return req, nil
	}
	if !errors.Is(err, swap.ErrNotFound) {
		return swap.Request{}, err
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM swap_requests WHERE id = $1)`, id).Scan(&exists); err != nil {
		return swap.Request{}, fmt.Errorf("check swap request: %w", err)
	}
	if exists {
		return swap.Request{}, swap.ErrNotPending
	}
	return swap.Request{}, swap.ErrNotFound
}

func (r *PostgresSwapRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM swap_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete swap request: %w", err)
	}
	if n == 0 {
		return swap.ErrNotFound
	}
	return nil
}

func scanSwapRequest(row database.Row) (swap.Request, error) {
	var (
		req    swap.Request
		status string
	)
	err := row.Scan(
		&req.ID, &req.SenderID, &req.ReceiverID, &req.OfferedSkill, &req.WantedSkill,
		&req.Message, &status, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return swap.Request{}, swap.ErrNotFound
		}
		return swap.Request{}, fmt.Errorf("scan swap request: %w", err)
	}
	req.Status = swap.Status(status)
	return req, nil
}

func nullStringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
