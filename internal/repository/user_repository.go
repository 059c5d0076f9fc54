package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"skill-swap/internal/database"
	"skill-swap/internal/domain/user"

	"github.com/google/uuid"
)

const userColumns = `id, name, email, password_hash, location, skills_offered, skills_wanted, availability, profile_photo, is_public, created_at, updated_at`

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u user.User) error {
	offered, err := encodeSkills(u.SkillsOffered)
	if err != nil {
		return err
	}
	wanted, err := encodeSkills(u.SkillsWanted)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Location, offered, wanted,
		string(u.Availability), u.ProfilePhoto, u.IsPublic, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return user.ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	return scanUser(row)
}

func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($1))`, email)
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

func (r *PostgresUserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, upd user.ProfileUpdate) (user.User, error) {
	offered, err := encodeSkills(upd.SkillsOffered)
	if err != nil {
		return user.User{}, err
	}
	wanted, err := encodeSkills(upd.SkillsWanted)
	if err != nil {
		return user.User{}, err
	}

	row := r.db.QueryRow(ctx,
		`UPDATE users
		 SET name = $2, location = $3, availability = $4, skills_offered = $5, skills_wanted = $6,
		     is_public = $7, profile_photo = COALESCE($8, profile_photo), updated_at = $9
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, upd.Name, upd.Location, string(upd.Availability), offered, wanted,
		upd.IsPublic, upd.ProfilePhoto, time.Now().UTC(),
	)
	return scanUser(row)
}

func (r *PostgresUserRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	n, err := r.db.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		id, hash, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) ListPublic(ctx context.Context, f user.DirectoryFilter) ([]user.User, int, error) {
	where, args := directoryWhere(f)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	offset, ok := f.Offset()
	if !ok || offset >= total {
		return []user.User{}, total, nil
	}

	n := len(args)
	args = append(args, f.Limit, offset)
	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+where+
			fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, n+1, n+2),
		args...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	capacity := total - offset
	if f.Limit > 0 {
		capacity = min(f.Limit, capacity)
	}
	out := make([]user.User, 0, capacity)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return out, total, nil
}

func directoryWhere(f user.DirectoryFilter) (string, []any) {
	conds := []string{"is_public = TRUE"}
	args := make([]any, 0, 3)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.ExcludeID != uuid.Nil {
		conds = append(conds, "id <> "+next(f.ExcludeID))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := next(containsPattern(s))
		conds = append(conds, `(name ILIKE `+p+
			` OR EXISTS (SELECT 1 FROM jsonb_array_elements_text(skills_offered) AS so(skill) WHERE so.skill ILIKE `+p+`)`+
			` OR EXISTS (SELECT 1 FROM jsonb_array_elements_text(skills_wanted) AS sw(skill) WHERE sw.skill ILIKE `+p+`))`)
	}
	if a := strings.TrimSpace(f.Availability); a != "" && !strings.EqualFold(a, "all") {
		conds = append(conds, "availability ILIKE "+next(containsPattern(a)))
	}

	return strings.Join(conds, " AND "), args
}

func scanUser(row database.Row) (user.User, error) {
	var (
		u       user.User
		offered []byte
		wanted  []byte
		avail   string
		photo   sql.NullString
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Location, &offered, &wanted,
		&avail, &photo, &u.IsPublic, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, fmt.Errorf("scan user: %w", err)
	}

	if u.SkillsOffered, err = decodeSkills(offered); err != nil {
		return user.User{}, err
	}
	if u.SkillsWanted, err = decodeSkills(wanted); err != nil {
		return user.User{}, err
	}
	u.Availability = user.Availability(avail)
	u.ProfilePhoto = nullStringPtr(photo)
	return u, nil
}

func encodeSkills(skills []string) (string, error) {
	if skills == nil {
		skills = []string{}
	}
	b, err := json.Marshal(skills)
	if err != nil {
		return "", fmt.Errorf("encode skills: %w", err)
	}
	return string(b), nil
}

func decodeSkills(b []byte) ([]string, error) {
	out := []string{}
	if len(b) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode skills: %w", err)
	}
	return out, nil
}
