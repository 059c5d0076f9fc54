package seeder

import (
	"context"
	"fmt"

	"skill-swap/internal/database"
)

// CheckSchema fails unless the migrated tables carry every column the
// seeders write.
func CheckSchema(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "users",
		"id", "name", "email", "password_hash", "location", "skills_offered",
		"skills_wanted", "availability", "profile_photo", "is_public", "created_at", "updated_at",
	); err != nil {
		return err
	}
	return EnsureTableColumns(ctx, db, "swap_requests",
		"id", "sender_id", "receiver_id", "offered_skill", "wanted_skill", "message", "status", "created_at", "updated_at",
	)
}

func EnsureTableColumns(ctx context.Context, db database.DB, table string, columns ...string) error {
	if db == nil {
		return database.ErrNilDB
	}
	if table == "" {
		return fmt.Errorf("empty table")
	}

	rows, err := db.Query(
		ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_schema = 'public' AND table_name = $1`,
		table,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	existing := map[string]struct{}{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return err
		}
		existing[c] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, col := range columns {
		if _, ok := existing[col]; !ok {
			return fmt.Errorf("schema mismatch: missing column %s.%s", table, col)
		}
	}
	return nil
}
