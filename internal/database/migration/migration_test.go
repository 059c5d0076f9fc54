package migration

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_Embedded(t *testing.T) {
	names, err := fs.Glob(Migrations, "migrations/*.sql")
	require.NoError(t, err)
	require.Len(t, names, 2)

	b, err := fs.ReadFile(Migrations, "migrations/00002_create_swap_requests.sql")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), "WHERE status = 'pending'"))
}

func TestUp_UsesEmbeddedDir(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orig := upContext
	defer func() { upContext = orig }()

	var gotDir string
	upContext = func(_ context.Context, _ *sql.DB, d string, _ ...goose.OptionsFunc) error {
		gotDir = d
		return nil
	}

	require.NoError(t, Up(context.Background(), db))
	assert.Equal(t, "migrations", gotDir)
}

func TestUp_PropagatesError(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orig := upContext
	defer func() { upContext = orig }()
	upContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return errors.New("boom")
	}

	err = Up(context.Background(), db)
	require.EqualError(t, err, "boom")
}

func TestUp_NilDB(t *testing.T) {
	require.Error(t, Up(context.Background(), nil))
	require.Error(t, Down(context.Background(), nil))
	require.Error(t, Status(context.Background(), nil))
}
