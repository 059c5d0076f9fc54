package seeder

import (
	"context"
	"errors"
	"testing"

	dbpostgres "skill-swap/internal/database/postgres"
	"skill-swap/internal/domain/swap"
	"skill-swap/internal/domain/user"
	"skill-swap/internal/pkg/logger"
	"skill-swap/internal/repository/memory"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func memoryStores() Stores {
	st := memory.NewStore()
	return Stores{Users: st.Users(), SwapRequests: st.SwapRequests()}
}

func TestRunner_SeedsOnceAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	stores := memoryStores()
	r := Runner{Seeders: Defaults(bcrypt.MinCost), Log: logger.NewNop()}

	require.NoError(t, r.Run(ctx, stores))
	require.NoError(t, r.Run(ctx, stores))

	bob, err := stores.Users.GetByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(bob.PasswordHash), []byte(DemoPassword)))

	received, err := stores.SwapRequests.List(ctx, swap.ListFilter{UserID: bob.ID, Direction: swap.DirectionReceived})
	require.NoError(t, err)
	assert.Len(t, received, len(demoRequests))
	for _, v := range received {
		assert.Equal(t, swap.StatusPending, v.Status)
		assert.NotEmpty(t, v.SenderName)
	}

	_, total, err := stores.Users.ListPublic(ctx, user.DirectoryFilter{Page: 1, Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, len(demoUsers), total)
}

type failingSeeder struct{}

func (failingSeeder) Name() string                      { return "broken" }
func (failingSeeder) Run(context.Context, Stores) error { return errors.New("nope") }

func TestRunner_WrapsSeederErrors(t *testing.T) {
	stores := memoryStores()
	err := Runner{Seeders: []Seeder{nil, failingSeeder{}}}.Run(context.Background(), stores)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed broken")

	assert.Error(t, Runner{}.Run(context.Background(), Stores{}))
}

func TestSwapRequestsSeeder_NeedsUsers(t *testing.T) {
	stores := memoryStores()
	err := SwapRequestsSeeder{}.Run(context.Background(), stores)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alice@example.com")
}

func TestEnsureTableColumns(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery(`information_schema.columns`).
		WithArgs("swap_requests").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("id").AddRow("status"))
	mock.ExpectQuery(`information_schema.columns`).
		WithArgs("swap_requests").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("id"))

	sqldb := dbpostgres.NewSQLDB(db)
	require.NoError(t, EnsureTableColumns(context.Background(), sqldb, "swap_requests", "id", "status"))

	err = EnsureTableColumns(context.Background(), sqldb, "swap_requests", "id", "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "swap_requests.status")
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Error(t, EnsureTableColumns(context.Background(), nil, "users"))
}
