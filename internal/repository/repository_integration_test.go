//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	odomain "ticketing/internal/domain/orders"
	tdomain "ticketing/internal/domain/tickets"
	"ticketing/internal/repository"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := testpostgres.Run(ctx,
		"postgres:16-alpine",
		testpostgres.WithDatabase("test"),
		testpostgres.WithUsername("test"),
		testpostgres.WithPassword("test"),
		testpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sqlx.Open("postgres", connStr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, repository.InitializeTicketsSchema(db))
	require.NoError(t, repository.InitializeOrdersSchema(db))

	return db
}

func TestTicketsRepo_Postgres(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewTicketsRepo(db)
	ctx := context.Background()

	ticket := tdomain.Ticket{ID: "7d9a5a3e-7b6e-4f0f-8f2e-2a1c9d4e5f60", Title: "Concert", Price: 20}
	require.NoError(t, repo.Create(ctx, ticket))

	t.Run("create is idempotent", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, ticket))

		got, err := repo.GetByID(ctx, ticket.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Version)
	})

	t.Run("save gates on version", func(t *testing.T) {
		updated := ticket
		updated.Price = 25

		newVersion, err := repo.Save(ctx, updated)
		require.NoError(t, err)
		assert.Equal(t, 1, newVersion)

		// the stale writer loses
		_, err = repo.Save(ctx, updated)
		assert.ErrorIs(t, err, repository.ErrVersionConflict)
	})

	t.Run("prior version lookup", func(t *testing.T) {
		_, err := repo.GetByPriorVersion(ctx, ticket.ID, 2)
		require.NoError(t, err)

		_, err = repo.GetByPriorVersion(ctx, ticket.ID, 5)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestOrdersRepo_Postgres(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewOrdersRepo(db)
	ctx := context.Background()
	expiresAt := time.Now().Add(15 * time.Minute).UTC()

	const ticketID = "7d9a5a3e-7b6e-4f0f-8f2e-2a1c9d4e5f60"

	first := odomain.NewOrder("0b4702a5-3a4f-4b96-b0e4-6334c1af9f01", "u1", ticketID, 20, expiresAt)
	require.NoError(t, repo.Create(ctx, first))

	t.Run("partial unique index enforces the reservation", func(t *testing.T) {
		second := odomain.NewOrder("1c5813b6-4b50-4ca7-8c1f-7445d2b0a012", "u2", ticketID, 20, expiresAt)
		err := repo.Create(ctx, second)
		assert.ErrorIs(t, err, odomain.ErrTicketReserved)
	})

	t.Run("cancellation releases the ticket", func(t *testing.T) {
		order := first
		require.True(t, order.Cancel())

		newVersion, err := repo.Save(ctx, order)
		require.NoError(t, err)
		assert.Equal(t, 1, newVersion)

		reserved, err := repo.TicketReserved(ctx, ticketID)
		require.NoError(t, err)
		assert.False(t, reserved)

		second := odomain.NewOrder("1c5813b6-4b50-4ca7-8c1f-7445d2b0a012", "u2", ticketID, 20, expiresAt)
		assert.NoError(t, repo.Create(ctx, second))
	})

	t.Run("stale save is rejected", func(t *testing.T) {
		stale := first
		stale.Status = odomain.StatusComplete
		stale.Version = 0

		_, err := repo.Save(ctx, stale)
		assert.ErrorIs(t, err, repository.ErrVersionConflict)
	})
}
