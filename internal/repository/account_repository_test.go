package repository

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/advisory-portal/internal/domain"
)

// Runs against a real database when TEST_POSTGRES_DSN is set; the accounts
// table must already exist.
func TestAccountRepository_Postgres(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo := NewAccountRepository(pool)
	email := "it-" + uuid.NewString() + "@Example.com"

	account := &domain.Account{Email: email, PasswordHash: "hash", Role: domain.RoleClient}
	require.NoError(t, repo.Create(ctx, account))
	t.Cleanup(func() { _ = repo.Delete(context.Background(), account.ID) })

	assert.Equal(t, domain.NormalizeEmail(email), account.Email)
	assert.False(t, account.CreatedAt.IsZero())

	err = repo.Create(ctx, &domain.Account{Email: email, PasswordHash: "hash", Role: domain.RoleClient})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	got, err := repo.GetByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)
	assert.Equal(t, domain.RoleClient, got.Role)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrAccountNotFound)
}
