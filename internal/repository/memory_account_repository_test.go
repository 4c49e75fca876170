package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/advisory-portal/internal/domain"
)

func TestMemoryAccountRepository_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()

	account := &domain.Account{Email: " Alice@Example.com ", PasswordHash: "hash", Role: domain.RoleClient}
	require.NoError(t, repo.Create(ctx, account))
	assert.NotEmpty(t, account.ID)
	assert.Equal(t, "alice@example.com", account.Email)
	assert.False(t, account.CreatedAt.IsZero())

	byEmail, err := repo.GetByEmail(ctx, "ALICE@example.COM")
	require.NoError(t, err)
	assert.Equal(t, account.ID, byEmail.ID)

	byID, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, *account, *byID)

	err = repo.Create(ctx, &domain.Account{Email: "alice@example.com", PasswordHash: "other"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestMemoryAccountRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()
	account := &domain.Account{Email: "bob@example.com", PasswordHash: "hash", Role: domain.RoleClient}
	require.NoError(t, repo.Create(ctx, account))

	got, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	got.Role = domain.RoleAdmin

	again, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleClient, again.Role)
}

func TestMemoryAccountRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()
	account := &domain.Account{Email: "carol@example.com", PasswordHash: "hash", Role: domain.RoleClient}
	require.NoError(t, repo.Create(ctx, account))

	require.NoError(t, repo.Delete(ctx, account.ID))
	assert.ErrorIs(t, repo.Delete(ctx, account.ID), ErrAccountNotFound)

	_, err := repo.GetByEmail(ctx, "carol@example.com")
	assert.ErrorIs(t, err, ErrAccountNotFound)
	require.NoError(t, repo.Create(ctx, &domain.Account{Email: "carol@example.com", PasswordHash: "hash"}))
}

func TestMemoryAccountRepository_ConcurrentDuplicateCreate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- repo.Create(ctx, &domain.Account{Email: "race@example.com", PasswordHash: fmt.Sprint(i)})
		}(i)
	}
	wg.Wait()
	close(errs)

	created := 0
	for err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, ErrDuplicateEmail)
	}
	assert.Equal(t, 1, created)
}
