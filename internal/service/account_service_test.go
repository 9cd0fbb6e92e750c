package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/merial523/graduate-git/internal/config"
	"github.com/merial523/graduate-git/internal/model"
	"github.com/merial523/graduate-git/internal/notify"
	"github.com/merial523/graduate-git/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func (f *fixture) accountService(n notify.Notifier) *AccountService {
	svc := NewAccountService(f.db, f.users, f.constants, n, config.ProvisioningConfig{
		CompanyCode: "exa",
		Address:     "gmail.com",
	})
	svc.HashCost = bcrypt.MinCost
	return svc
}

func TestGeneratePassword(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		p, err := GeneratePassword()
		require.NoError(t, err)
		assert.Len(t, p, PasswordLength)
		for _, r := range p {
			assert.True(t, strings.ContainsRune(passwordAlphabet, r), "unexpected rune %q", r)
		}
		seen[p] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestProvisionCreatesAccounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec := &notify.Recorder{}
	svc := f.accountService(rec)

	res, err := svc.Provision(ctx, 10, 3, model.Staff)
	require.NoError(t, err)
	require.Len(t, res.Accounts, 3)
	assert.Empty(t, res.NotifyFailures)

	sent := rec.Sent()
	require.Len(t, sent, 3)
	for i, a := range res.Accounts {
		n := 10 + i
		assert.Equal(t, fmt.Sprintf("user%d", n), a.Username)
		assert.Equal(t, fmt.Sprintf("exa%d@gmail.com", n), a.Email)
		assert.Equal(t, a.Email, sent[i].To)
		assert.Contains(t, sent[i].Body, a.Password)

		u, err := f.users.FindByID(ctx, a.UserID)
		require.NoError(t, err)
		assert.Equal(t, model.Staff, u.Rank)
		assert.True(t, u.IsActive)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(a.Password)))
	}
}

func TestProvisionCollisionCreatesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec := &notify.Recorder{}
	svc := f.accountService(rec)
	f.user(t, "user7", model.Staff)

	dups, err := svc.CheckDuplicates(ctx, 5, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"user7"}, dups)

	_, err = svc.Provision(ctx, 5, 5, model.Staff)
	var ce *CollisionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, []string{"user7"}, ce.Usernames)

	_, total, err := f.users.List(ctx, repository.UserFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Empty(t, rec.Sent())
}

func TestProvisionEmailCollision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.accountService(&notify.Recorder{})
	u := &model.User{Username: "someone", Email: "exa2@gmail.com", Password: "x", IsActive: true}
	require.NoError(t, f.users.Create(ctx, u))

	dups, err := svc.CheckDuplicates(ctx, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"user2"}, dups)

	dups, err = svc.CheckDuplicates(ctx, 3, 3)
	require.NoError(t, err)
	assert.Empty(t, dups)
}

func TestProvisionNotifyFailureKeepsAccounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec := &notify.Recorder{FailFor: map[string]bool{"exa2@gmail.com": true}}
	svc := f.accountService(rec)

	res, err := svc.Provision(ctx, 1, 3, model.Moderator)
	require.NoError(t, err)
	assert.Len(t, res.Accounts, 3)
	assert.Equal(t, []string{"user2"}, res.NotifyFailures)

	_, err = f.users.FindByID(ctx, res.Accounts[1].UserID)
	assert.NoError(t, err)
}

func TestProvisionValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.accountService(&notify.Recorder{})

	_, err := svc.Provision(ctx, 0, 1, model.Staff)
	assert.True(t, IsValidation(err))
	_, err = svc.Provision(ctx, 1, 0, model.Staff)
	assert.True(t, IsValidation(err))
	_, err = svc.Provision(ctx, 1, MaxProvisionCount+1, model.Staff)
	assert.True(t, IsValidation(err))
	_, err = svc.Provision(ctx, 1, 1, "owner")
	assert.ErrorIs(t, err, ErrInvalidRank)
}

func TestProvisionUsesSiteConstant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.accountService(&notify.Recorder{})

	c, err := svc.GetConstant(ctx)
	require.NoError(t, err)
	assert.Equal(t, "exa", c.CompanyCode)

	_, err = svc.UpdateConstant(ctx, ConstantRequest{CompanyCode: "acme", Address: "acme.co.jp"})
	require.NoError(t, err)

	res, err := svc.Provision(ctx, 1, 1, model.Staff)
	require.NoError(t, err)
	assert.Equal(t, "acme1@acme.co.jp", res.Accounts[0].Email)
}
