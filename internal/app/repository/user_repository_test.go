package repository

import (
	"context"
	"testing"

	"github.com/sifan077/FoodGram/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateRejectsDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	repo := NewUserRepository(f.db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.User{Email: "a@example.com", Username: "a", PasswordHash: "x"}))
	err := repo.Create(ctx, &model.User{Email: "a@example.com", Username: "b", PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrDuplicate)

	got, err := repo.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "a", got.Username)

	require.NoError(t, repo.UpdateAvatar(ctx, got.ID, "data:image/png;base64,AA=="))
	assert.ErrorIs(t, repo.UpdatePassword(ctx, 9999, "x"), ErrUserNotFound)
}

func TestSubscriptionRepository_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reader := f.user(t, "reader")
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	subs := NewSubscriptionRepository(f.db)

	require.NoError(t, subs.Create(ctx, &model.Subscription{UserID: reader.ID, AuthorID: alice.ID}))
	require.NoError(t, subs.Create(ctx, &model.Subscription{UserID: reader.ID, AuthorID: bob.ID}))
	assert.ErrorIs(t, subs.Create(ctx, &model.Subscription{UserID: reader.ID, AuthorID: bob.ID}), ErrDuplicate)

	authors, total, err := subs.ListAuthors(ctx, reader.ID, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, authors, 2)
	assert.Equal(t, "alice", authors[0].Username)

	followed, err := subs.FollowedAmong(ctx, reader.ID, []uint{alice.ID, reader.ID})
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{alice.ID: true}, followed)

	require.NoError(t, subs.Delete(ctx, reader.ID, alice.ID))
	assert.ErrorIs(t, subs.Delete(ctx, reader.ID, alice.ID), ErrSubscriptionNotFound)
}
