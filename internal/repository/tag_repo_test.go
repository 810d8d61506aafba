package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desmitry/urfu-teamfinder/internal/apperr"
	"github.com/desmitry/urfu-teamfinder/internal/db"
	"github.com/desmitry/urfu-teamfinder/internal/repository"
)

func TestTagToggleRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewTagRepository(dbase)

	account := createAccount(t, dbase, 42, db.RoleStudent, true)
	tag := createTag(t, dbase, "Backend")

	// toggle on
	selected, err := repo.Toggle(ctx, account.ID, tag.ID)
	require.NoError(t, err)
	assert.True(t, selected)

	ids, err := repo.SelectedTagIDs(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, ids[tag.ID])

	// toggle off, back to the original state
	selected, err = repo.Toggle(ctx, account.ID, tag.ID)
	require.NoError(t, err)
	assert.False(t, selected)

	ids, err = repo.SelectedTagIDs(ctx, account.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

// TestAccountTagDuplicateInsertRejected checks the composite unique index
// on (account_id, tag_id): a second identical join row must fail at the
// database.
func TestAccountTagDuplicateInsertRejected(t *testing.T) {
	dbase := setupTestDB(t)

	account := createAccount(t, dbase, 42, db.RoleStudent, true)
	tag := createTag(t, dbase, "Backend")

	require.NoError(t, dbase.Create(&db.AccountTag{AccountID: account.ID, TagID: tag.ID}).Error)
	err := dbase.Create(&db.AccountTag{AccountID: account.ID, TagID: tag.ID}).Error
	assert.Error(t, err)
}

func TestTagGetNotFound(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewTagRepository(dbase)

	_, err := repo.Get(ctx, 999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestTagList(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewTagRepository(dbase)

	createTag(t, dbase, "Backend")
	createTag(t, dbase, "Frontend")

	tags, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "Backend", tags[0].Title)
	assert.Equal(t, "Frontend", tags[1].Title)
}
