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

func TestAccountGetByChatID(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewAccountRepository(dbase)

	created := createAccount(t, dbase, 42, db.RoleStudent, true)

	got, err := repo.GetByChatID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = repo.GetByChatID(ctx, 43)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAccountUpdateIdentity(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewAccountRepository(dbase)

	account := createAccount(t, dbase, 42, db.RoleStudent, false)

	require.NoError(t, repo.UpdateIdentity(ctx, account, "SomeHandle"))

	got, err := repo.GetByChatID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "somehandle", got.Handle)
	assert.True(t, got.IsActive)
}

func TestAccountSetActiveByChatID(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewAccountRepository(dbase)

	createAccount(t, dbase, 42, db.RoleMentor, true)

	require.NoError(t, repo.SetActiveByChatID(ctx, 42, false))
	got, err := repo.GetByChatID(ctx, 42)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	require.NoError(t, repo.SetActiveByChatID(ctx, 42, true))
	got, err = repo.GetByChatID(ctx, 42)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}

func TestListActiveMentorsWithTags(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewAccountRepository(dbase)

	mentor := createAccount(t, dbase, 1, db.RoleMentor, true)
	createAccount(t, dbase, 2, db.RoleMentor, false) // inactive, excluded
	createAccount(t, dbase, 3, db.RoleStudent, true) // wrong role, excluded

	tag := createTag(t, dbase, "Backend")
	require.NoError(t, dbase.Create(&db.AccountTag{AccountID: mentor.ID, TagID: tag.ID}).Error)

	mentors, err := repo.ListActiveMentorsWithTags(ctx)
	require.NoError(t, err)
	require.Len(t, mentors, 1)
	assert.Equal(t, mentor.ID, mentors[0].ID)
	require.Len(t, mentors[0].Tags, 1)
	assert.Equal(t, "Backend", mentors[0].Tags[0].Title)
}

func TestListActiveStudentLikersWithTags(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewAccountRepository(dbase)

	mentor := createAccount(t, dbase, 1, db.RoleMentor, true)
	liker := createAccount(t, dbase, 2, db.RoleStudent, true)
	blocked := createAccount(t, dbase, 3, db.RoleStudent, false)
	createAccount(t, dbase, 4, db.RoleStudent, true) // never liked, excluded

	require.NoError(t, dbase.Create(&db.Like{LikerID: liker.ID, LikedID: mentor.ID}).Error)
	require.NoError(t, dbase.Create(&db.Like{LikerID: blocked.ID, LikedID: mentor.ID}).Error)

	likers, err := repo.ListActiveStudentLikersWithTags(ctx, mentor.ID)
	require.NoError(t, err)
	require.Len(t, likers, 1)
	assert.Equal(t, liker.ID, likers[0].ID)
}
