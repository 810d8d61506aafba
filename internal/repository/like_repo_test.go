package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desmitry/urfu-teamfinder/internal/db"
	"github.com/desmitry/urfu-teamfinder/internal/repository"
)

func TestLikeToggleRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewLikeRepository(dbase)

	student := createAccount(t, dbase, 1, db.RoleStudent, true)
	mentor := createAccount(t, dbase, 2, db.RoleMentor, true)

	// toggle on
	liked, err := repo.Toggle(ctx, student.ID, mentor.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	exists, err := repo.Exists(ctx, student.ID, mentor.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	// direction matters
	exists, err = repo.Exists(ctx, mentor.ID, student.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	// toggle off, back to the original state
	liked, err = repo.Toggle(ctx, student.ID, mentor.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	exists, err = repo.Exists(ctx, student.ID, mentor.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

// TestLikeDuplicateInsertRejected checks the composite unique index on
// (liker_id, liked_id): a second identical row must fail at the database,
// so a concurrent double toggle cannot produce duplicate edges.
func TestLikeDuplicateInsertRejected(t *testing.T) {
	dbase := setupTestDB(t)

	student := createAccount(t, dbase, 1, db.RoleStudent, true)
	mentor := createAccount(t, dbase, 2, db.RoleMentor, true)

	require.NoError(t, dbase.Create(&db.Like{LikerID: student.ID, LikedID: mentor.ID}).Error)
	err := dbase.Create(&db.Like{LikerID: student.ID, LikedID: mentor.ID}).Error
	assert.Error(t, err)

	// the reverse direction is a distinct edge and stays insertable
	require.NoError(t, dbase.Create(&db.Like{LikerID: mentor.ID, LikedID: student.ID}).Error)
}

func TestLikedIDs(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewLikeRepository(dbase)

	student := createAccount(t, dbase, 1, db.RoleStudent, true)
	m1 := createAccount(t, dbase, 2, db.RoleMentor, true)
	m2 := createAccount(t, dbase, 3, db.RoleMentor, true)

	_, err := repo.Toggle(ctx, student.ID, m1.ID)
	require.NoError(t, err)

	liked, err := repo.LikedIDs(ctx, student.ID)
	require.NoError(t, err)
	assert.True(t, liked[m1.ID])
	assert.False(t, liked[m2.ID])
}
