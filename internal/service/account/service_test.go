package account_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/desmitry/urfu-teamfinder/internal/app"
	"github.com/desmitry/urfu-teamfinder/internal/apperr"
	"github.com/desmitry/urfu-teamfinder/internal/db"
	"github.com/desmitry/urfu-teamfinder/internal/service/account"
)

func setupService(t *testing.T) (*account.Service, *gorm.DB) {
	t.Helper()

	dbase, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(dbase))

	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return account.NewService(app.New(dbase, nil, log)), dbase
}

func TestRegisterCreatesAccount(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	acc, created, err := svc.RegisterOrRefresh(ctx, 42, "SomeHandle", "Ada", "Lovelace")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(42), acc.ChatID)
	assert.Equal(t, "somehandle", acc.Handle)
	assert.Equal(t, "Ada Lovelace", acc.FullName)
	assert.Equal(t, db.RoleUnset, acc.Role)
	assert.True(t, acc.IsActive)
}

func TestRegisterFallsBackToAnonymous(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	acc, _, err := svc.RegisterOrRefresh(ctx, 42, "", "", "")
	require.NoError(t, err)
	assert.Equal(t, "Anonymous", acc.FullName)
}

// TestRegisterRefreshesExisting checks that a returning user keeps their
// profile but gets the handle refreshed and the account reactivated.
func TestRegisterRefreshesExisting(t *testing.T) {
	ctx := context.Background()
	svc, dbase := setupService(t)

	first, created, err := svc.RegisterOrRefresh(ctx, 42, "oldhandle", "Ada", "")
	require.NoError(t, err)
	require.True(t, created)

	require.NoError(t, dbase.Model(first).Update("is_active", false).Error)

	second, created, err := svc.RegisterOrRefresh(ctx, 42, "NewHandle", "Ignored", "Ignored")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "newhandle", second.Handle)
	assert.Equal(t, "Ada", second.FullName)
	assert.True(t, second.IsActive)
}

func TestCommitRoleOnce(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	_, _, err := svc.RegisterOrRefresh(ctx, 42, "handle", "Ada", "")
	require.NoError(t, err)

	acc, err := svc.CommitRole(ctx, 42, db.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, db.RoleStudent, acc.Role)

	// a second commit must be rejected
	_, err = svc.CommitRole(ctx, 42, db.RoleMentor)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	refreshed, err := svc.GetWithTags(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, db.RoleStudent, refreshed.Role)
}

func TestCommitRoleRejectsUnknownRole(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	_, _, err := svc.RegisterOrRefresh(ctx, 42, "handle", "Ada", "")
	require.NoError(t, err)

	_, err = svc.CommitRole(ctx, 42, db.Role("admin"))
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestProfileEdits(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	_, _, err := svc.RegisterOrRefresh(ctx, 42, "handle", "Ada", "")
	require.NoError(t, err)

	acc, err := svc.SetFullName(ctx, 42, "Grace Hopper")
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", acc.FullName)

	acc, err = svc.SetDescription(ctx, 42, "Compiler person")
	require.NoError(t, err)
	assert.Equal(t, "Compiler person", acc.Description)

	image := []byte{0xff, 0xd8, 0xff}
	acc, err = svc.SetImage(ctx, 42, image)
	require.NoError(t, err)
	assert.Equal(t, image, acc.Image)

	refreshed, err := svc.GetWithTags(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", refreshed.FullName)
	assert.Equal(t, "Compiler person", refreshed.Description)
	assert.Equal(t, image, refreshed.Image)
}

func TestToggleTagRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, dbase := setupService(t)

	_, _, err := svc.RegisterOrRefresh(ctx, 42, "handle", "Ada", "")
	require.NoError(t, err)

	tag := &db.Tag{Title: "Backend"}
	require.NoError(t, dbase.Create(tag).Error)

	acc, selected, err := svc.ToggleTag(ctx, 42, tag.ID)
	require.NoError(t, err)
	assert.True(t, selected)
	require.Len(t, acc.Tags, 1)
	assert.Equal(t, "Backend", acc.Tags[0].Title)

	acc, selected, err = svc.ToggleTag(ctx, 42, tag.ID)
	require.NoError(t, err)
	assert.False(t, selected)
	assert.Empty(t, acc.Tags)
}

func TestToggleTagUnknownTag(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	_, _, err := svc.RegisterOrRefresh(ctx, 42, "handle", "Ada", "")
	require.NoError(t, err)

	_, _, err = svc.ToggleTag(ctx, 42, 999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeactivateReactivate(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	_, _, err := svc.RegisterOrRefresh(ctx, 42, "handle", "Ada", "")
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, 42))
	acc, err := svc.GetWithTags(ctx, 42)
	require.NoError(t, err)
	assert.False(t, acc.IsActive)

	require.NoError(t, svc.Reactivate(ctx, 42))
	acc, err = svc.GetWithTags(ctx, 42)
	require.NoError(t, err)
	assert.True(t, acc.IsActive)
}
