package repository_test

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/desmitry/urfu-teamfinder/internal/db"
)

// setupTestDB opens an isolated in-memory SQLite DB with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

func createAccount(t *testing.T, database *gorm.DB, chatID int64, role db.Role, active bool) *db.Account {
	t.Helper()
	account := &db.Account{
		ChatID:   chatID,
		Role:     role,
		IsActive: active,
		FullName: "Account",
	}
	if err := database.Create(account).Error; err != nil {
		t.Fatalf("failed to create account: %v", err)
	}
	// Create ignores IsActive: false because of the column's default:true
	// tag (GORM substitutes the default for zero-value fields), so flip it
	// with a targeted update the way production deactivation does.
	if !active {
		if err := database.Model(account).Update("is_active", false).Error; err != nil {
			t.Fatalf("failed to deactivate account: %v", err)
		}
	}
	return account
}

func createTag(t *testing.T, database *gorm.DB, title string) *db.Tag {
	t.Helper()
	tag := &db.Tag{Title: title}
	if err := database.Create(tag).Error; err != nil {
		t.Fatalf("failed to create tag: %v", err)
	}
	return tag
}
