package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/desmitry/urfu-teamfinder/internal/apperr"
	"github.com/desmitry/urfu-teamfinder/internal/db"
)

// AccountRepository provides data access methods for the Account model.
// Query shapes are fixed and named; relationship loading is explicit per
// method instead of a generic join builder.
type AccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new repository bound to the given DB connection.
func NewAccountRepository(database *gorm.DB) *AccountRepository {
	return &AccountRepository{db: database}
}

// GetByChatID returns the account registered under a Telegram chat id,
// without associations.
func (r *AccountRepository) GetByChatID(ctx context.Context, chatID int64) (*db.Account, error) {
	var account db.Account
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		First(&account).Error
	if err != nil {
		return nil, apperr.Map(err)
	}
	return &account, nil
}

// GetByChatIDWithTags returns the account with its tag set preloaded.
func (r *AccountRepository) GetByChatIDWithTags(ctx context.Context, chatID int64) (*db.Account, error) {
	var account db.Account
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Where("chat_id = ?", chatID).
		First(&account).Error
	if err != nil {
		return nil, apperr.Map(err)
	}
	return &account, nil
}

// GetByIDWithTags returns the account by primary key with tags preloaded.
func (r *AccountRepository) GetByIDWithTags(ctx context.Context, id uint) (*db.Account, error) {
	var account db.Account
	err := r.db.WithContext(ctx).
		Preload("Tags").
		First(&account, id).Error
	if err != nil {
		return nil, apperr.Map(err)
	}
	return &account, nil
}

// Create inserts a new account row.
func (r *AccountRepository) Create(ctx context.Context, account *db.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

// UpdateIdentity refreshes the mutable identity fields on re-contact:
// the handle (stored lower-cased) and the active flag.
func (r *AccountRepository) UpdateIdentity(ctx context.Context, account *db.Account, handle string) error {
	account.Handle = strings.ToLower(handle)
	account.IsActive = true
	return r.db.WithContext(ctx).
		Model(account).
		Updates(map[string]any{
			"handle":    account.Handle,
			"is_active": true,
		}).Error
}

// SetRole writes the account role. Role commitment rules (one-time write)
// are enforced by the account service, not here.
func (r *AccountRepository) SetRole(ctx context.Context, account *db.Account, role db.Role) error {
	account.Role = role
	return r.db.WithContext(ctx).
		Model(account).
		Update("role", role).Error
}

// SetFullName updates the display name.
func (r *AccountRepository) SetFullName(ctx context.Context, account *db.Account, name string) error {
	account.FullName = name
	return r.db.WithContext(ctx).Model(account).Update("full_name", name).Error
}

// SetDescription updates the profile description.
func (r *AccountRepository) SetDescription(ctx context.Context, account *db.Account, description string) error {
	account.Description = description
	return r.db.WithContext(ctx).Model(account).Update("description", description).Error
}

// SetImage updates the profile image blob.
func (r *AccountRepository) SetImage(ctx context.Context, account *db.Account, image []byte) error {
	account.Image = image
	return r.db.WithContext(ctx).Model(account).Update("image", image).Error
}

// SetActiveByChatID flips the active flag for the account behind a chat id.
// Used when the user blocks or unblocks the bot; touches nothing else.
func (r *AccountRepository) SetActiveByChatID(ctx context.Context, chatID int64, active bool) error {
	return r.db.WithContext(ctx).
		Model(&db.Account{}).
		Where("chat_id = ?", chatID).
		Update("is_active", active).Error
}

// ListActiveMentorsWithTags returns all active mentor accounts with tags
// preloaded, ordered by id for a deterministic retrieval order.
func (r *AccountRepository) ListActiveMentorsWithTags(ctx context.Context) ([]db.Account, error) {
	var accounts []db.Account
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Where("role = ? AND is_active = ?", db.RoleMentor, true).
		Order("id ASC").
		Find(&accounts).Error
	if err != nil {
		return nil, apperr.Map(err)
	}
	return accounts, nil
}

// ListActiveStudentLikersWithTags returns the distinct active student
// accounts holding a like toward the given mentor, tags preloaded,
// ordered by id.
func (r *AccountRepository) ListActiveStudentLikersWithTags(ctx context.Context, mentorID uint) ([]db.Account, error) {
	var accounts []db.Account
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Where("role = ? AND is_active = ?", db.RoleStudent, true).
		Where("id IN (?)", r.db.
			Model(&db.Like{}).
			Select("liker_id").
			Where("liked_id = ?", mentorID),
		).
		Order("id ASC").
		Find(&accounts).Error
	if err != nil {
		return nil, apperr.Map(err)
	}
	return accounts, nil
}
