package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/desmitry/urfu-teamfinder/internal/apperr"
	"github.com/desmitry/urfu-teamfinder/internal/db"
)

// TagRepository provides data access methods for the Tag model and the
// account-tag join rows.
type TagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new repository bound to the given DB connection.
func NewTagRepository(database *gorm.DB) *TagRepository {
	return &TagRepository{db: database}
}

// List returns the whole tag catalog ordered by id.
func (r *TagRepository) List(ctx context.Context) ([]db.Tag, error) {
	var tags []db.Tag
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&tags).Error; err != nil {
		return nil, apperr.Map(err)
	}
	return tags, nil
}

// Get returns one tag by id.
func (r *TagRepository) Get(ctx context.Context, id uint) (*db.Tag, error) {
	var tag db.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, apperr.Map(err)
	}
	return &tag, nil
}

// Toggle flips an account's membership in a tag.
//
// Behavior:
//   - If an account_tags row exists for (account, tag) → delete it.
//   - Otherwise → insert it.
//   - Runs in one transaction so a toggle is atomic under concurrency.
//
// Returns whether the tag is selected after the toggle.
func (r *TagRepository) Toggle(ctx context.Context, accountID, tagID uint) (bool, error) {
	var selected bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var at db.AccountTag
		err := tx.
			Where("account_id = ? AND tag_id = ?", accountID, tagID).
			First(&at).Error
		switch {
		case err == nil:
			selected = false
			return tx.
				Where("account_id = ? AND tag_id = ?", accountID, tagID).
				Delete(&db.AccountTag{}).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			selected = true
			return tx.Create(&db.AccountTag{AccountID: accountID, TagID: tagID}).Error
		default:
			return err
		}
	})
	if err != nil {
		return false, apperr.Map(err)
	}
	return selected, nil
}

// SelectedTagIDs returns the set of tag ids the account currently holds.
func (r *TagRepository) SelectedTagIDs(ctx context.Context, accountID uint) (map[uint]bool, error) {
	var rows []db.AccountTag
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Map(err)
	}
	selected := make(map[uint]bool, len(rows))
	for _, row := range rows {
		selected[row.TagID] = true
	}
	return selected, nil
}
