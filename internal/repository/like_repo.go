package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/desmitry/urfu-teamfinder/internal/apperr"
	"github.com/desmitry/urfu-teamfinder/internal/db"
)

// LikeRepository provides data access methods for the Like model.
// It encapsulates all queries over the directed liker → liked edges.
type LikeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new repository bound to the given DB connection.
func NewLikeRepository(database *gorm.DB) *LikeRepository {
	return &LikeRepository{db: database}
}

// Exists reports whether a like row (liker → liked) is present.
func (r *LikeRepository) Exists(ctx context.Context, likerID, likedID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("liker_id = ? AND liked_id = ?", likerID, likedID).
		Count(&count).Error
	if err != nil {
		return false, apperr.Map(err)
	}
	return count > 0, nil
}

// Toggle flips the like edge (liker → liked).
//
// Behavior:
//   - If the row exists → delete it ("not liked").
//   - Otherwise → insert it ("liked").
//   - Runs in one transaction; together with the unique index on
//     (liker_id, liked_id) this keeps concurrent toggles from
//     double-inserting the same ordered pair.
//
// Returns whether the like exists after the toggle.
func (r *LikeRepository) Toggle(ctx context.Context, likerID, likedID uint) (bool, error) {
	var liked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var like db.Like
		err := tx.
			Where("liker_id = ? AND liked_id = ?", likerID, likedID).
			First(&like).Error
		switch {
		case err == nil:
			liked = false
			return tx.Delete(&like).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			liked = true
			return tx.Create(&db.Like{LikerID: likerID, LikedID: likedID}).Error
		default:
			return err
		}
	})
	if err != nil {
		return false, apperr.Map(err)
	}
	return liked, nil
}

// LikedIDs returns the set of account ids the liker currently likes.
// Used to render like/unlike button state over a candidate list.
func (r *LikeRepository) LikedIDs(ctx context.Context, likerID uint) (map[uint]bool, error) {
	var likes []db.Like
	err := r.db.WithContext(ctx).
		Where("liker_id = ?", likerID).
		Find(&likes).Error
	if err != nil {
		return nil, apperr.Map(err)
	}
	liked := make(map[uint]bool, len(likes))
	for _, l := range likes {
		liked[l.LikedID] = true
	}
	return liked, nil
}
