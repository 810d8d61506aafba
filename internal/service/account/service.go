// Package account implements registration, role commitment and profile
// editing on top of the repository layer.
package account

import (
	"context"
	"errors"
	"strings"

	"github.com/desmitry/urfu-teamfinder/internal/app"
	"github.com/desmitry/urfu-teamfinder/internal/apperr"
	"github.com/desmitry/urfu-teamfinder/internal/db"
	"github.com/desmitry/urfu-teamfinder/internal/repository"
)

// Service carries the account lifecycle: first-contact registration,
// re-contact refresh, one-time role commitment, profile edits and tag
// selection.
type Service struct {
	appCtx   *app.AppContext
	accounts *repository.AccountRepository
	tags     *repository.TagRepository
}

// NewService creates an account service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		accounts: repository.NewAccountRepository(appCtx.DB),
		tags:     repository.NewTagRepository(appCtx.DB),
	}
}

// RegisterOrRefresh bootstraps the account behind a chat id.
//
// Behavior:
//   - First contact → create an Account with role unset, active, display
//     name assembled from the profile name fields.
//   - Later contacts → refresh the handle (lower-cased) and reactivate.
//
// Returns the account and whether it was just created.
func (s *Service) RegisterOrRefresh(ctx context.Context, chatID int64, handle, firstName, lastName string) (*db.Account, bool, error) {
	existing, err := s.accounts.GetByChatID(ctx, chatID)
	switch {
	case err == nil:
		if err := s.accounts.UpdateIdentity(ctx, existing, handle); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	case isNotFound(err):
		account := &db.Account{
			ChatID:   chatID,
			Handle:   strings.ToLower(handle),
			Role:     db.RoleUnset,
			IsActive: true,
			FullName: displayName(firstName, lastName),
		}
		if err := s.accounts.Create(ctx, account); err != nil {
			return nil, false, err
		}
		s.appCtx.Logger.Info("account registered", "chat_id", chatID)
		return account, true, nil
	default:
		return nil, false, err
	}
}

// CommitRole sets the account role exactly once. A second commit, or a role
// other than student/mentor, is rejected.
func (s *Service) CommitRole(ctx context.Context, chatID int64, role db.Role) (*db.Account, error) {
	if role != db.RoleStudent && role != db.RoleMentor {
		return nil, apperr.InvalidArgument("role must be student or mentor")
	}
	account, err := s.accounts.GetByChatID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if account.Role != db.RoleUnset {
		return nil, apperr.InvalidArgument("role is already committed")
	}
	if err := s.accounts.SetRole(ctx, account, role); err != nil {
		return nil, err
	}
	s.appCtx.Logger.Info("role committed", "chat_id", chatID, "role", role)
	return account, nil
}

// GetWithTags returns the account behind a chat id with tags preloaded.
func (s *Service) GetWithTags(ctx context.Context, chatID int64) (*db.Account, error) {
	return s.accounts.GetByChatIDWithTags(ctx, chatID)
}

// SetFullName updates the display name.
func (s *Service) SetFullName(ctx context.Context, chatID int64, name string) (*db.Account, error) {
	account, err := s.accounts.GetByChatIDWithTags(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if err := s.accounts.SetFullName(ctx, account, name); err != nil {
		return nil, err
	}
	return account, nil
}

// SetDescription updates the profile description.
func (s *Service) SetDescription(ctx context.Context, chatID int64, description string) (*db.Account, error) {
	account, err := s.accounts.GetByChatIDWithTags(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if err := s.accounts.SetDescription(ctx, account, description); err != nil {
		return nil, err
	}
	return account, nil
}

// SetImage updates the profile image blob.
func (s *Service) SetImage(ctx context.Context, chatID int64, image []byte) (*db.Account, error) {
	account, err := s.accounts.GetByChatIDWithTags(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if err := s.accounts.SetImage(ctx, account, image); err != nil {
		return nil, err
	}
	return account, nil
}

// ListTags returns the tag catalog.
func (s *Service) ListTags(ctx context.Context) ([]db.Tag, error) {
	return s.tags.List(ctx)
}

// ToggleTag flips the account's membership in a tag and returns the account
// with its refreshed tag set plus the selection state after the toggle.
// Unknown tag ids yield ErrNotFound.
func (s *Service) ToggleTag(ctx context.Context, chatID int64, tagID uint) (*db.Account, bool, error) {
	account, err := s.accounts.GetByChatID(ctx, chatID)
	if err != nil {
		return nil, false, err
	}
	if _, err := s.tags.Get(ctx, tagID); err != nil {
		return nil, false, err
	}
	selected, err := s.tags.Toggle(ctx, account.ID, tagID)
	if err != nil {
		return nil, false, err
	}
	refreshed, err := s.accounts.GetByChatIDWithTags(ctx, chatID)
	if err != nil {
		return nil, false, err
	}
	return refreshed, selected, nil
}

// Deactivate marks the account inactive (user blocked the bot).
func (s *Service) Deactivate(ctx context.Context, chatID int64) error {
	return s.accounts.SetActiveByChatID(ctx, chatID, false)
}

// Reactivate marks the account active again (user returned).
func (s *Service) Reactivate(ctx context.Context, chatID int64) error {
	return s.accounts.SetActiveByChatID(ctx, chatID, true)
}

func displayName(firstName, lastName string) string {
	name := strings.TrimSpace(firstName)
	if lastName != "" {
		name = strings.TrimSpace(name + " " + lastName)
	}
	if name == "" {
		name = "Anonymous"
	}
	return name
}

func isNotFound(err error) bool {
	return errors.Is(err, apperr.ErrNotFound)
}
