// Package matching computes ranked candidate lists and processes like
// toggles, including match detection and best-effort notifications.
package matching

import (
	"context"
	"sort"

	"github.com/desmitry/urfu-teamfinder/internal/app"
	"github.com/desmitry/urfu-teamfinder/internal/db"
	"github.com/desmitry/urfu-teamfinder/internal/repository"
)

// Notifier delivers like/match messages to counterpart accounts.
// Implementations resolve the recipient's locale themselves; delivery
// failures are reported as errors and recovered by the caller.
type Notifier interface {
	// NotifyLiked sends a generic "someone liked you" message.
	// The liker's identity is not disclosed.
	NotifyLiked(ctx context.Context, recipient *db.Account) error
	// NotifyMatch sends a "match found" message with a direct
	// reference to the counterpart account.
	NotifyMatch(ctx context.Context, recipient, counterpart *db.Account) error
}

// Candidate is one ranked browse entry.
type Candidate struct {
	Account   db.Account
	Relevance int
}

// CandidatePage is a single-candidate page of the ranked list.
// Candidate is nil when the list is empty.
type CandidatePage struct {
	Candidate *Candidate
	Page      int
	Total     int
	HasPrev   bool
	HasNext   bool
	// Liked reports whether the requester currently likes the shown
	// candidate; drives the like/unlike button.
	Liked bool
}

// Service is the matching engine. It contains the candidate selection,
// ranking and like/match logic on top of the repository layer.
type Service struct {
	appCtx   *app.AppContext
	accounts *repository.AccountRepository
	likes    *repository.LikeRepository
	notifier Notifier
}

// NewService creates a matching service with dependencies from AppContext.
func NewService(appCtx *app.AppContext, notifier Notifier) *Service {
	return &Service{
		appCtx:   appCtx,
		accounts: repository.NewAccountRepository(appCtx.DB),
		likes:    repository.NewLikeRepository(appCtx.DB),
		notifier: notifier,
	}
}

// ListCandidates returns the candidate at the given page of the ranked list
// for the account behind chatID.
//
// Candidate set:
//   - student → all active mentors;
//   - mentor → active students that have liked the mentor;
//   - unset role → empty list.
//
// Ranking is by shared-tag count descending; ties break by account id
// ascending. The page index is clamped into the valid range so a list
// shrunk by an unlike elsewhere still renders.
func (s *Service) ListCandidates(ctx context.Context, chatID int64, page int) (*CandidatePage, error) {
	requester, err := s.accounts.GetByChatIDWithTags(ctx, chatID)
	if err != nil {
		return nil, err
	}
	return s.listFor(ctx, requester, page)
}

func (s *Service) listFor(ctx context.Context, requester *db.Account, page int) (*CandidatePage, error) {
	candidates, err := s.rankedCandidates(ctx, requester)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return &CandidatePage{Total: 0}, nil
	}

	page = clamp(page, 0, len(candidates)-1)
	current := candidates[page]

	liked, err := s.likes.Exists(ctx, requester.ID, current.Account.ID)
	if err != nil {
		return nil, err
	}

	return &CandidatePage{
		Candidate: &current,
		Page:      page,
		Total:     len(candidates),
		HasPrev:   page > 0,
		HasNext:   page < len(candidates)-1,
		Liked:     liked,
	}, nil
}

// ToggleLike flips the requester's like on likedID and dispatches
// notifications:
//
//   - like created and the reciprocal like exists → match: both parties
//     get a "match found" message referencing the other;
//   - like created by a student, no reciprocal → the liked account gets a
//     generic "someone liked you" message, identity undisclosed;
//   - like created by a mentor, no reciprocal → no notification (the
//     mentor's interest surfaces only through a later match);
//   - like deleted → no notification.
//
// Notification failures never fail the toggle. Returns the re-ranked
// candidate page for the requester's previous cursor position.
func (s *Service) ToggleLike(ctx context.Context, chatID int64, likedID uint, page int) (*CandidatePage, error) {
	requester, err := s.accounts.GetByChatIDWithTags(ctx, chatID)
	if err != nil {
		return nil, err
	}
	liked, err := s.accounts.GetByIDWithTags(ctx, likedID)
	if err != nil {
		return nil, err
	}

	created, err := s.likes.Toggle(ctx, requester.ID, liked.ID)
	if err != nil {
		return nil, err
	}

	if created {
		reciprocal, err := s.likes.Exists(ctx, liked.ID, requester.ID)
		if err != nil {
			return nil, err
		}
		switch {
		case reciprocal:
			s.notifyMatch(ctx, requester, liked)
			s.notifyMatch(ctx, liked, requester)
		case requester.Role == db.RoleStudent:
			s.notifyLiked(ctx, liked)
		}
	}

	return s.listFor(ctx, requester, page)
}

func (s *Service) notifyMatch(ctx context.Context, recipient, counterpart *db.Account) {
	if err := s.notifier.NotifyMatch(ctx, recipient, counterpart); err != nil {
		s.appCtx.Logger.Warn("match notification failed",
			"recipient_chat_id", recipient.ChatID, "err", err)
	}
}

func (s *Service) notifyLiked(ctx context.Context, recipient *db.Account) {
	if err := s.notifier.NotifyLiked(ctx, recipient); err != nil {
		s.appCtx.Logger.Warn("like notification failed",
			"recipient_chat_id", recipient.ChatID, "err", err)
	}
}

// rankedCandidates selects and ranks the browse list for the requester.
func (s *Service) rankedCandidates(ctx context.Context, requester *db.Account) ([]Candidate, error) {
	var (
		accounts []db.Account
		err      error
	)
	switch requester.Role {
	case db.RoleStudent:
		accounts, err = s.accounts.ListActiveMentorsWithTags(ctx)
	case db.RoleMentor:
		accounts, err = s.accounts.ListActiveStudentLikersWithTags(ctx, requester.ID)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	requesterTags := make(map[uint]bool, len(requester.Tags))
	for _, tag := range requester.Tags {
		requesterTags[tag.ID] = true
	}

	candidates := make([]Candidate, 0, len(accounts))
	for _, account := range accounts {
		relevance := 0
		for _, tag := range account.Tags {
			if requesterTags[tag.ID] {
				relevance++
			}
		}
		candidates = append(candidates, Candidate{Account: account, Relevance: relevance})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Relevance != candidates[j].Relevance {
			return candidates[i].Relevance > candidates[j].Relevance
		}
		return candidates[i].Account.ID < candidates[j].Account.ID
	})

	return candidates, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
