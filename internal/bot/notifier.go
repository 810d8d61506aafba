package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/desmitry/urfu-teamfinder/internal/apperr"
	"github.com/desmitry/urfu-teamfinder/internal/db"
	"github.com/desmitry/urfu-teamfinder/internal/i18n"
	"github.com/desmitry/urfu-teamfinder/internal/session"
)

// TelegramNotifier delivers like/match messages over the bot API.
// It implements matching.Notifier. Delivery is best-effort: the caller
// treats every returned error as non-fatal.
type TelegramNotifier struct {
	api      *tgbotapi.BotAPI
	sessions *session.Store
	bundle   *i18n.Bundle
}

func NewTelegramNotifier(api *tgbotapi.BotAPI, sessions *session.Store, bundle *i18n.Bundle) *TelegramNotifier {
	return &TelegramNotifier{api: api, sessions: sessions, bundle: bundle}
}

// localeFor resolves the recipient's stored locale, falling back to the
// default when the session is missing or unreadable.
func (n *TelegramNotifier) localeFor(ctx context.Context, chatID int64) string {
	sess, err := n.sessions.Get(ctx, chatID)
	if err != nil || sess.Locale == "" {
		return n.bundle.DefaultLocale()
	}
	return sess.Locale
}

// NotifyLiked sends the generic "someone liked you" popup.
func (n *TelegramNotifier) NotifyLiked(ctx context.Context, recipient *db.Account) error {
	locale := n.localeFor(ctx, recipient.ChatID)
	msg := tgbotapi.NewMessage(recipient.ChatID, n.bundle.Tr(locale, "notify.liked"))
	msg.ReplyMarkup = popupKeyboard(n.bundle, locale)
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrUnreachable, err)
	}
	return nil
}

// NotifyMatch sends the "match found" message with a link to the
// counterpart account.
func (n *TelegramNotifier) NotifyMatch(ctx context.Context, recipient, counterpart *db.Account) error {
	locale := n.localeFor(ctx, recipient.ChatID)
	msg := tgbotapi.NewMessage(recipient.ChatID, n.bundle.Tr(locale, "notify.match"))
	msg.ReplyMarkup = accountLinkKeyboard(counterpart)
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrUnreachable, err)
	}
	return nil
}
