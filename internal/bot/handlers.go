package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/desmitry/urfu-teamfinder/internal/app"
	"github.com/desmitry/urfu-teamfinder/internal/apperr"
	"github.com/desmitry/urfu-teamfinder/internal/db"
	"github.com/desmitry/urfu-teamfinder/internal/i18n"
	"github.com/desmitry/urfu-teamfinder/internal/service/account"
	"github.com/desmitry/urfu-teamfinder/internal/service/matching"
	"github.com/desmitry/urfu-teamfinder/internal/session"
)

// Handler translates Telegram updates into service calls and renders the
// results back as menu messages. One Handler serves all conversations; the
// dispatcher guarantees per-chat ordering.
type Handler struct {
	api      *tgbotapi.BotAPI
	appCtx   *app.AppContext
	accounts *account.Service
	matcher  *matching.Service
	bundle   *i18n.Bundle
	log      *slog.Logger
}

func NewHandler(api *tgbotapi.BotAPI, appCtx *app.AppContext, bundle *i18n.Bundle) *Handler {
	notifier := NewTelegramNotifier(api, appCtx.Sessions, bundle)
	return &Handler{
		api:      api,
		appCtx:   appCtx,
		accounts: account.NewService(appCtx),
		matcher:  matching.NewService(appCtx, notifier),
		bundle:   bundle,
		log:      appCtx.Logger,
	}
}

// HandleUpdate routes one update to its handler.
func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.MyChatMember != nil:
		h.handleChatMember(ctx, update.MyChatMember)
	case update.CallbackQuery != nil:
		h.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		h.handleMessage(ctx, update.Message)
	}
}

// handleMessage covers /start and dialogue inputs (profile field edits).
func (h *Handler) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if !msg.Chat.IsPrivate() {
		return
	}
	if msg.IsCommand() {
		if msg.Command() == "start" {
			h.handleStart(ctx, msg)
		}
		return
	}

	chatID := msg.Chat.ID
	sess := h.loadSession(ctx, chatID)

	var err error
	switch sess.State {
	case session.StateEditingName:
		if msg.Text == "" {
			return
		}
		_, err = h.accounts.SetFullName(ctx, chatID, msg.Text)
	case session.StateEditingDescription:
		if msg.Text == "" {
			return
		}
		_, err = h.accounts.SetDescription(ctx, chatID, msg.Text)
	case session.StateEditingImage:
		if len(msg.Photo) == 0 {
			return
		}
		var image []byte
		image, err = h.downloadPhoto(msg.Photo)
		if err == nil {
			_, err = h.accounts.SetImage(ctx, chatID, image)
		}
	default:
		return
	}
	if err != nil {
		h.log.Error("profile edit failed", "chat_id", chatID, "state", sess.State, "err", err)
		return
	}

	h.deleteMessage(chatID, msg.MessageID)
	if err := h.showAccountMenu(ctx, chatID, &sess); err != nil {
		h.log.Error("failed to render account menu", "chat_id", chatID, "err", err)
	}
	h.saveSession(ctx, chatID, sess)
}

// handleStart registers or refreshes the account and renders the entry menu.
func (h *Handler) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	var handle, firstName, lastName, langCode string
	if msg.From != nil {
		handle = msg.From.UserName
		firstName = msg.From.FirstName
		lastName = msg.From.LastName
		langCode = msg.From.LanguageCode
	}

	acct, created, err := h.accounts.RegisterOrRefresh(ctx, chatID, handle, firstName, lastName)
	if err != nil {
		h.log.Error("registration failed", "chat_id", chatID, "err", err)
		return
	}

	sess := h.loadSession(ctx, chatID)
	if created || sess.Locale == "" {
		sess.Locale = h.bundle.Resolve(langCode)
	}
	sess.Page = 0

	// keep the chat clean, the menu is the only surface
	h.deleteMessage(chatID, msg.MessageID)

	if acct.Role == db.RoleUnset {
		sess.State = session.StateRegistering
		err = h.renderMenu(chatID, &sess,
			h.bundle.Tr(sess.Locale, "registration_menu.text"),
			registrationMenuKeyboard(h.bundle, sess.Locale), nil)
	} else {
		sess.State = session.StateMenu
		err = h.renderMenu(chatID, &sess,
			h.bundle.Tr(sess.Locale, "main_menu.text"),
			mainMenuKeyboard(h.bundle, sess.Locale), nil)
	}
	if err != nil {
		h.log.Error("failed to render start menu", "chat_id", chatID, "err", err)
	}
	h.saveSession(ctx, chatID, sess)
}

// handleCallback routes inline-button presses. Presses on anything but the
// current menu message are answered with an "expired" popup.
func (h *Handler) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil {
		h.answer(cq.ID, "")
		return
	}
	chatID := cq.Message.Chat.ID

	cb, err := DecodeCallback(cq.Data)
	if err != nil {
		h.log.Warn("bad callback data", "chat_id", chatID, "data", cq.Data)
		h.answer(cq.ID, "")
		return
	}

	sess := h.loadSession(ctx, chatID)
	if sess.Locale == "" {
		sess.Locale = h.bundle.DefaultLocale()
	}

	// popups are separate messages and bypass the menu guard
	if cb.Action == "close_popup" {
		h.deleteMessage(chatID, cq.Message.MessageID)
		h.answer(cq.ID, "")
		return
	}

	if cq.Message.MessageID != sess.MenuMessageID {
		h.answer(cq.ID, h.bundle.Tr(sess.Locale, "general.query_answer.menu_expired"))
		return
	}

	switch cb.Action {
	case "set_account_type":
		err = h.onSetAccountType(ctx, chatID, &sess, cb.Data)
	case "show_main_menu":
		var handle string
		if cq.From != nil {
			handle = cq.From.UserName
		}
		err = h.onShowMainMenu(ctx, chatID, &sess, handle)
	case "show_account_menu", "end_dialogue":
		err = h.showAccountMenu(ctx, chatID, &sess)
	case "show_account_list":
		err = h.onShowAccountList(ctx, chatID, &sess, cb.Page)
	case "toggle_account_like":
		err = h.onToggleLike(ctx, chatID, &sess, cb.EntryID)
	case "show_account_tag_list":
		err = h.onShowTagList(ctx, chatID, &sess)
	case "toggle_account_tag":
		err = h.onToggleTag(ctx, chatID, &sess, cb.EntryID)
	case "ask_account_name":
		err = h.onAskField(chatID, &sess, session.StateEditingName, "dialogue.ask_name")
	case "ask_account_description":
		err = h.onAskField(chatID, &sess, session.StateEditingDescription, "dialogue.ask_description")
	case "ask_account_image":
		err = h.onAskField(chatID, &sess, session.StateEditingImage, "dialogue.ask_image")
	default:
		h.log.Warn("unknown callback action", "chat_id", chatID, "action", cb.Action)
	}
	if err != nil {
		h.log.Error("callback handling failed",
			"chat_id", chatID, "action", cb.Action, "err", err)
	}

	h.saveSession(ctx, chatID, sess)
	h.answer(cq.ID, "")
}

// handleChatMember flips the active flag when the user blocks the bot or
// comes back.
func (h *Handler) handleChatMember(ctx context.Context, ev *tgbotapi.ChatMemberUpdated) {
	if ev.Chat.Type != "private" {
		return
	}
	var err error
	switch ev.NewChatMember.Status {
	case "kicked":
		err = h.accounts.Deactivate(ctx, ev.Chat.ID)
	case "member":
		err = h.accounts.Reactivate(ctx, ev.Chat.ID)
	default:
		return
	}
	if err != nil {
		h.log.Error("failed to flip active flag",
			"chat_id", ev.Chat.ID, "status", ev.NewChatMember.Status, "err", err)
	}
}

func (h *Handler) onSetAccountType(ctx context.Context, chatID int64, sess *session.Session, data string) error {
	_, err := h.accounts.CommitRole(ctx, chatID, db.Role(data))
	if err != nil && !errors.Is(err, apperr.ErrInvalidArgument) {
		return err
	}
	// a repeated press on a stale registration menu falls through to the
	// main menu without rewriting the role
	sess.State = session.StateMenu
	sess.Page = 0
	return h.renderMenu(chatID, sess,
		h.bundle.Tr(sess.Locale, "main_menu.text"),
		mainMenuKeyboard(h.bundle, sess.Locale), nil)
}

func (h *Handler) onShowMainMenu(ctx context.Context, chatID int64, sess *session.Session, handle string) error {
	// re-contact refresh, same as /start
	if _, _, err := h.accounts.RegisterOrRefresh(ctx, chatID, handle, "", ""); err != nil {
		return err
	}
	sess.State = session.StateMenu
	sess.Page = 0
	return h.renderMenu(chatID, sess,
		h.bundle.Tr(sess.Locale, "main_menu.text"),
		mainMenuKeyboard(h.bundle, sess.Locale), nil)
}

func (h *Handler) showAccountMenu(ctx context.Context, chatID int64, sess *session.Session) error {
	acct, err := h.accounts.GetWithTags(ctx, chatID)
	if err != nil {
		return err
	}
	sess.State = session.StateMenu
	return h.renderMenu(chatID, sess,
		accountCard(acct),
		accountMenuKeyboard(h.bundle, sess.Locale), acct.Image)
}

func (h *Handler) onShowAccountList(ctx context.Context, chatID int64, sess *session.Session, page int) error {
	result, err := h.matcher.ListCandidates(ctx, chatID, page)
	if err != nil {
		return err
	}
	return h.renderCandidatePage(chatID, sess, result)
}

func (h *Handler) onToggleLike(ctx context.Context, chatID int64, sess *session.Session, likedID uint) error {
	result, err := h.matcher.ToggleLike(ctx, chatID, likedID, sess.Page)
	if err != nil {
		return err
	}
	return h.renderCandidatePage(chatID, sess, result)
}

func (h *Handler) renderCandidatePage(chatID int64, sess *session.Session, result *matching.CandidatePage) error {
	sess.State = session.StateBrowsing
	sess.Page = result.Page
	if result.Total == 0 {
		return h.renderMenu(chatID, sess,
			h.bundle.Tr(sess.Locale, "account_list.empty"),
			emptyListKeyboard(h.bundle, sess.Locale), nil)
	}
	candidate := &result.Candidate.Account
	return h.renderMenu(chatID, sess,
		accountCard(candidate),
		candidateListKeyboard(h.bundle, sess.Locale, result), candidate.Image)
}

func (h *Handler) onShowTagList(ctx context.Context, chatID int64, sess *session.Session) error {
	acct, err := h.accounts.GetWithTags(ctx, chatID)
	if err != nil {
		return err
	}
	return h.renderTagList(ctx, chatID, sess, acct)
}

func (h *Handler) onToggleTag(ctx context.Context, chatID int64, sess *session.Session, tagID uint) error {
	acct, _, err := h.accounts.ToggleTag(ctx, chatID, tagID)
	if err != nil {
		return err
	}
	return h.renderTagList(ctx, chatID, sess, acct)
}

func (h *Handler) renderTagList(ctx context.Context, chatID int64, sess *session.Session, acct *db.Account) error {
	tags, err := h.accounts.ListTags(ctx)
	if err != nil {
		return err
	}
	selected := make(map[uint]bool, len(acct.Tags))
	for _, tag := range acct.Tags {
		selected[tag.ID] = true
	}
	sess.State = session.StateMenu
	return h.renderMenu(chatID, sess,
		h.bundle.Tr(sess.Locale, "account_tag_list.text"),
		tagListKeyboard(h.bundle, sess.Locale, tags, selected), nil)
}

func (h *Handler) onAskField(chatID int64, sess *session.Session, state session.State, promptKey string) error {
	sess.State = state
	return h.renderMenu(chatID, sess,
		h.bundle.Tr(sess.Locale, promptKey),
		dialogueKeyboard(h.bundle, sess.Locale), nil)
}

// renderMenu replaces the previous menu message with a fresh one. Deleting
// and resending sidesteps Telegram's restriction on editing between text
// and photo messages; the new message id becomes the menu guard.
func (h *Handler) renderMenu(chatID int64, sess *session.Session, text string, markup tgbotapi.InlineKeyboardMarkup, image []byte) error {
	if sess.MenuMessageID != 0 {
		h.deleteMessage(chatID, sess.MenuMessageID)
	}

	var (
		sent tgbotapi.Message
		err  error
	)
	if len(image) > 0 {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "profile", Bytes: image})
		photo.Caption = text
		photo.ParseMode = tgbotapi.ModeHTML
		photo.ReplyMarkup = markup
		sent, err = h.api.Send(photo)
	} else {
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.ReplyMarkup = markup
		sent, err = h.api.Send(msg)
	}
	if err != nil {
		return fmt.Errorf("failed to send menu: %w", err)
	}
	sess.MenuMessageID = sent.MessageID
	return nil
}

func emptyListKeyboard(b *i18n.Bundle, locale string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				b.Tr(locale, "general.button.back"),
				menuCallback("show_main_menu"),
			),
		),
	)
}

// downloadPhoto fetches the largest size of an inbound photo.
func (h *Handler) downloadPhoto(photos []tgbotapi.PhotoSize) ([]byte, error) {
	best := photos[len(photos)-1]
	url, err := h.api.GetFileDirectURL(best.FileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve photo url: %w", err)
	}
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download photo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download photo: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (h *Handler) loadSession(ctx context.Context, chatID int64) session.Session {
	sess, err := h.appCtx.Sessions.Get(ctx, chatID)
	if err != nil {
		h.log.Warn("failed to load session", "chat_id", chatID, "err", err)
	}
	return sess
}

func (h *Handler) saveSession(ctx context.Context, chatID int64, sess session.Session) {
	if err := h.appCtx.Sessions.Put(ctx, chatID, sess); err != nil {
		h.log.Error("failed to save session", "chat_id", chatID, "err", err)
	}
}

func (h *Handler) answer(callbackID, text string) {
	if _, err := h.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		h.log.Warn("failed to answer callback", "err", err)
	}
}

func (h *Handler) deleteMessage(chatID int64, messageID int) {
	if _, err := h.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		h.log.Debug("failed to delete message", "chat_id", chatID, "err", err)
	}
}
