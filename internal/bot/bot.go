// Package bot is the Telegram transport: long polling, per-chat ordered
// dispatch, menu rendering and notifications.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/desmitry/urfu-teamfinder/internal/app"
	"github.com/desmitry/urfu-teamfinder/internal/config"
	"github.com/desmitry/urfu-teamfinder/internal/i18n"
)

// Bot runs the long-polling loop and fans updates out to per-chat workers,
// so actions within one conversation are handled strictly in arrival order
// while different conversations proceed concurrently.
type Bot struct {
	api     *tgbotapi.BotAPI
	handler *Handler
	cfg     *config.Config
	log     *slog.Logger

	mu     sync.Mutex
	queues map[int64]chan tgbotapi.Update
	wg     sync.WaitGroup
}

// New connects to the Telegram API and wires the handler stack.
func New(cfg *config.Config, appCtx *app.AppContext, bundle *i18n.Bundle) (*Bot, error) {
	if cfg.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is not configured")
	}
	api, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	api.Debug = cfg.Bot.Debug

	return &Bot{
		api:     api,
		handler: NewHandler(api, appCtx, bundle),
		cfg:     cfg,
		log:     appCtx.Logger,
		queues:  make(map[int64]chan tgbotapi.Update),
	}, nil
}

// Username returns the authorized bot account name.
func (b *Bot) Username() string { return b.api.Self.UserName }

// Run polls for updates until ctx is canceled, then waits for in-flight
// handlers to finish.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.Bot.PollTimeout
	u.AllowedUpdates = []string{"message", "callback_query", "my_chat_member"}

	updates := b.api.GetUpdatesChan(u)
	b.log.Info("bot started", "username", b.Username())

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.wg.Wait()
			b.log.Info("bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				b.wg.Wait()
				return nil
			}
			b.dispatch(ctx, update)
		}
	}
}

// dispatch routes an update to its chat's worker, spawning one on first
// contact. Workers live until shutdown; the per-chat footprint is one
// goroutine and a small buffered channel.
func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	chatID := updateChatID(update)
	if chatID == 0 {
		return
	}

	b.mu.Lock()
	queue, ok := b.queues[chatID]
	if !ok {
		queue = make(chan tgbotapi.Update, 16)
		b.queues[chatID] = queue
		b.wg.Add(1)
		go b.worker(ctx, queue)
	}
	b.mu.Unlock()

	select {
	case queue <- update:
	default:
		b.log.Warn("chat queue full, dropping update", "chat_id", chatID)
	}
}

func (b *Bot) worker(ctx context.Context, queue <-chan tgbotapi.Update) {
	defer b.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case update := <-queue:
			b.handler.HandleUpdate(ctx, update)
		}
	}
}

func updateChatID(update tgbotapi.Update) int64 {
	switch {
	case update.Message != nil:
		return update.Message.Chat.ID
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		return update.CallbackQuery.Message.Chat.ID
	case update.MyChatMember != nil:
		return update.MyChatMember.Chat.ID
	default:
		return 0
	}
}
