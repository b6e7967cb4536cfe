package bot

import (
	"bytes"
	"context"
	"fmt"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sirupsen/logrus"

	"github.com/zenzer0s/crawlbase/internal/config"
	"github.com/zenzer0s/crawlbase/internal/scraper"
)

// Handler serves the Crawlbase APIs over Telegram.
type Handler struct {
	bot     *tgbot.Bot
	scraper scraper.Scraper
	log     logrus.FieldLogger
}

// NewHandler creates the Telegram bot and registers its commands.
func NewHandler(cfg config.Config, s scraper.Scraper, logger logrus.FieldLogger) (*Handler, error) {
	log := logger.WithField("component", "bot_handler")

	if cfg.TelegramBotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is not set")
	}

	h := &Handler{scraper: s, log: log}

	b, err := tgbot.New(cfg.TelegramBotToken, tgbot.WithDefaultHandler(h.handleUpdate))
	if err != nil {
		log.WithError(err).Error("Failed to create Telegram bot instance")
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	h.bot = b
	h.registerHandlers()

	log.Info("Telegram bot handler initialized")
	return h, nil
}

func (h *Handler) registerHandlers() {
	for _, cmd := range commands {
		h.bot.RegisterHandler(tgbot.HandlerTypeMessageText, cmd, tgbot.MatchTypePrefix, h.handleUpdate)
	}
	h.log.WithField("commands", commands).Info("Registered command handlers")
}

// Start polls Telegram until ctx is cancelled.
func (h *Handler) Start(ctx context.Context) {
	h.log.Info("Starting Telegram bot polling...")
	h.bot.Start(ctx)
	h.log.Info("Telegram bot polling stopped.")
}

func (h *Handler) handleUpdate(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	msg := update.Message
	log := h.log.WithFields(logrus.Fields{
		"user_id": msg.From.ID,
		"text":    msg.Text,
	})
	log.Debug("Received message")

	r := respond(ctx, h.scraper, msg.From.ID, msg.Text)
	if err := send(ctx, b, msg.Chat.ID, r); err != nil {
		log.WithError(err).Error("Failed to send reply")
	}
}

// send delivers a reply: a photo, a document, or plain text.
func send(ctx context.Context, b *tgbot.Bot, chatID int64, r reply) error {
	switch {
	case r.photo != nil:
		_, err := b.SendPhoto(ctx, &tgbot.SendPhotoParams{
			ChatID:  chatID,
			Photo:   &models.InputFileUpload{Filename: r.filename, Data: bytes.NewReader(r.photo)},
			Caption: r.text,
		})
		return err
	case r.document != nil:
		_, err := b.SendDocument(ctx, &tgbot.SendDocumentParams{
			ChatID:   chatID,
			Document: &models.InputFileUpload{Filename: r.filename, Data: bytes.NewReader(r.document)},
			Caption:  r.text,
		})
		return err
	default:
		_, err := b.SendMessage(ctx, &tgbot.SendMessageParams{
			ChatID: chatID,
			Text:   r.text,
		})
		return err
	}
}
