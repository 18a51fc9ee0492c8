package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/romizzidiamly/vocabmaster/internal/logger"
	"github.com/romizzidiamly/vocabmaster/internal/recall"
)

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates an inline keyboard with the given buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// sender is the part of the Telegram API the bot talks to
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Bot is the Telegram front-end over the recall engine.
// Every chat gets its own session keyed by the chat id.
type Bot struct {
	api    sender
	botAPI *tgbotapi.BotAPI
	cfg    *BotConfig
	engine *recall.Engine
	log    *logger.Logger
	http   *http.Client

	handling sync.WaitGroup
}

// New connects to Telegram with the configured token
func New(cfg *BotConfig, engine *recall.Engine, log *logger.Logger) (*Bot, error) {
	if cfg == nil || cfg.Token == "" {
		return nil, errors.New("TELEGRAM_BOT_TOKEN is not set")
	}
	botAPI, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %w", err)
	}

	b := newBot(cfg, engine, botAPI, log)
	b.botAPI = botAPI
	b.log.Info("authorized on account", "username", botAPI.Self.UserName)
	return b, nil
}

func newBot(cfg *BotConfig, engine *recall.Engine, api sender, log *logger.Logger) *Bot {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Bot{
		api:    api,
		cfg:    cfg,
		engine: engine,
		log:    log.With("component", "bot"),
		http:   &http.Client{Timeout: cfg.DownloadTimeout},
	}
}

// Start polls for updates until ctx is canceled or Stop is called
func (b *Bot) Start(ctx context.Context) error {
	if b.botAPI == nil {
		return errors.New("bot is not connected")
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = b.cfg.UpdateTimeout
	updates := b.botAPI.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handling.Add(1)
			go func() {
				defer b.handling.Done()
				b.handleUpdate(ctx, update)
			}()
		}
	}
}

// Stop stops polling and waits for running handlers
func (b *Bot) Stop() {
	if b.botAPI != nil {
		b.botAPI.StopReceivingUpdates()
	}
	b.handling.Wait()
}

func (b *Bot) isAdmin(chatID int64) bool {
	return b.cfg.AdminIDs[chatID]
}

func sessionKey(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}

func (b *Bot) session(chatID int64) *recall.Session {
	return b.engine.Session(sessionKey(chatID))
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("panic while handling update", "update_id", update.UpdateID, "panic", r)
		}
	}()

	switch {
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	if message.Document != nil {
		if !b.isAdmin(chatID) {
			b.reply(chatID, "Only administrators can upload spreadsheets.")
			return
		}
		b.handleDocument(ctx, message)
		return
	}

	if !message.IsCommand() {
		b.handleText(chatID, message.Text)
		return
	}

	args := message.CommandArguments()
	switch message.Command() {
	case "start", "help":
		b.handleStart(chatID)
	case "topics", "menu":
		b.showTopics(chatID)
	case "play":
		b.handlePlay(chatID, args)
	case "go":
		b.handleGo(chatID)
	case "guess":
		b.handleGuess(chatID, args)
	case "regen":
		b.handleRegen(chatID, args)
	case "card":
		b.handleCard(chatID, args)
	case "reset":
		b.handleReset(chatID)
	case "stats":
		b.handleStats(chatID)
	case "exit":
		b.handleExit(chatID)
	case "delete":
		if !b.isAdmin(chatID) {
			b.reply(chatID, "This command is only available for administrators.")
			return
		}
		b.handleDelete(chatID, args)
	default:
		b.replyWithMenu(chatID, "Unknown command. Use /help to see what I understand.")
	}
}

func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.log.Warn("failed to answer callback", "error", err)
	}
	if callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID

	if id, ok := strings.CutPrefix(callback.Data, topicPrefix); ok {
		b.selectTopic(chatID, id)
		return
	}

	switch callback.Data {
	case "topics":
		b.showTopics(chatID)
	case "go":
		b.handleGo(chatID)
	case "stats":
		b.handleStats(chatID)
	case "exit":
		b.handleExit(chatID)
	default:
		b.log.Debug("unknown callback", "data", callback.Data)
	}
}

// handleDocument imports an uploaded spreadsheet as a new topic
func (b *Bot) handleDocument(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	doc := message.Document

	if int64(doc.FileSize) > b.cfg.MaxFileBytes {
		b.reply(chatID, "❌ File is too large.")
		return
	}

	url, err := b.api.GetFileDirectURL(doc.FileID)
	if err != nil {
		b.log.Error("failed to resolve file url", "file_id", doc.FileID, "error", err)
		b.reply(chatID, "❌ Could not download the file.")
		return
	}

	data, err := b.download(ctx, url)
	if err != nil {
		b.log.Error("failed to download file", "file_id", doc.FileID, "error", err)
		b.reply(chatID, "❌ Could not download the file.")
		return
	}

	b.importSpreadsheet(chatID, doc.FileName, data)
}

func (b *Bot) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed with status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, b.cfg.MaxFileBytes))
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) replyWithMenu(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createKeyboard(mainMenuButtons())
	b.send(msg)
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.log.Warn("failed to send message", "error", err)
	}
}

func mainMenuButtons() [][]MenuButton {
	return [][]MenuButton{
		{{Text: "📚 Topics", CallbackData: "topics"}},
		{{Text: "📊 Statistics", CallbackData: "stats"}},
	}
}
