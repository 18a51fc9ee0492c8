package bot

import (
	"time"

	"github.com/romizzidiamly/vocabmaster/internal/config"
)

// BotConfig represents the configuration for the bot
type BotConfig struct {
	Token string
	// Chats allowed to upload spreadsheets
	AdminIDs map[int64]bool
	// Long-poll timeout in seconds
	UpdateTimeout int
	// Largest spreadsheet accepted from a chat
	MaxFileBytes int64
	// Time allowed for downloading an uploaded file
	DownloadTimeout time.Duration
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		AdminIDs:        map[int64]bool{},
		UpdateTimeout:   60,
		MaxFileBytes:    10 << 20,
		DownloadTimeout: 30 * time.Second,
	}
}

// ConfigFrom fills the defaults with the application's Telegram settings
func ConfigFrom(tg config.TelegramConfig, maxUpload int64) *BotConfig {
	cfg := DefaultConfig()
	cfg.Token = tg.Token
	cfg.AdminIDs = tg.AdminIDs()
	if maxUpload > 0 {
		cfg.MaxFileBytes = maxUpload
	}
	return cfg
}
