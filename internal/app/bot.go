package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/agentflow/agentflow/internal/classifier"
	"github.com/agentflow/agentflow/internal/config"
	"github.com/agentflow/agentflow/internal/delivery/telegram"
	"github.com/agentflow/agentflow/pkg/client"
)

// MustRunBot connects to Telegram and polls for
// updates until SIGINT or SIGTERM.
func MustRunBot(cfg *config.BotConfig) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to connect to telegram")
		panic(err)
	}
	globalLogger.Info().
		Str("username", api.Self.UserName).
		Msg("connected to telegram")

	bot := telegram.NewBot(
		globalLogger,
		api,
		client.New(cfg.APIURL),
		classifier.NewKeywordClassifier(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		cancel()
	}()

	bot.Run(ctx, cfg.PollTimeout)
}
