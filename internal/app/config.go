package app

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/agentflow/agentflow/internal/config"
)

func MustReadEnv() {
	cfg, err := config.NewEnvReader().Read()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to read env")
		panic(err)
	}
	globalLogger.Info().
		Str("env", cfg.Env).
		Msg("read env")

	config.SetGlobal(cfg)
}

func MustReadBotEnv() *config.BotConfig {
	cfg, err := config.ReadBotEnv()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to read bot env")
		panic(err)
	}
	globalLogger.Info().
		Str("env", cfg.Env).
		Str("api_url", cfg.APIURL).
		Msg("read bot env")

	return cfg
}
