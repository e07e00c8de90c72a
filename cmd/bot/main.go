package main

import (
	"github.com/agentflow/agentflow/internal/app"
)

func main() {
	app.InitDefaultLogger()
	cfg := app.MustReadBotEnv()
	app.MustInitApplicationLogger(cfg.Env)

	app.MustRunBot(cfg)
}
