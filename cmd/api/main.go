package main

import (
	"github.com/agentflow/agentflow/internal/app"
	"github.com/agentflow/agentflow/internal/config"
)

func main() {
	app.InitDefaultLogger()
	app.MustReadEnv()
	app.MustInitApplicationLogger(config.Global().Env)

	app.MustConnectPostgres()
	defer app.DisconnectPostgres()
	app.MustMigratePostgres()

	app.MustListenAndServeHTTP()
}
