package main

import (
	"github.com/planetdetroit/civic/internal/server"
	"github.com/planetdetroit/civic/internal/util"
	"github.com/planetdetroit/civic/pkg/logger"
	"github.com/planetdetroit/civic/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug:  debug,
		Format: util.GetEnvString("LOG_FORMAT", "text"),
		Prefix: "civic",
	})
	logger.Init(consoleLogger)

	server.Init()
}
