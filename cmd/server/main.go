package main

import (
	"github.com/tomei-lab/tomei/internal/server"
	"github.com/tomei-lab/tomei/internal/util"
	"github.com/tomei-lab/tomei/pkg/logger"
	"github.com/tomei-lab/tomei/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
