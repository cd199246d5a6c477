package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/paulocilasjr/translate-file-docx/internal/cli"
	"github.com/paulocilasjr/translate-file-docx/internal/logger"
)

// Version information, set at build time.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	log := logger.NewLogger(false)
	defer func() {
		_ = log.Sync()
	}()

	rootCmd := cli.NewRootCommand(Version, Commit, BuildDate)
	if err := rootCmd.Execute(); err != nil {
		log.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}
