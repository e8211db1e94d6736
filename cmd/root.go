package cmd

import (
	"os"

	"github.com/nguyentranbao-ct/shopping-search/internal/app"
	"github.com/nguyentranbao-ct/shopping-search/internal/kafka"
	"github.com/nguyentranbao-ct/shopping-search/internal/server"
	"github.com/nguyentranbao-ct/shopping-search/pkg/logger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "shopping-search",
	Short:         "Shopping search sessions backed by SerpAPI Google Shopping",
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		app.Invoke(
			server.StartServer,
			kafka.StartConsumeIdentityEvents,
		).Run()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.MustNamed("cmd").Errorw("command failed", "error", err)
		os.Exit(1)
	}
}
