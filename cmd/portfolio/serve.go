package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/derekaspaulding/portfolio"
	"github.com/derekaspaulding/portfolio/views"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Start the web server",
	Long: `Start the web server and block until SIGINT or SIGTERM, then shut down
gracefully.

Examples:
  portfolio serve
  portfolio serve --addr :8080 --metrics
  portfolio serve --watch --live   # reload browsers when posts change`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default :3000)")
	serveCmd.Flags().Bool("watch", false, "reload posts when files under the content dir change")
	serveCmd.Flags().Bool("live", false, "push page reloads to open browsers (development)")
	serveCmd.Flags().Bool("metrics", false, "serve Prometheus metrics on /metrics")

	_ = viper.BindPFlag(keyServerAddr, serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag(keyWatch, serveCmd.Flags().Lookup("watch"))
	_ = viper.BindPFlag(keyLiveReload, serveCmd.Flags().Lookup("live"))
	_ = viper.BindPFlag(keyMetrics, serveCmd.Flags().Lookup("metrics"))
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := portfolio.New(loadSiteConfig(viper.GetViper()), views.Default())
	defer app.Close()

	return app.Start(ctx)
}
