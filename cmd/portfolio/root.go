package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Personal site with a blog and a contact form",
	Long: `portfolio serves an about page, a markdown blog and a contact page
whose submissions land in the built-in inbox.

Configuration is read from portfolio.yml, then PORTFOLIO_* environment
variables (PORTFOLIO_SITE_URL, PORTFOLIO_ADMIN_PASSWORD, ...), then flags.
A .env file in the working directory is loaded first when present.

Examples:
  portfolio serve --watch
  portfolio posts --format yaml
  portfolio contact --name Ada --email ada@example.com --message "Hi"`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./portfolio.yml, or PORTFOLIO_CONFIG_FILE)")
}

func initConfig() {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if env := os.Getenv("PORTFOLIO_CONFIG_FILE"); env != "" {
		viper.SetConfigFile(env)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("portfolio")
	}

	viper.SetEnvPrefix("PORTFOLIO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())
	bindLegacyEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
