// Command autofill looks up CEPs and CNPJs and fills HTML forms from the
// command line, using the same lookups and form controllers as the API.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/nexconsult/autofill-api/internal/config"
	"github.com/nexconsult/autofill-api/internal/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	timeout time.Duration

	cfg *config.Config
	log *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "autofill",
	Short: "CEP and CNPJ lookups and HTML form autofill",
	Long: `autofill resolves Brazilian postal codes (CEP) and company registrations
(CNPJ) against the configured providers, and fills HTML forms the way the
browser scripts do: masking, lookup on blur, field writes and feedback.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		log = logger.NewWithOutput(level, "text", cmd.ErrOrStderr())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", time.Minute, "Operation timeout")

	rootCmd.AddCommand(cepCmd)
	rootCmd.AddCommand(cnpjCmd)
	rootCmd.AddCommand(fillCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
