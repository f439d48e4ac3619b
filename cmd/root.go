package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"supply-chain-security/config"
)

var rootCmd = &cobra.Command{
	Use:           "supply-chain-security",
	Short:         "this is a security utilty tool for dependabot alerts",
	Long:          "A CLI-tool to list the dependabot alerts of a GitHub repository and rate the risk they carry",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Oops. An error while executing the tool '%s'\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("logLevel", "l", "info", "Set the log level. Options: debug, info, warn, error")
	rootCmd.PersistentFlags().String("apiUrl", config.GithubApiBaseUrl, "GitHub API base url")
	rootCmd.PersistentFlags().StringP("url", "u", "", "GitHub repository URL")
	rootCmd.PersistentFlags().String("owner", "", "Repository owner, used when --url is not set")
	rootCmd.PersistentFlags().String("repo", "", "Repository name, used when --url is not set")
}

func initLogger(level slog.Leveler) {
	w := os.Stderr

	slog.SetDefault(slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}),
	))
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func initializeConfig(cmd *cobra.Command) error {
	// a missing .env file is fine
	_ = godotenv.Load()

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	// the token keeps its established name
	if err := viper.BindEnv("token", "GITHUB_ACCESS_TOKEN"); err != nil {
		return err
	}

	bindFlags(cmd)
	initLogger(parseLogLevel(viper.GetString("logLevel")))
	return nil
}

// Bind each cobra flag to its viper key, so values can also come from the
// environment.
func bindFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		configName := f.Name

		// Apply the viper config value to the flag when the flag is not set and viper has a value
		if !f.Changed && viper.IsSet(configName) {
			val := viper.Get(configName)
			cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)) // nolint: errcheck
		}

		if err := viper.BindPFlag(configName, f); err != nil {
			slog.Error("could not bind flag to viper", "err", err)
		}
	})
}
