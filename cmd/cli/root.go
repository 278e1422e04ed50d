package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "review-council",
	Short: "review-council runs a panel of AI review personas over a code unit.",
	Long: `A CLI that submits one code unit to multiple independent review personas
(e.g. a quality specialist and a bug hunter), runs them concurrently, and
aggregates their findings into a single deterministic report.`,
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	cobra.OnInitialize(initConfig)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix("RC")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}
