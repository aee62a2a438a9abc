package internal

import (
	"os"

	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"

	"github.com/goplus/targetdep/internal/env"
)

var (
	rootVerbose bool
	rootEnvFile string
)

var rootCmd = &cobra.Command{
	Use:   "targetdep",
	Short: "targetdep builds cargo packages as dependencies of a parent build",
	Long: `targetdep runs cargo build for a sub-package in an isolated target dir,
moves the produced artifact to where the parent build expects it and prints
cargo:rerun-if-changed directives for every source the artifact depends on.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if rootVerbose {
			log.SetOutputLevel(log.Ldebug)
		} else {
			log.SetOutputLevel(log.Linfo)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&rootEnvFile, "env-file", "", "Dotenv file supplying CARGO, OUT_DIR and CARGO_MANIFEST_DIR")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*env.Config, error) {
	if rootEnvFile != "" {
		return env.LoadFile(rootEnvFile)
	}
	return env.FromEnviron()
}
