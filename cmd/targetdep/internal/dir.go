package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goplus/targetdep/pkgs/targetdep"
)

var dirName string

var dirCmd = &cobra.Command{
	Use:   "dir <output>",
	Short: "Print the isolated target dir used for an output",
	Args:  cobra.ExactArgs(1),
	RunE:  runDir,
}

func init() {
	dirCmd.Flags().StringVar(&dirName, "name", "", "Explicit isolated target dir name")
	rootCmd.AddCommand(dirCmd)
}

func runDir(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// The manifest is irrelevant to the dir name but required to resolve.
	req, err := targetdep.New(".", args[0]).WithName(dirName).Resolve(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), targetdep.IsolatedDir(cfg, req))
	return nil
}
