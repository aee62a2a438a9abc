package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goplus/targetdep/pkgs/depfile"
	"github.com/goplus/targetdep/pkgs/targetdep"
)

var depsRerun bool

var depsCmd = &cobra.Command{
	Use:   "deps <file.d>",
	Short: "Print the output and prerequisites of a dependency file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeps,
}

func init() {
	depsCmd.Flags().BoolVar(&depsRerun, "rerun", false, "Print prerequisites as cargo:rerun-if-changed directives")
	rootCmd.AddCommand(depsCmd)
}

func runDeps(cmd *cobra.Command, args []string) error {
	rule, err := depfile.Parse(args[0], nil)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if depsRerun {
		ann := targetdep.NewAnnouncer(out)
		for _, p := range rule.Prereqs {
			if err := ann.RerunIfChanged(p); err != nil {
				return err
			}
		}
		return nil
	}
	fmt.Fprintln(out, rule.Output)
	for _, p := range rule.Prereqs {
		fmt.Fprintf(out, "\t%s\n", p)
	}
	return nil
}
