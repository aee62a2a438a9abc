package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goplus/targetdep/internal/plan"
	"github.com/goplus/targetdep/pkgs/targetdep"
)

var (
	buildRelease  bool
	buildProfile  string
	buildTarget   string
	buildIntoDir  bool
	buildName     string
	buildManifest string
	buildPlan     string
)

// buildRunner runs cargo; nil means the real one.
var buildRunner targetdep.Runner

var buildCmd = &cobra.Command{
	Use:   "build [package-root output]",
	Short: "Build a cargo package and move its output into place",
	Long: `Build runs cargo build for the package rooted at package-root and moves the
produced artifact to output. With --plan, every dep listed in the plan file is
built in order and the first failure stops the run.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if buildPlan != "" {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(2)(cmd, args)
	},
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().BoolVar(&buildRelease, "release", false, "Build with the release profile")
	buildCmd.Flags().StringVar(&buildProfile, "profile", "", "Build with the named cargo profile")
	buildCmd.Flags().StringVar(&buildTarget, "target", "", "Cross-compile for the given target triple")
	buildCmd.Flags().BoolVar(&buildIntoDir, "into-dir", false, "Treat output as a directory and keep the artifact's file name")
	buildCmd.Flags().StringVar(&buildName, "name", "", "Name of the isolated target dir (default: derived from output)")
	buildCmd.Flags().StringVar(&buildManifest, "manifest", "", "Path to Cargo.toml (default: <package-root>/Cargo.toml)")
	buildCmd.Flags().StringVar(&buildPlan, "plan", "", "YAML plan file listing deps to build")
	buildCmd.MarkFlagsMutuallyExclusive("release", "profile")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var reqs []targetdep.Request
	if buildPlan != "" {
		p, err := plan.Parse(buildPlan, nil)
		if err != nil {
			return err
		}
		for _, e := range p.Deps {
			reqs = append(reqs, e.Request())
		}
	} else {
		reqs = append(reqs, requestFromFlags(args[0], args[1]))
	}

	opts := targetdep.Options{
		Runner:    buildRunner,
		Announcer: targetdep.NewAnnouncer(cmd.OutOrStdout()),
	}
	for _, req := range reqs {
		if _, err := targetdep.Build(cfg, req, opts); err != nil {
			return fmt.Errorf("failed to build %s: %w", req.Manifest, err)
		}
	}
	return nil
}

func requestFromFlags(packageRoot, output string) targetdep.Request {
	req := targetdep.New(packageRoot, output)
	if buildManifest != "" {
		req.Manifest = buildManifest
	}
	switch {
	case buildRelease:
		req = req.Release()
	case buildProfile != "":
		req = req.WithProfile(buildProfile)
	}
	if buildTarget != "" {
		req = req.WithTarget(buildTarget)
	}
	if buildIntoDir {
		req = req.IntoDir()
	}
	if buildName != "" {
		req = req.WithName(buildName)
	}
	return req
}
