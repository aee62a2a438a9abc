package targetdep

import (
	"io"
	"maps"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/qiniu/x/log"

	"github.com/goplus/targetdep/internal/env"
)

// Config is the build environment a build script runs in.
type Config = env.Config

// ConfigFromEnviron reads CARGO, OUT_DIR and CARGO_MANIFEST_DIR from the
// process environment.
func ConfigFromEnviron() (*Config, error) {
	return env.FromEnviron()
}

// Runner runs an external command to completion.
type Runner interface {
	Run(bin string, args []string, env map[string]string) error
}

// ExecRunner runs commands with os/exec. Nil writers default to os.Stderr:
// a build script's stdout is reserved for cargo directives.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (r ExecRunner) Run(bin string, args []string, env map[string]string) error {
	cmd := exec.Command(bin, args...)
	cmd.Stdout = orStderr(r.Stdout)
	cmd.Stderr = orStderr(r.Stderr)
	if len(env) > 0 {
		cmd.Env = mergeEnv(os.Environ(), env)
	}
	return cmd.Run()
}

func orStderr(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// mergeEnv returns base with the keys of override replaced. Entries of base
// keep their order; override keys are appended sorted.
func mergeEnv(base []string, override map[string]string) []string {
	if len(override) == 0 {
		return base
	}
	out := make([]string, 0, len(base)+len(override))
	for _, kv := range base {
		k, _, _ := strings.Cut(kv, "=")
		if _, ok := override[k]; !ok {
			out = append(out, kv)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(override)) {
		out = append(out, k+"="+override[k])
	}
	return out
}

// Invoker runs cargo build for a Request inside its isolated target dir.
type Invoker struct {
	cfg    *env.Config
	runner Runner
}

// NewInvoker returns an Invoker for cfg. A nil runner means ExecRunner{}.
func NewInvoker(cfg *env.Config, runner Runner) (*Invoker, error) {
	if cfg == nil {
		return nil, &ConfigError{Key: env.KeyCargo}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Invoker{cfg: cfg, runner: runner}, nil
}

// Args returns the cargo arguments for a resolved request.
func (i *Invoker) Args(req Request) []string {
	args := []string{
		"build",
		"--manifest-path", req.Manifest,
		"--profile", cargoProfile(req.ProfileName()),
		"--target-dir", IsolatedDir(i.cfg, req),
	}
	if req.Target != "" {
		args = append(args, "--target", req.Target)
	}
	return args
}

// cargoProfile maps an output dir profile name to the name cargo accepts on
// the command line: the debug dir belongs to the dev profile.
func cargoProfile(profile string) string {
	if profile == Debug {
		return "dev"
	}
	return profile
}

// Invoke resolves req, runs cargo and returns the resolved request along
// with its isolated target dir.
// It blocks until cargo exits.
func (i *Invoker) Invoke(req Request) (Request, string, error) {
	req, err := req.Resolve(i.cfg)
	if err != nil {
		return req, "", err
	}
	dir := IsolatedDir(i.cfg, req)
	args := i.Args(req)
	log.Debugf("targetdep: %s %s", i.cfg.Cargo, strings.Join(args, " "))

	if err := i.runner.Run(i.cfg.Cargo, args, req.Env); err != nil {
		return req, "", &BuildError{Manifest: req.Manifest, Err: err}
	}
	return req, dir, nil
}
