package targetdep

import (
	"github.com/qiniu/x/log"
)

// Options configures Build. The zero value runs the real cargo and
// announces on stdout.
type Options struct {
	Runner    Runner
	Announcer Announcer
}

// Build runs cargo for req and then relocates its output. Relocation only
// starts after cargo exits successfully. Every error is fatal to the
// invocation; partial results are returned alongside a relocation error.
//
// Two concurrent Builds whose requests map to the same isolated dir race;
// callers must give them distinct outputs or names.
func Build(cfg *Config, req Request, opts Options) ([]Outcome, error) {
	inv, err := NewInvoker(cfg, opts.Runner)
	if err != nil {
		return nil, err
	}
	req, isolated, err := inv.Invoke(req)
	if err != nil {
		return nil, err
	}

	rel := &Relocator{Announcer: opts.Announcer}
	outcomes, err := rel.Relocate(isolated, req.ProfileName(), req.Target, req.Output, req.Mode)
	if err != nil {
		return outcomes, err
	}
	log.Infof("targetdep: built %s into %s", req.Manifest, req.Output)
	return outcomes, nil
}
