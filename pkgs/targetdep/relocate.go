package targetdep

import (
	"os"
	"path/filepath"

	"github.com/qiniu/x/log"

	"github.com/goplus/targetdep/pkgs/depfile"
)

const depPattern = "*.d"

// Outcome is the result of processing one dependency file.
type Outcome struct {
	Descriptor string   // dependency file that was read
	Artifact   string   // final location of the output
	Prereqs    []string // announced prerequisites, in file order
}

// OutputDir returns where cargo puts the outputs of profile, optionally
// cross-compiled for target, inside the target dir isolated.
func OutputDir(isolated, profile, target string) string {
	dir := isolated
	if target != "" {
		dir = filepath.Join(dir, target)
	}
	return filepath.Join(dir, profile)
}

// Relocator moves build outputs into place and announces their
// prerequisites.
type Relocator struct {
	Announcer Announcer // defaults to Stdout()
}

// Relocate processes every dependency file in the output dir of profile
// and target under isolated.
//
// Each dependency file is assumed to describe the single artifact of the
// build: every file found is moved to dest in turn, so a sub-build with
// several outputs ends with whichever was processed last. Only the first
// line of each file is read. The destination directory is only created
// once an output is about to be moved. Nothing is rolled back on failure.
func (r *Relocator) Relocate(isolated, profile, target, dest string, mode Mode) ([]Outcome, error) {
	ann := r.Announcer
	if ann == nil {
		ann = Stdout()
	}

	outDir := OutputDir(isolated, profile, target)
	files, err := findDepFiles(outDir)
	if err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, 0, len(files))
	for _, file := range files {
		rule, err := depfile.Parse(file, nil)
		if err != nil {
			return outcomes, err
		}

		dst := dest
		if mode == Dir {
			dst = filepath.Join(dest, filepath.Base(rule.Output))
		}
		if err := prepareDest(dest, mode); err != nil {
			return outcomes, err
		}
		if err := os.Rename(rule.Output, dst); err != nil {
			return outcomes, &IOError{Op: "rename", Src: rule.Output, Dst: dst, Err: err}
		}
		log.Debugf("targetdep: moved %s to %s", rule.Output, dst)

		for _, p := range rule.Prereqs {
			if err := ann.RerunIfChanged(p); err != nil {
				return outcomes, &IOError{Op: "announce", Dst: p, Err: err}
			}
		}
		outcomes = append(outcomes, Outcome{
			Descriptor: file,
			Artifact:   dst,
			Prereqs:    rule.Prereqs,
		})
	}
	return outcomes, nil
}

// prepareDest creates dest in Dir mode, or the parent of dest in File mode.
func prepareDest(dest string, mode Mode) error {
	dir := dest
	if mode != Dir {
		dir = filepath.Dir(dest)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &IOError{Op: "mkdir", Dst: dir, Err: err}
	}
	return nil
}

// findDepFiles lists the dependency files in dir in lexical order.
func findDepFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &DiscoveryError{Dir: dir, Err: err}
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ok, _ := filepath.Match(depPattern, e.Name()); ok {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, &DiscoveryError{Dir: dir}
	}
	return files, nil
}
