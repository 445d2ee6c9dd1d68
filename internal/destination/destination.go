// Package destination decides where output files may be written without
// clobbering existing files by accident.
package destination

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// A Policy decides what happens when an output file already exists
type Policy interface {
	// Resolve returns a path that may be written to. It may be the given
	// path, if overwriting was allowed.
	Resolve(path string) (string, error)
}

// A Prompter asks the user questions
type Prompter interface {
	// Confirm asks a yes/no question
	Confirm(question string) (bool, error)

	// Ask asks for a line of text
	Ask(question string) (string, error)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Force always allows overwriting
type Force struct{}

func (Force) Resolve(path string) (string, error) {
	return path, nil
}

// Prompt asks whether an existing file should be overwritten, and asks for a
// different filename otherwise. This repeats until the user either
// confirms, or picks a file that doesn't exist.
type Prompt struct {
	Prompter Prompter
}

func (p Prompt) Resolve(path string) (string, error) {
	for exists(path) {
		ok, err := p.Prompter.Confirm(fmt.Sprintf("\"%s\" already exists. Overwrite file", path))
		if err != nil {
			return "", errors.WithMessage(err, "no destination chosen")
		}
		if ok {
			return path, nil
		}

		path, err = p.Prompter.Ask("Enter new filename")
		if err != nil {
			return "", errors.WithMessage(err, "no destination chosen")
		}
	}

	return path, nil
}

// Rename picks a new filename by numbering, e.g. "foo-1.bind" if "foo.bind"
// exists.
type Rename struct {
	// The maximum number of candidates to try; 0 means 1000
	MaxAttempts int
}

func (r Rename) Resolve(path string) (string, error) {
	if !exists(path) {
		return path, nil
	}

	max := r.MaxAttempts
	if max <= 0 {
		max = 1000
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 1; i <= max; i++ {
		candidate := fmt.Sprintf("%s-%d%s", base, i, ext)
		if !exists(candidate) {
			return candidate, nil
		}
	}

	return "", errors.Errorf("no free filename found next to %s after %d attempts", path, max)
}

// ByName returns the policy for a -on_conflict setting
func ByName(name string, force bool, prompter Prompter) (Policy, error) {
	if force {
		return Force{}, nil
	}

	switch name {
	case "", "prompt":
		return Prompt{Prompter: prompter}, nil
	case "rename":
		return Rename{}, nil
	case "overwrite":
		return Force{}, nil
	}

	return nil, errors.Errorf("unknown conflict policy '%s'", name)
}
