package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	tc "github.com/thijzert/go-termcolours"

	clierrors "github.com/achilleas-k/g13-profile-converter/internal/cli-plumbing/errors"
	g13 "github.com/achilleas-k/g13-profile-converter/pkg"
)

var checkmark = "✓"

func init() {
	if runtime.GOOS == "windows" {
		checkmark = "Y"
	}
}

func check_main(args []string, log zerolog.Logger) error {
	if len(args) == 0 {
		return clierrors.WithExitCode(g13.ErrMissingArgument, 2)
	}

	keys, err := g13.LoadKeyTable(Config.Keydef, log)
	if err != nil {
		return clierrors.WithExitCode(err, 2)
	}

	if checkProfiles(os.Stdout, keys, args) > 0 {
		return clierrors.WithExitCode(errors.New("problems found"), 1)
	}
	return nil
}

// checkProfiles prints a report of every binding in each profile, and
// returns the number of problems found
func checkProfiles(w io.Writer, keys g13.KeyTable, filenames []string) int {
	problems := 0

	for _, win := range keys.Unknown() {
		linux, _ := keys.Lookup(win)
		fmt.Fprintf(w, "keydef: %s maps to %s, which is not a Linux key name\n", win, tc.Yellow(linux))
	}

	merger := g13.Merger{Keys: keys, Log: zerolog.Nop()}
	for _, filename := range filenames {
		profile, err := g13.ImportProfile(filename)
		if err != nil {
			problems++
			fmt.Fprintf(w, "%s: %s\n", filename, tc.Red(err.Error()))
			continue
		}

		c := merger.Convert(profile)
		fmt.Fprintf(w, "%s: profile %s (%s)\n", filename, tc.Bwhite(profile.Name), profile.ID)

		for _, bank := range g13.Banks {
			slots := c.Banks.Bank(bank)
			for _, slot := range slots.Slots() {
				b, _ := slots.Get(slot)
				fmt.Fprintf(w, "  %s %-4s %-24s %-20s %s\n", bank, slot, b.Name, b.Key, bindingStatus(b))
			}
		}

		for _, u := range c.Warnings {
			problems++
			fmt.Fprintf(w, "  %s\n", tc.Red(u.Error()))
		}
	}

	return problems
}

func bindingStatus(b g13.Binding) string {
	if !g13.IsLinuxKey(b.Key) {
		return tc.Red("unknown key")
	}
	if !b.Translated {
		return tc.Yellow("not in keydef")
	}
	return tc.Green(checkmark)
}
