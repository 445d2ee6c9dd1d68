// Package bind renders profiles as bind files for the ecraven userspace
// driver (https://github.com/ecraven/g13).
package bind

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	g13 "github.com/achilleas-k/g13-profile-converter/pkg"
)

// Extension is the extension of bind files
const Extension = ".bind"

var upper = cases.Upper(language.Und)

// A Line is one "bind" command
type Line struct {
	Slot string
	Key  string
}

func (l Line) String() string {
	return fmt.Sprintf("bind %s %s", upper.String(l.Slot), upper.String(l.Key))
}

// Flatten collapses all banks into a single list of bindings. The driver has
// no concept of banks, so every slot is bound once; a binding in m1 takes
// precedence over m2, and m2 over m3.
func Flatten(banks g13.BankAssignment) []Line {
	var rv []Line
	seen := make(map[string]bool)

	for _, bank := range g13.Banks {
		slots := banks.Bank(bank)
		for _, slot := range slots.Slots() {
			if seen[slot] {
				continue
			}
			seen[slot] = true

			b, _ := slots.Get(slot)
			rv = append(rv, Line{Slot: slot, Key: b.Key})
		}
	}

	return rv
}

// Render writes the bind file text. If the profile has a backlight colour, it
// is set first.
func Render(w io.Writer, banks g13.BankAssignment, backlight *g13.Backlight) error {
	bw := bufio.NewWriter(w)

	if r, g, b, ok := backlight.RGB(); ok {
		fmt.Fprintf(bw, "rgb %d %d %d\n", r, g, b)
	}

	for _, l := range Flatten(banks) {
		fmt.Fprintln(bw, l.String())
	}

	return bw.Flush()
}

// WriteFile renders a profile to a bind file at path
func WriteFile(path string, c g13.Converted) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := Render(f, c.Banks, c.Profile.Backlight); err != nil {
		return err
	}

	return f.Close()
}
