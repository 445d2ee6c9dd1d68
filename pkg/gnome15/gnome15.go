// Package gnome15 renders profiles for the Gnome15 profile editor
// (https://projects.russo79.com/projects/gnome15).
package gnome15

import (
	"archive/zip"
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	g13 "github.com/achilleas-k/g13-profile-converter/pkg"
)

const (
	// ArchiveExtension is the extension of Gnome15 profile archives
	ArchiveExtension = ".mzip"

	// MacrosExtension is the extension of the profile entry inside the archive
	MacrosExtension = ".macros"
)

// Layers that Gnome15 expects to exist, even if they're empty
var placeholderSections = []string{"m1-1", "m2-1", "m3-1", "m1-2", "m2-2", "m3-2"}

// Render writes the .macros text for a profile
func Render(w io.Writer, name, author string, banks g13.BankAssignment) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "[DEFAULT]\n")
	fmt.Fprintf(bw, "name = %s\n", name)
	fmt.Fprintf(bw, "version = 1.0\n")
	fmt.Fprintf(bw, "icon = \n")
	fmt.Fprintf(bw, "window_name =\n")
	fmt.Fprintf(bw, "base_profile = \n")
	fmt.Fprintf(bw, "background = \n")
	fmt.Fprintf(bw, "author = %s\n", author)
	fmt.Fprintf(bw, "activate_on_focus = False\n")
	fmt.Fprintf(bw, "plugins_mode = all\n")
	fmt.Fprintf(bw, "selected_plugins = ,profiles,menu\n")
	fmt.Fprintf(bw, "send_delays = True\n")
	fmt.Fprintf(bw, "fixed_delays = False\n")
	fmt.Fprintf(bw, "press_delay = 50\n")
	fmt.Fprintf(bw, "release_delay = 50\n")
	fmt.Fprintf(bw, "models = g13\n")

	for _, bank := range g13.Banks {
		fmt.Fprintf(bw, "[%s]\n", bank)

		slots := banks.Bank(bank)
		for _, slot := range slots.Slots() {
			b, _ := slots.Get(slot)
			fmt.Fprintf(bw, "keys_%s_name = %s\n", slot, b.Name)
			fmt.Fprintf(bw, "keys_%s_type = %s\n", slot, b.Type)
			fmt.Fprintf(bw, "keys_%s_maptype = %s\n", slot, b.MapType)
			fmt.Fprintf(bw, "keys_%s_mappedkey = %s\n", slot, b.Key)
		}
		fmt.Fprintf(bw, "\n")
	}

	for _, section := range placeholderSections {
		fmt.Fprintf(bw, "\n[%s]\n", section)
	}
	fmt.Fprintf(bw, "\n\n")

	return bw.Flush()
}

// EntryName returns the name of the .macros entry for an archive at path
func EntryName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + MacrosExtension
}

// WriteArchive renders a profile and saves it as a single-entry .mzip
// archive at path
func WriteArchive(path, author string, c g13.Converted) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	archive := zip.NewWriter(f)

	writer, err := archive.Create(EntryName(path))
	if err != nil {
		return errors.Wrapf(err, "error creating %s", path)
	}

	if err := Render(writer, c.Profile.Name, author, c.Banks); err != nil {
		return errors.Wrapf(err, "error writing %s", path)
	}

	if err := archive.Close(); err != nil {
		return errors.Wrapf(err, "error finalising %s", path)
	}

	return f.Close()
}
