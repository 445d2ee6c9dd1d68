package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	clierrors "github.com/achilleas-k/g13-profile-converter/internal/cli-plumbing/errors"
	"github.com/achilleas-k/g13-profile-converter/internal/destination"
	g13 "github.com/achilleas-k/g13-profile-converter/pkg"
	"github.com/achilleas-k/g13-profile-converter/pkg/bind"
	"github.com/achilleas-k/g13-profile-converter/pkg/gnome15"
)

const (
	formatMzip = "mzip"
	formatBind = "bind"
)

type converter struct {
	Format     string
	OutputFile string
	Keydef     string
	Author     string
	Policy     destination.Policy
	Stdout     io.Writer
	Log        zerolog.Logger
}

// outputFilename derives the output path from the input file's base name,
// unless one was given explicitly
func outputFilename(input, format, explicit string) string {
	if explicit != "" {
		return explicit
	}
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "." + format
}

func (c converter) Convert(args []string) error {
	if len(args) == 0 {
		return clierrors.WithExitCode(g13.ErrMissingArgument, 2)
	}
	filename := args[0]

	if c.Format != formatMzip && c.Format != formatBind {
		return clierrors.WithExitCode(errors.Wrapf(g13.ErrInvalidFormat, "format '%s'", c.Format), 2)
	}

	keys, err := g13.LoadKeyTable(c.Keydef, c.Log)
	if err != nil {
		if errors.Is(err, g13.ErrMissingResource) {
			return clierrors.WithExitCode(err, 2)
		}
		return err
	}
	c.Log.Debug().Int("keys", keys.Len()).Str("keydef", c.Keydef).Msg("loaded keydef")

	profile, err := g13.ImportProfile(filename)
	if err != nil {
		return errors.WithMessagef(err, "cannot read profile %s", filename)
	}

	merger := g13.Merger{Keys: keys, Log: c.Log}
	converted := merger.Convert(profile)
	if n := len(converted.Warnings); n > 0 {
		c.Log.Info().Int("dropped", n).Msg("some assignments refer to missing macros")
	}

	dest, err := c.Policy.Resolve(outputFilename(filename, c.Format, c.OutputFile))
	if err != nil {
		return err
	}

	switch c.Format {
	case formatMzip:
		fmt.Fprintf(c.Stdout, "Writing Gnome15 .mzip file ...\n")
		err = gnome15.WriteArchive(dest, c.Author, converted)
	case formatBind:
		fmt.Fprintf(c.Stdout, "Writing ecraven .bind file ...\n")
		err = bind.WriteFile(dest, converted)
	}
	if err != nil {
		return errors.WithMessagef(err, "cannot write %s", dest)
	}

	fmt.Fprintf(c.Stdout, "Profile written to \"%s\"\n", dest)
	return nil
}
