package main

import (
	"flag"
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/thijzert/go-rcfile"
	tc "github.com/thijzert/go-termcolours"

	clierrors "github.com/achilleas-k/g13-profile-converter/internal/cli-plumbing/errors"
	"github.com/achilleas-k/g13-profile-converter/internal/destination"
)

var Config = struct {
	Format     string
	Force      bool
	OutputFile string
	Keydef     string
	Verbose    bool
	OnConflict string
	Author     string
}{}

func init() {
	flag.StringVar(&Config.Format, "format", "mzip", "Output format: valid values are \"mzip\" and \"bind\"")

	flag.BoolVar(&Config.Force, "force", false, "Force overwrite: overwrite destination file without asking")
	flag.BoolVar(&Config.Force, "f", false, "Shorthand for -force")

	flag.StringVar(&Config.OutputFile, "output", "", "Output file (defaults to input file basename with appropriate extension)")
	flag.StringVar(&Config.OutputFile, "o", "", "Shorthand for -output")

	flag.StringVar(&Config.Keydef, "keydef", "keydef.cfg", "Mappings from the Windows XML key names to the corresponding Linux key names")
	flag.StringVar(&Config.Keydef, "k", "keydef.cfg", "Shorthand for -keydef")

	flag.BoolVar(&Config.Verbose, "verbose", false, "Print diagnostic messages")
	flag.BoolVar(&Config.Verbose, "v", false, "Shorthand for -verbose")

	flag.StringVar(&Config.OnConflict, "on_conflict", "prompt", "What to do if the destination exists and -force is not given: \"prompt\" or \"rename\"")
	flag.StringVar(&Config.Author, "author", "", "Author name in Gnome15 profiles (defaults to the current user)")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options] FILENAME\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(flag.CommandLine.Output(), "       %s [options] check FILENAME...\n\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
}

func main() {
	// Parse config file first, and override with anything on the commandline
	rcfile.Parse()
	flag.Parse()

	log := newLogger(Config.Verbose)

	args := flag.Args()
	if len(args) > 0 && args[0] == "check" {
		croak(check_main(args[1:], log))
		return
	}

	policy, err := destination.ByName(Config.OnConflict, Config.Force, destination.Interactive())
	if err != nil {
		croak(clierrors.WithExitCode(err, 2))
	}

	c := converter{
		Format:     Config.Format,
		OutputFile: Config.OutputFile,
		Keydef:     Config.Keydef,
		Author:     Config.Author,
		Policy:     policy,
		Stdout:     os.Stdout,
		Log:        log,
	}
	if c.Author == "" {
		c.Author = currentUser()
	}
	log.Debug().Str("policy", destination.Describe(policy)).Msg("destination conflicts")

	croak(c.Convert(args))
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Str("subsystem", "g13convert").
		Logger()
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	for _, env := range []string{"LOGNAME", "USER", "LNAME", "USERNAME"} {
		if s := os.Getenv(env); s != "" {
			return s
		}
	}
	return ""
}

func croak(e error) {
	if e != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", tc.Red("ERROR:"), e)
		os.Exit(clierrors.ExitCode(e))
	}
}
