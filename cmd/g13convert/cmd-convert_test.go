package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clierrors "github.com/achilleas-k/g13-profile-converter/internal/cli-plumbing/errors"
	"github.com/achilleas-k/g13-profile-converter/internal/destination"
	"github.com/achilleas-k/g13-profile-converter/lib/ziptraverser"
	g13 "github.com/achilleas-k/g13-profile-converter/pkg"
)

const fireProfile = `<profiles>
  <profile name="Shooter" guid="{4D0C6A0F-3C1A-4E8B-9F0A-6B2D1C3E5F70}">
    <macros>
      <macro name="Fire" guid="G1"><keystroke><key value="A"/></keystroke></macro>
    </macros>
    <assignments>
      <assignment contextid="G5" shiftstate="1" macroguid="G1"/>
      <assignment contextid="G6" shiftstate="1" macroguid="G404"/>
    </assignments>
  </profile>
</profiles>`

type fixture struct {
	dir    string
	input  string
	keydef string
	stdout *bytes.Buffer
}

func newFixture(t *testing.T) fixture {
	dir := t.TempDir()
	f := fixture{
		dir:    dir,
		input:  filepath.Join(dir, "shooter.xml"),
		keydef: filepath.Join(dir, "keydef.cfg"),
		stdout: &bytes.Buffer{},
	}
	require.NoError(t, os.WriteFile(f.input, []byte(fireProfile), 0644))
	require.NoError(t, os.WriteFile(f.keydef, []byte("# test\nA: KEY_A\n"), 0644))
	return f
}

func (f fixture) converter(format string, policy destination.Policy) converter {
	return converter{
		Format:     format,
		OutputFile: filepath.Join(f.dir, "out."+format),
		Keydef:     f.keydef,
		Author:     "tester",
		Policy:     policy,
		Stdout:     f.stdout,
		Log:        zerolog.Nop(),
	}
}

func TestOutputFilename(t *testing.T) {
	assert.Equal(t, "shooter.mzip", outputFilename("/home/me/profiles/shooter.xml", "mzip", ""))
	assert.Equal(t, "shooter.bind", outputFilename("shooter", "bind", ""))
	assert.Equal(t, "x/y.txt", outputFilename("shooter.xml", "bind", "x/y.txt"))
}

func TestConvertBind(t *testing.T) {
	f := newFixture(t)
	c := f.converter("bind", destination.Force{})

	require.NoError(t, c.Convert([]string{f.input}))

	contents, err := os.ReadFile(c.OutputFile)
	require.NoError(t, err)
	assert.Equal(t, "bind G5 KEY_A\n", string(contents))
	assert.Contains(t, f.stdout.String(), "Profile written to \""+c.OutputFile+"\"")
}

func TestConvertMzip(t *testing.T) {
	f := newFixture(t)
	c := f.converter("mzip", destination.Force{})

	require.NoError(t, c.Convert([]string{f.input}))

	zt := ziptraverser.New()
	defer zt.Close()
	r, err := zt.Get(filepath.Join(c.OutputFile, "out.macros"))
	require.NoError(t, err)
	defer r.Close()

	contents, err := io.ReadAll(r)
	require.NoError(t, err)
	text := string(contents)
	assert.Contains(t, text, "[m1]\nkeys_g5_name = Fire\nkeys_g5_type = mapped-to-key\nkeys_g5_maptype = keyboard\nkeys_g5_mappedkey = KEY_A\n")
	assert.Contains(t, text, "author = tester\n")
	assert.NotContains(t, text, "keys_g6")
}

func TestConvertErrors(t *testing.T) {
	f := newFixture(t)

	c := f.converter("bind", destination.Force{})
	err := c.Convert(nil)
	assert.True(t, errors.Is(err, g13.ErrMissingArgument))
	assert.Equal(t, 2, clierrors.ExitCode(err))

	c = f.converter("xml", destination.Force{})
	err = c.Convert([]string{f.input})
	assert.True(t, errors.Is(err, g13.ErrInvalidFormat))
	assert.Equal(t, 2, clierrors.ExitCode(err))

	c = f.converter("bind", destination.Force{})
	c.Keydef = filepath.Join(f.dir, "missing.cfg")
	err = c.Convert([]string{f.input})
	assert.True(t, errors.Is(err, g13.ErrMissingResource))
	assert.Equal(t, 2, clierrors.ExitCode(err))

	c = f.converter("bind", destination.Force{})
	bad := filepath.Join(f.dir, "bad.xml")
	require.NoError(t, os.WriteFile(bad, []byte("<profiles/>"), 0644))
	err = c.Convert([]string{bad})
	assert.True(t, errors.Is(err, g13.ErrMalformedInput))
	assert.Equal(t, 1, clierrors.ExitCode(err))
}

func TestConvertDoesNotOverwriteWithoutConsent(t *testing.T) {
	f := newFixture(t)

	existing := filepath.Join(f.dir, "out.bind")
	require.NoError(t, os.WriteFile(existing, []byte("precious"), 0644))

	var prompts bytes.Buffer
	prompter := destination.NewLines(strings.NewReader("n\n"), &prompts)
	c := f.converter("bind", destination.Prompt{Prompter: prompter})

	err := c.Convert([]string{f.input})
	assert.Error(t, err)

	contents, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "precious", string(contents))
	assert.Contains(t, prompts.String(), "already exists")
}

func TestConvertToNewName(t *testing.T) {
	f := newFixture(t)

	existing := filepath.Join(f.dir, "out.bind")
	require.NoError(t, os.WriteFile(existing, []byte("precious"), 0644))

	renamed := filepath.Join(f.dir, "renamed.bind")
	prompter := destination.NewLines(strings.NewReader("n\n"+renamed+"\n"), io.Discard)
	c := f.converter("bind", destination.Prompt{Prompter: prompter})

	require.NoError(t, c.Convert([]string{f.input}))

	contents, err := os.ReadFile(renamed)
	require.NoError(t, err)
	assert.Equal(t, "bind G5 KEY_A\n", string(contents))

	contents, err = os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "precious", string(contents))
}

func TestCheckProfiles(t *testing.T) {
	f := newFixture(t)
	keys := g13.NewKeyTable(map[string]string{"A": "KEY_A", "Z": "KEY_NOPE"})

	var out bytes.Buffer
	problems := checkProfiles(&out, keys, []string{f.input, filepath.Join(f.dir, "missing.xml")})

	// One unresolved macro, one unreadable profile
	assert.Equal(t, 2, problems)
	assert.Contains(t, out.String(), "Shooter")
	assert.Contains(t, out.String(), "KEY_A")
	assert.Contains(t, out.String(), "G404")
	assert.Contains(t, out.String(), "KEY_NOPE")
}
