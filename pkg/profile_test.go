package g13

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProfile = `<?xml version="1.0" encoding="utf-8"?>
<profiles xmlns="http://www.logitech.com/Cassandra/2010.1/Profile">
  <profile name="Shooter" guid="{4D0C6A0F-3C1A-4E8B-9F0A-6B2D1C3E5F70}">
    <macros>
      <macro name="Fire" guid="{11111111-2222-3333-4444-555555555555}" hotkey="">
        <keystroke>
          <key value="A" />
        </keystroke>
      </macro>
      <macro name="Combo" guid="{AAAAAAAA-2222-3333-4444-555555555555}">
        <multikey>
          <key value="LSHIFT" direction="down" />
          <delay milliseconds="50" />
          <key value="B" direction="down" />
        </multikey>
      </macro>
      <macro name="Greeting" guid="{BBBBBBBB-2222-3333-4444-555555555555}">
        <textblock>gg</textblock>
      </macro>
    </macros>
    <assignments>
      <assignment contextid="G5" shiftstate="1" macroguid="{11111111-2222-3333-4444-555555555555}" />
      <assignment contextid="G6" shiftstate="2" macroguid="{AAAAAAAA-2222-3333-4444-555555555555}" />
    </assignments>
    <backlight>
      <color red="255" green="128" blue="0" />
    </backlight>
  </profile>
</profiles>`

func TestParseProfile(t *testing.T) {
	p, err := ParseProfile([]byte(testProfile))
	require.NoError(t, err)

	assert.Equal(t, "Shooter", p.Name)
	assert.Equal(t, "{4D0C6A0F-3C1A-4E8B-9F0A-6B2D1C3E5F70}", p.ID)

	require.Len(t, p.Macros, 3)
	assert.Equal(t, MacroDefinition{
		ID:   "{11111111-2222-3333-4444-555555555555}",
		Name: "Fire",
		Keys: []string{"A"},
	}, p.Macros[0])
	assert.Equal(t, []string{"LSHIFT", "B"}, p.Macros[1].Keys)
	assert.Empty(t, p.Macros[2].Keys)
	assert.Equal(t, "Greeting", p.Macros[2].Name)

	require.Len(t, p.Assignments, 2)
	assert.Equal(t, Assignment{Slot: "G5", Bank: "m1", MacroID: "{11111111-2222-3333-4444-555555555555}"}, p.Assignments[0])
	assert.Equal(t, "m2", p.Assignments[1].Bank)

	require.NotNil(t, p.Backlight)
	r, g, b, ok := p.Backlight.RGB()
	assert.True(t, ok)
	assert.Equal(t, []uint8{255, 128, 0}, []uint8{r, g, b})
}

func TestParseProfileWithoutBacklight(t *testing.T) {
	p, err := ParseProfile([]byte(`<profiles><profile name="x" guid="1"><macros/></profile></profiles>`))
	require.NoError(t, err)
	assert.Nil(t, p.Backlight)
	assert.Empty(t, p.Assignments)

	_, _, _, ok := p.Backlight.RGB()
	assert.False(t, ok)
}

func TestParseProfileMalformed(t *testing.T) {
	cases := map[string]string{
		"no profile":   `<profiles></profiles>`,
		"no name":      `<profiles><profile guid="1"/></profiles>`,
		"no guid":      `<profiles><profile name="x"/></profiles>`,
		"syntax error": `<profiles><profile name="x" guid="1">`,
		"empty":        ``,
	}

	for name, doc := range cases {
		_, err := ParseProfile([]byte(doc))
		if assert.Error(t, err, name) {
			assert.True(t, errors.Is(err, ErrMalformedInput), "%s: expected a malformed input error; got %v", name, err)
		}
	}
}

func TestBacklightHexColour(t *testing.T) {
	bl := &Backlight{Attrs: map[string]string{"color": "#00ff7f"}}
	r, g, b, ok := bl.RGB()
	assert.True(t, ok)
	assert.Equal(t, []uint8{0, 255, 127}, []uint8{r, g, b})

	bl = &Backlight{Attrs: map[string]string{"red": "300", "green": "0", "blue": "0"}}
	_, _, _, ok = bl.RGB()
	assert.False(t, ok)
}

func TestImportProfileFromZip(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "exports.zip")

	f, err := os.Create(archive)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("g13/shooter.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(testProfile))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	p, err := ImportProfile(filepath.Join(archive, "g13", "shooter.xml"))
	require.NoError(t, err)
	assert.Equal(t, "Shooter", p.Name)

	_, err = ImportProfile(filepath.Join(dir, "missing.xml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
