package g13

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	evdev "github.com/holoplot/go-evdev"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// A KeyTable maps Windows key names to Linux input key names. It is not
// modified after loading.
type KeyTable struct {
	keys map[string]string
}

// NewKeyTable creates a KeyTable from a map. The map is copied.
func NewKeyTable(m map[string]string) KeyTable {
	rv := KeyTable{keys: make(map[string]string, len(m))}
	for k, v := range m {
		rv.keys[k] = v
	}
	return rv
}

// Lookup translates a Windows key name
func (t KeyTable) Lookup(winkey string) (string, bool) {
	v, ok := t.keys[winkey]
	return v, ok
}

// Len returns the number of entries in the table
func (t KeyTable) Len() int {
	return len(t.keys)
}

// Unknown returns the Windows key names whose translation is not a key name
// known to the Linux input subsystem, sorted
func (t KeyTable) Unknown() []string {
	var rv []string
	for win, linux := range t.keys {
		if !IsLinuxKey(linux) {
			rv = append(rv, win)
		}
	}
	sort.Strings(rv)
	return rv
}

// IsLinuxKey reports whether name is a key code name from linux/input.h
func IsLinuxKey(name string) bool {
	_, ok := evdev.KEYFromString[name]
	return ok
}

// LoadKeyTable reads a translation table from disk. Files ending in .yaml or
// .yml are read as a YAML mapping; anything else as "winkey : linuxkey" lines.
func LoadKeyTable(filename string, log zerolog.Logger) (KeyTable, error) {
	fi, err := os.Stat(filename)
	if err != nil || !fi.Mode().IsRegular() {
		return KeyTable{}, errors.Wrapf(ErrMissingResource, "keydef file %s", filename)
	}

	f, err := os.Open(filename)
	if err != nil {
		return KeyTable{}, errors.Wrapf(ErrMissingResource, "keydef file %s: %s", filename, err)
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".yaml" || ext == ".yml" {
		return parseYAMLKeyTable(f, filename)
	}

	return ParseKeyTable(f, log.With().Str("keydef", filename).Logger())
}

// ParseKeyTable parses "winkey : linuxkey" lines. Blank lines and lines
// starting with '#' are ignored; later duplicates win.
func ParseKeyTable(r io.Reader, log zerolog.Logger) (KeyTable, error) {
	rv := KeyTable{keys: make(map[string]string)}

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		dl := strings.TrimSpace(scanner.Text())
		if dl == "" || strings.HasPrefix(dl, "#") {
			continue
		}

		winkey, linuxkey, ok := strings.Cut(dl, ":")
		if !ok {
			log.Debug().Int("line", lineno).Str("text", dl).Msg("ignoring line without a colon")
			continue
		}
		rv.keys[strings.TrimSpace(winkey)] = strings.TrimSpace(linuxkey)
	}
	if err := scanner.Err(); err != nil {
		return KeyTable{}, errors.Wrap(err, "error reading keydef")
	}

	return rv, nil
}

func parseYAMLKeyTable(r io.Reader, filename string) (KeyTable, error) {
	m := map[string]string{}
	if err := yaml.NewDecoder(r).Decode(&m); err != nil && err != io.EOF {
		return KeyTable{}, errors.Wrapf(err, "failed to parse %s", filename)
	}

	rv := KeyTable{keys: make(map[string]string, len(m))}
	for k, v := range m {
		rv.keys[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return rv, nil
}
