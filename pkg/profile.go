package g13

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/achilleas-k/g13-profile-converter/lib/ziptraverser"
)

// A MacroDefinition is a named action from the Windows profile. Only the
// first of its keys is ever used.
type MacroDefinition struct {
	ID   string
	Name string

	// The key values of the macro's key sequence, in document order. Empty
	// for text blocks, mouse functions and the like.
	Keys []string
}

// An Assignment binds a physical key slot in one bank to a macro
type Assignment struct {
	// The key slot, e.g. "G5". Case-insensitive.
	Slot string

	// The bank, e.g. "m1". Derived from the profile's shift state.
	Bank string

	MacroID string
}

// Backlight holds the attributes of a profile's backlight settings
type Backlight struct {
	Attrs map[string]string
}

// RGB returns the backlight colour, if the profile has one
func (b *Backlight) RGB() (r, g, bl uint8, ok bool) {
	if b == nil {
		return 0, 0, 0, false
	}

	rs, okr := b.Attrs["red"]
	gs, okg := b.Attrs["green"]
	bs, okb := b.Attrs["blue"]
	if okr && okg && okb {
		ri, e1 := strconv.ParseUint(strings.TrimSpace(rs), 10, 8)
		gi, e2 := strconv.ParseUint(strings.TrimSpace(gs), 10, 8)
		bi, e3 := strconv.ParseUint(strings.TrimSpace(bs), 10, 8)
		if e1 == nil && e2 == nil && e3 == nil {
			return uint8(ri), uint8(gi), uint8(bi), true
		}
	}

	for _, name := range []string{"color", "colour", "value"} {
		hex := strings.TrimPrefix(strings.TrimSpace(b.Attrs[name]), "#")
		if len(hex) != 6 {
			continue
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			continue
		}
		return uint8(v >> 16), uint8(v >> 8), uint8(v), true
	}

	return 0, 0, 0, false
}

// A Profile is the parsed contents of a Windows G13 profile export
type Profile struct {
	Name string

	// The profile's GUID, verbatim
	ID string

	Macros      []MacroDefinition
	Assignments []Assignment

	// Backlight is nil if the profile does not specify one
	Backlight *Backlight
}

// element is a namespace-agnostic view of an XML element
type element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []element  `xml:",any"`
}

func (e element) attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func (e element) is(name string) bool {
	return strings.Contains(strings.ToLower(e.XMLName.Local), name)
}

// ImportProfile reads a Windows profile from a file. The path may lead into
// a zip archive, e.g. "exports.zip/g13.xml".
func ImportProfile(filename string) (*Profile, error) {
	zt := ziptraverser.New()
	defer zt.Close()

	f, err := zt.Get(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ip, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading %s", filename)
	}

	return ParseProfile(ip)
}

// ParseProfile parses the XML text of a Windows profile export
func ParseProfile(data []byte) (*Profile, error) {
	root := element{}
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(ErrMalformedInput, err.Error())
	}

	if len(root.Children) == 0 {
		return nil, malformed("root element <%s> has no profile", root.XMLName.Local)
	}
	xp := root.Children[0]

	rv := &Profile{}
	var ok bool
	if rv.Name, ok = xp.attr("name"); !ok {
		return nil, malformed("profile has no name")
	}
	if rv.ID, ok = xp.attr("guid"); !ok {
		return nil, malformed("profile %q has no guid", rv.Name)
	}

	for _, child := range xp.Children {
		if child.is("macros") {
			rv.Macros = append(rv.Macros, parseMacros(child)...)
		} else if child.is("assignments") {
			rv.Assignments = append(rv.Assignments, parseAssignments(child)...)
		} else if child.is("backlight") {
			rv.Backlight = parseBacklight(child)
		}
	}

	return rv, nil
}

func parseMacros(macros element) []MacroDefinition {
	rv := make([]MacroDefinition, 0, len(macros.Children))
	for _, m := range macros.Children {
		md := MacroDefinition{}
		md.Name, _ = m.attr("name")
		md.ID, _ = m.attr("guid")

		for _, seq := range m.Children {
			if seq.is("keystroke") || seq.is("multikey") {
				md.Keys = append(md.Keys, keyValues(seq)...)
			}
		}

		rv = append(rv, md)
	}
	return rv
}

// keyValues collects the value of every nested key element, depth first
func keyValues(e element) []string {
	var rv []string
	for _, c := range e.Children {
		if c.is("key") {
			if v, ok := c.attr("value"); ok {
				rv = append(rv, v)
			}
		}
		rv = append(rv, keyValues(c)...)
	}
	return rv
}

func parseAssignments(assignments element) []Assignment {
	rv := make([]Assignment, 0, len(assignments.Children))
	for _, a := range assignments.Children {
		as := Assignment{}
		as.Slot, _ = a.attr("contextid")
		shift, _ := a.attr("shiftstate")
		as.Bank = "m" + shift
		as.MacroID, _ = a.attr("macroguid")

		rv = append(rv, as)
	}
	return rv
}

func parseBacklight(bl element) *Backlight {
	rv := &Backlight{Attrs: make(map[string]string)}

	var collect func(e element)
	collect = func(e element) {
		for _, a := range e.Attrs {
			if _, seen := rv.Attrs[a.Name.Local]; !seen {
				rv.Attrs[a.Name.Local] = a.Value
			}
		}
		for _, c := range e.Children {
			collect(c)
		}
	}
	collect(bl)

	return rv
}
