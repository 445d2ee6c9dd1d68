package g13

import (
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// FallbackPrefix is prepended to Windows key names that are missing from
	// the translation table
	FallbackPrefix = "KEY_"

	// TypeMappedToKey is the only macro type that is supported
	TypeMappedToKey = "mapped-to-key"

	// MapTypeKeyboard is the only map type that is supported
	MapTypeKeyboard = "keyboard"
)

// Banks lists the G13's shift states, in order
var Banks = []string{"m1", "m2", "m3"}

var lower = cases.Lower(language.Und)

// A Binding is an assignment resolved against its macro
type Binding struct {
	Name    string
	Type    string
	MapType string

	// The Linux key name
	Key string

	// Translated is false if Key was made up using FallbackPrefix
	Translated bool
}

// A SlotMap maps lowercased key slots to bindings, remembering the order in
// which slots were first assigned
type SlotMap struct {
	order    []string
	bindings map[string]Binding
}

// Set assigns a binding to a slot. Setting an existing slot replaces the
// binding but keeps its position.
func (s *SlotMap) Set(slot string, b Binding) {
	slot = lower.String(slot)
	if s.bindings == nil {
		s.bindings = make(map[string]Binding)
	}
	if _, ok := s.bindings[slot]; !ok {
		s.order = append(s.order, slot)
	}
	s.bindings[slot] = b
}

// Get returns the binding for a slot
func (s *SlotMap) Get(slot string) (Binding, bool) {
	if s == nil {
		return Binding{}, false
	}
	b, ok := s.bindings[lower.String(slot)]
	return b, ok
}

// Slots returns all assigned slots in order
func (s *SlotMap) Slots() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.order...)
}

// Len returns the number of assigned slots
func (s *SlotMap) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// BankAssignment maps a bank to its slot bindings
type BankAssignment map[string]*SlotMap

// Bank returns the slots of a bank. It never returns nil.
func (ba BankAssignment) Bank(bank string) *SlotMap {
	if s, ok := ba[bank]; ok {
		return s
	}
	return &SlotMap{}
}

func (ba BankAssignment) set(bank, slot string, b Binding) {
	s, ok := ba[bank]
	if !ok {
		s = &SlotMap{}
		ba[bank] = s
	}
	s.Set(slot, b)
}

// A Merger resolves a profile's assignments against its macros
type Merger struct {
	Keys KeyTable

	// Log receives a warning for every unresolved reference. A zero Logger
	// discards everything.
	Log zerolog.Logger
}

// A Converted profile is ready to be rendered
type Converted struct {
	Profile  *Profile
	Banks    BankAssignment
	Warnings []UnresolvedReference
}

// Convert merges a profile
func (m Merger) Convert(p *Profile) Converted {
	banks, warnings := m.Merge(p.Macros, p.Assignments)
	return Converted{
		Profile:  p,
		Banks:    banks,
		Warnings: warnings,
	}
}

// Merge joins assignments to macros and translates each macro's first key.
// Assignments to unknown macros are dropped, and reported in the returned
// warnings. Macros without keys are skipped. When two assignments share a
// bank and slot, the later one wins.
func (m Merger) Merge(macros []MacroDefinition, assignments []Assignment) (BankAssignment, []UnresolvedReference) {
	byID := make(map[string]MacroDefinition, len(macros))
	for _, md := range macros {
		byID[canonicalID(md.ID)] = md
	}

	rv := make(BankAssignment)
	var warnings []UnresolvedReference

	for _, as := range assignments {
		md, ok := byID[canonicalID(as.MacroID)]
		if !ok {
			w := UnresolvedReference{Assignment: as}
			m.Log.Warn().Str("bank", as.Bank).Str("slot", as.Slot).Str("macro", as.MacroID).Msg("macro not found")
			warnings = append(warnings, w)
			continue
		}

		if len(md.Keys) == 0 {
			m.Log.Debug().Str("bank", as.Bank).Str("slot", as.Slot).Str("macro", md.Name).Msg("macro has no keys; skipping")
			continue
		}

		key, translated := m.translate(md.Keys[0])
		rv.set(as.Bank, as.Slot, Binding{
			Name:       md.Name,
			Type:       TypeMappedToKey,
			MapType:    MapTypeKeyboard,
			Key:        key,
			Translated: translated,
		})
	}

	return rv, warnings
}

func (m Merger) translate(winkey string) (string, bool) {
	if linuxkey, ok := m.Keys.Lookup(winkey); ok {
		return linuxkey, true
	}
	m.Log.Debug().Str("key", winkey).Msg("key not in keydef; using fallback name")
	return FallbackPrefix + winkey, false
}

// canonicalID normalises macro GUIDs, so that "{ABCD...}" matches "abcd...".
// Identifiers that aren't UUIDs are compared as-is.
func canonicalID(id string) string {
	u, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return id
	}
	return u.String()
}
