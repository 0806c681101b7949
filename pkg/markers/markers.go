// Package markers derives operator-facing OK/WARN signals from pipeline
// outputs. Markers are purely derived, recomputed fresh each run.
package markers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vinscope/vinscope/pkg/decode"
	"github.com/vinscope/vinscope/pkg/search"
	"github.com/vinscope/vinscope/pkg/vin"
)

// Marker names in display order.
const (
	InputType   = "input_type"
	VINChecksum = "vin_checksum"
	VINDecoded  = "vin_decoded"
	WebPresence = "web_presence"
	RiskFlags   = "risk_flags"
)

// Entry is one OK/WARN signal with an explanatory note.
type Entry struct {
	OK   bool   `json:"ok"`
	Note string `json:"note"`
}

// Map holds marker entries keyed by name, preserving insertion order for
// display.
type Map struct {
	names   []string
	entries map[string]Entry
}

// NewMap creates an empty marker map.
func NewMap() *Map {
	return &Map{entries: make(map[string]Entry)}
}

// Add inserts or replaces an entry. First insertion fixes display order.
func (m *Map) Add(name string, ok bool, note string) {
	if m.entries == nil {
		m.entries = make(map[string]Entry)
	}
	if _, exists := m.entries[name]; !exists {
		m.names = append(m.names, name)
	}
	m.entries[name] = Entry{OK: ok, Note: note}
}

// Get returns the entry for name.
func (m *Map) Get(name string) (Entry, bool) {
	if m == nil {
		return Entry{}, false
	}
	entry, ok := m.entries[name]
	return entry, ok
}

// Names returns marker names in insertion order.
func (m *Map) Names() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.names...)
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// MarshalJSON emits entries as an object in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range m.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(m.entries[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Compute derives the marker set from prior stage outputs. The VIN-only
// markers are omitted for plates and unknown input.
func Compute(normalized vin.NormalizedInput, facts decode.Facts, hits []search.Hit, risks []string) *Map {
	m := NewMap()

	m.Add(InputType, normalized.Kind != vin.KindUnknown, string(normalized.Kind))

	if normalized.Kind == vin.KindVIN {
		m.Add(VINChecksum, normalized.ChecksumOK, normalized.Value)

		decoded := strings.TrimSpace(facts.Model) != ""
		note := "no decode"
		if decoded {
			note = "decoded"
		}
		m.Add(VINDecoded, decoded, note)
	}

	if len(hits) > 0 {
		m.Add(WebPresence, true, fmt.Sprintf("%d hits", len(hits)))
	} else {
		m.Add(WebPresence, false, "no hits")
	}

	if len(risks) > 0 {
		m.Add(RiskFlags, false, strings.Join(risks, ", "))
	} else {
		m.Add(RiskFlags, true, "none")
	}

	return m
}
