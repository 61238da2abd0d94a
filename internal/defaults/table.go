package defaults

import (
	"errors"
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// ErrUnknownDefaultID is returned when a default id is not in the table.
var ErrUnknownDefaultID = errors.New("unknown default component id")

// ID is the well-known key of a default component.
type ID string

// Identifiers of the built-in default components.
const (
	View        ID = "view"
	Text        ID = "text"
	Button      ID = "button"
	Image       ID = "image"
	TextInput   ID = "text_input"
	ScrollView  ID = "scroll_view"
	Placeholder ID = "placeholder"
)

// Element is the rendered output of a default component.
type Element struct {
	Type  string
	Props cty.Value
}

// Factory renders an element from a set of props.
type Factory func(props cty.Value) (Element, error)

// Entry pairs the baseline props of a default component with its factory.
type Entry struct {
	Props   cty.Value
	Factory Factory
}

// Table is an immutable lookup of default components.
type Table struct {
	entries map[ID]Entry
}

// NewTable builds a table from the given entries. The map is copied, so later
// changes to it are not visible through the table.
func NewTable(entries map[ID]Entry) *Table {
	t := &Table{entries: make(map[ID]Entry, len(entries))}
	for id, e := range entries {
		if e.Factory == nil {
			panic(fmt.Sprintf("default component '%s' has no factory", id))
		}
		t.entries[id] = e
	}
	return t
}

// Lookup returns the entry registered under id.
func (t *Table) Lookup(id ID) (Entry, error) {
	e, ok := t.entries[id]
	if !ok {
		return Entry{}, fmt.Errorf("%w: '%s'", ErrUnknownDefaultID, id)
	}
	return e, nil
}

// Render resolves id and invokes its factory with the baseline props merged
// with override. A nil override renders the baseline props unchanged.
func (t *Table) Render(id ID, override *cty.Value) (Element, error) {
	e, err := t.Lookup(id)
	if err != nil {
		return Element{}, err
	}

	props := e.Props
	if override != nil {
		props, err = MergeProps(e.Props, *override)
		if err != nil {
			return Element{}, fmt.Errorf("default component '%s': %w", id, err)
		}
	}
	return e.Factory(props)
}

// IDs returns the ids in the table in lexical order.
func (t *Table) IDs() []ID {
	ids := make([]ID, 0, len(t.entries))
	for id := range t.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}
