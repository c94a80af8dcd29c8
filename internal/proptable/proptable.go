// Package proptable builds the property reference table of an element
// document: one fragment per level of the metadata chain, most-derived
// first, with live values read from an instantiated element.
package proptable

import (
	"html"
	"sort"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/elemdoc/pkg/types"
)

// markerProperties exist for dispatch and are never documented.
var markerProperties = map[string]bool{
	"optical": true,
}

// Row is one documented property.
type Row struct {
	Name        string
	Description string
	Value       string
	Units       string
}

// Fragment holds the rows contributed by one metadata level.
type Fragment struct {
	Level string
	Rows  []Row
}

// SplitUnits separates a description into text and a bracketed unit
// annotation. The first '[' starts the units, which run to the next ']' or,
// when the bracket is never closed, to the end of the string.
func SplitUnits(desc string) (text, units string) {
	i := strings.IndexByte(desc, '[')
	if i < 0 {
		return strings.TrimSpace(desc), ""
	}
	text = strings.TrimSpace(desc[:i])
	units = desc[i+1:]
	if j := strings.IndexByte(units, ']'); j >= 0 {
		units = units[:j]
	}
	return text, strings.TrimSpace(units)
}

// FormatValue renders a property value in its natural textual form.
func FormatValue(v types.Value) string {
	switch x := v.(type) {
	case types.Integer:
		return strconv.FormatInt(int64(x), 10)
	case types.Real:
		return strconv.FormatFloat(float64(x), 'g', -1, 64)
	case types.Boolean:
		return strconv.FormatBool(bool(x))
	case types.String:
		return string(x)
	case types.Undefined, nil:
		return "undefined"
	}
	panic("proptable: unhandled value kind " + string(v.Kind()))
}

// Build walks chain from the most-derived level and returns one fragment per
// level with at least one documentable property. A property already shown
// at a more-derived level is not repeated.
func Build(elem types.Element, chain types.MetadataChain) []Fragment {
	seen := make(map[string]bool)
	var out []Fragment
	for _, level := range chain {
		frag := Fragment{Level: level.Name}
		for _, name := range displayOrder(level) {
			if markerProperties[name] || seen[name] {
				continue
			}
			desc, ok := level.Properties[name]
			if !ok {
				continue
			}
			seen[name] = true
			text, units := SplitUnits(desc.Description)
			frag.Rows = append(frag.Rows, Row{
				Name:        name,
				Description: text,
				Value:       FormatValue(elem.Property(name)),
				Units:       units,
			})
		}
		if len(frag.Rows) > 0 {
			out = append(out, frag)
		}
	}
	return out
}

// displayOrder returns the level's explicit order, or every property sorted
// by name.
func displayOrder(level types.ElementMetadata) []string {
	if len(level.Sorted) > 0 {
		return level.Sorted
	}
	names := make([]string, 0, len(level.Properties))
	for name := range level.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Table markup.
const (
	TableOpen   = "<table>\n"
	TableHeader = "<tr><th>Name</th><th>Description</th><th>Default</th><th>Units</th></tr>\n"
	TableClose  = "</table>\n"
)

// Render returns the fragment's heading row followed by its property rows.
func (f Fragment) Render() string {
	var b strings.Builder
	b.WriteString(`<tr><td colspan="4"><center><em><b>`)
	b.WriteString(html.EscapeString(f.Level))
	b.WriteString("</b></em></center></td></tr>\n")
	for _, r := range f.Rows {
		b.WriteString(`<tr><td><div style="font-family: var(--font-family-monospace)">`)
		b.WriteString(html.EscapeString(r.Name))
		b.WriteString(`</div></td><td bgcolor="white">`)
		b.WriteString(html.EscapeString(r.Description))
		b.WriteString("</td><td>")
		b.WriteString(html.EscapeString(r.Value))
		b.WriteString("</td><td>")
		b.WriteString(html.EscapeString(r.Units))
		b.WriteString("</td></tr>\n")
	}
	return b.String()
}

// Render returns the complete table: header row and every fragment.
func Render(fragments []Fragment) string {
	var b strings.Builder
	b.WriteString(TableOpen)
	b.WriteString(TableHeader)
	for _, f := range fragments {
		b.WriteString(f.Render())
	}
	b.WriteString(TableClose)
	return b.String()
}
