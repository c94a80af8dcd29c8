package proptable

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/mesh-intelligence/elemdoc/pkg/types"
)

// fakeElement serves property values from a map.
type fakeElement struct {
	types.Element
	props map[string]types.Value
}

func (e fakeElement) Property(name string) types.Value {
	if v, ok := e.props[name]; ok {
		return v
	}
	return types.Undefined{}
}

func props(descs ...types.PropertyDescriptor) map[string]types.PropertyDescriptor {
	m := make(map[string]types.PropertyDescriptor, len(descs))
	for _, d := range descs {
		m[d.Name] = d
	}
	return m
}

func TestSplitUnits(t *testing.T) {
	tests := []struct {
		desc      string
		wantText  string
		wantUnits string
	}{
		{"Focal length [mm]", "Focal length", "mm"},
		{"Enable mirror", "Enable mirror", ""},
		{"Reflectivity [%]", "Reflectivity", "%"},
		{"Radius [m", "Radius", "m"},
		{"Angle [deg] of incidence [rad]", "Angle", "deg"},
		{"[m]", "", "m"},
		{"Empty []", "Empty", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			text, units := SplitUnits(tt.desc)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantUnits, units)
		})
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		v    types.Value
		want string
	}{
		{types.Integer(-42), "-42"},
		{types.Real(0.98), "0.98"},
		{types.Real(1e-6), "1e-06"},
		{types.Boolean(true), "true"},
		{types.Boolean(false), "false"},
		{types.String("N-BK7"), "N-BK7"},
		{types.Undefined{}, "undefined"},
		{nil, "undefined"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatValue(tt.v))
	}
}

func TestBuildMirror(t *testing.T) {
	chain := types.MetadataChain{
		{
			Name: "Mirror",
			Properties: props(
				types.PropertyDescriptor{Name: "reflectivity", Kind: types.KindReal, Description: "Reflectivity [%]"},
				types.PropertyDescriptor{Name: "flip", Kind: types.KindBoolean, Description: "Enable mirror"},
			),
			Sorted: []string{"reflectivity", "flip"},
		},
		{
			Name:       "OpticalElement",
			Properties: props(types.PropertyDescriptor{Name: "optical", Kind: types.KindBoolean, Description: "Optical"}),
		},
		{Name: "Element"},
	}
	elem := fakeElement{props: map[string]types.Value{
		"reflectivity": types.Real(0.98),
		"flip":         types.Boolean(false),
		"optical":      types.Boolean(true),
	}}

	frags := Build(elem, chain)
	require.Len(t, frags, 1, "levels without documentable properties are dropped")
	assert.Equal(t, Fragment{
		Level: "Mirror",
		Rows: []Row{
			{Name: "reflectivity", Description: "Reflectivity", Value: "0.98", Units: "%"},
			{Name: "flip", Description: "Enable mirror", Value: "false", Units: ""},
		},
	}, frags[0])
}

func TestBuildLevelsAndOrder(t *testing.T) {
	chain := types.MetadataChain{
		{
			Name: "Lens",
			Properties: props(
				types.PropertyDescriptor{Name: "rc", Description: "Curvature radius [m]"},
				types.PropertyDescriptor{Name: "glass", Description: "Glass"},
				types.PropertyDescriptor{Name: "radius", Description: "Lens radius [m]"},
			),
		},
		{
			Name: "RayBeamElement",
			Properties: props(
				types.PropertyDescriptor{Name: "radius", Description: "Generic radius [m]"},
				types.PropertyDescriptor{Name: "wavelength", Description: "Wavelength [m]"},
			),
			// An ordered name missing from the descriptors is ignored.
			Sorted: []string{"wavelength", "ghost", "radius"},
		},
	}
	elem := fakeElement{props: map[string]types.Value{
		"rc":     types.Real(0.05),
		"radius": types.Real(0.0127),
	}}

	frags := Build(elem, chain)
	require.Len(t, frags, 2)
	assert.Equal(t, "Lens", frags[0].Level)
	assert.Equal(t, []string{"glass", "radius", "rc"}, rowNames(frags[0]))
	assert.Equal(t, "undefined", frags[0].Rows[0].Value)

	// radius was documented at the Lens level already.
	assert.Equal(t, "RayBeamElement", frags[1].Level)
	assert.Equal(t, []string{"wavelength"}, rowNames(frags[1]))
}

func rowNames(f Fragment) []string {
	var names []string
	for _, r := range f.Rows {
		names = append(names, r.Name)
	}
	return names
}

func TestRenderParses(t *testing.T) {
	frags := []Fragment{
		{Level: "Mirror", Rows: []Row{
			{Name: "reflectivity", Description: "Reflectivity <R>", Value: "0.98", Units: "%"},
			{Name: "flip", Description: "Enable mirror", Value: "false"},
		}},
		{Level: "Base", Rows: []Row{{Name: "tag", Description: "Tag & label", Value: "x"}}},
	}
	out := Render(frags)
	assert.True(t, strings.HasPrefix(out, TableOpen+TableHeader))
	assert.True(t, strings.HasSuffix(out, TableClose))

	doc, err := html.Parse(strings.NewReader(out))
	require.NoError(t, err)

	var rows [][]string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var cells []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
					cells = append(cells, textContent(c))
				}
			}
			rows = append(rows, cells)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	assert.Equal(t, [][]string{
		{"Name", "Description", "Default", "Units"},
		{"Mirror"},
		{"reflectivity", "Reflectivity <R>", "0.98", "%"},
		{"flip", "Enable mirror", "false", ""},
		{"Base"},
		{"tag", "Tag & label", "x", ""},
	}, rows)
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}
