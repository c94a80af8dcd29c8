// Package docs assembles element documents and the element index in
// Doxygen-flavoured markdown.
package docs

import (
	"fmt"
	"html"
	"path"
	"strings"

	"github.com/mesh-intelligence/elemdoc/internal/assets"
	"github.com/mesh-intelligence/elemdoc/internal/proptable"
	"github.com/mesh-intelligence/elemdoc/pkg/types"
)

// Document is an ordered sequence of markup fragments.
type Document struct {
	Name      string
	Fragments []string
}

// String concatenates the fragments.
func (d Document) String() string { return strings.Join(d.Fragments, "") }

// Bytes returns the document text.
func (d Document) Bytes() []byte { return []byte(d.String()) }

// Assembler builds documents. ImageDir is the image directory relative to
// the document directory; Excluded reports documentation-excluded types.
type Assembler struct {
	ImageDir string
	Excluded func(typeName string) bool
}

// New returns an Assembler.
func New(imageDir string, excluded func(string) bool) *Assembler {
	if excluded == nil {
		excluded = func(string) bool { return false }
	}
	return &Assembler{ImageDir: imageDir, Excluded: excluded}
}

// Assemble builds the document of one element type. The element must be an
// instance of chain's leaf type; its live values fill the property table.
func (a *Assembler) Assemble(elem types.Element, chain types.MetadataChain, ports []string) Document {
	meta := chain.Leaf()
	name := meta.Name
	if name == "" {
		name = elem.TypeName()
	}

	d := Document{Name: name}
	d.Fragments = append(d.Fragments, a.header(name, meta.Description))
	if parent, ok := a.specializes(chain); ok {
		d.Fragments = append(d.Fragments, fmt.Sprintf("<em><small>Specialization of <b>@ref %s</b></small></em>", parent))
	}
	d.Fragments = append(d.Fragments, "\n\n", a.image(name))
	if len(ports) > 0 {
		d.Fragments = append(d.Fragments, a.gallery(name, ports))
	}
	d.Fragments = append(d.Fragments, "### Properties\n", proptable.Render(proptable.Build(elem, chain)))
	if elem.IsOptical() {
		if s := opticalPath(elem.OpticalPath()); s != "" {
			d.Fragments = append(d.Fragments, s)
		}
	}
	return d
}

func (a *Assembler) header(name, desc string) string {
	desc = strings.TrimRight(strings.TrimSpace(desc), ".")
	return fmt.Sprintf("# %s {#%s}\n%s.\n\n", name, name, desc)
}

// specializes returns the nearest ancestor that is documented itself.
func (a *Assembler) specializes(chain types.MetadataChain) (string, bool) {
	for _, m := range chain.Ancestors() {
		if !a.Excluded(m.Name) {
			return m.Name, true
		}
	}
	return "", false
}

func (a *Assembler) image(name string) string {
	return fmt.Sprintf("<center>  <a href=\"%s\"><img src=\"%s\" border=\"0\" /></a></center><br /><br />\n",
		a.rel(assets.ElementImage(name)), a.rel(assets.ElementThumb(name)))
}

func (a *Assembler) gallery(name string, ports []string) string {
	var b strings.Builder
	b.WriteString("### Reference frames\n")
	for _, p := range ports {
		fmt.Fprintf(&b, "<a href=\"%s\"><img src=\"%s\" border=\"0\" /></a> ",
			a.rel(assets.PortImage(name, p)), a.rel(assets.PortThumb(name, p)))
	}
	b.WriteString("\n")
	return b.String()
}

func (a *Assembler) rel(file string) string {
	if a.ImageDir == "" {
		return file
	}
	return path.Join(a.ImageDir, file)
}

// opticalPath lists the surfaces of a path, or returns "" for an empty one.
func opticalPath(p types.OpticalPath) string {
	if p == nil {
		return ""
	}
	surfaces := p.Surfaces()
	if len(surfaces) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("### Optical path\n")
	b.WriteString("<div style=\"font-family: var(--font-family-monospace)\">  <ol>\n")
	for _, name := range surfaces {
		s, ok := p.Surface(name)
		if !ok {
			s = types.Surface{Name: name, Shape: "unknown", Processor: "unknown"}
		}
		fmt.Fprintf(&b, "<li><b>%s</b>(%s, %s)</li>\n",
			html.EscapeString(s.Name), html.EscapeString(s.Shape), html.EscapeString(s.Processor))
	}
	b.WriteString("  </ol>\n</div>\n")
	return b.String()
}

// IndexName is the document name of the element index.
const IndexName = "ElemRef"

// AssembleIndex builds the index of every documented type. typeNames must
// be in registration order; excluded types are skipped.
func (a *Assembler) AssembleIndex(typeNames []string, libraryName string) Document {
	intro := "This version features the following built-in elements:\n"
	if libraryName != "" {
		intro = fmt.Sprintf("This version of %s features the following built-in elements:\n", libraryName)
	}

	d := Document{Name: IndexName}
	d.Fragments = append(d.Fragments, fmt.Sprintf("@page %s Element reference\n\n", IndexName), intro)
	var tail []string
	for _, name := range typeNames {
		if a.Excluded(name) {
			continue
		}
		d.Fragments = append(d.Fragments, fmt.Sprintf("- @subpage %s\n", name))
		tail = append(tail, fmt.Sprintf("@addtogroup Elements\n@copydoc %s\n@{\n@}\n", name))
	}
	d.Fragments = append(d.Fragments, "\n@defgroup Elements\n")
	d.Fragments = append(d.Fragments, tail...)
	return d
}
