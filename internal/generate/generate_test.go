package generate

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/elemdoc/internal/assets"
	"github.com/mesh-intelligence/elemdoc/internal/optics"
	"github.com/mesh-intelligence/elemdoc/internal/render"
	"github.com/mesh-intelligence/elemdoc/pkg/types"
)

func testLibrary(t *testing.T) types.Library {
	t.Helper()

	lib, err := optics.NewLibrary(optics.DefSource{
		{Name: "Element", Description: "Base element"},
		{
			Name:        "OpticalElement",
			Parent:      "Element",
			Description: "Element with an optical path",
			Properties:  []optics.PropertyDef{{Name: optics.OpticalMarker, Kind: types.KindBoolean, Default: true}},
		},
		{
			Name:        "Mirror",
			Parent:      "OpticalElement",
			Description: "Flat mirror",
			Properties: []optics.PropertyDef{
				{Name: "radius", Kind: types.KindReal, Default: 0.5, Description: "Radius [m]"},
			},
			Ports:    []optics.PortDef{{Name: "frontPort", Origin: [3]optics.Expr{"0", "0", "0.1"}}},
			Geometry: &optics.GeometryDef{Shape: optics.ShapeCylinder, Radius: "radius", Length: "0.1"},
			Surfaces: []optics.SurfaceDef{{Name: "front", Shape: "CircularFlat", Processor: "FlatMirror", Z: "0.1", Radius: "radius"}},
		},
		{
			Name:        "Block",
			Parent:      "Element",
			Description: "Plain block",
			Geometry:    &optics.GeometryDef{Shape: optics.ShapeBox, Width: "1", Height: "1", Length: "1"},
		},
		{Name: "CurvedMirror", Parent: "Mirror", Description: "Curved mirror."},
	})
	require.NoError(t, err)
	return lib
}

func testConfig(t *testing.T) types.Config {
	cfg := types.DefaultConfig()
	cfg.OutputDir = t.TempDir()
	cfg.RenderWidth, cfg.RenderHeight = 48, 48
	cfg.ThumbWidth, cfg.ThumbHeight = 16, 16
	cfg.PortThumbSize = 32
	cfg.Seed = 7
	cfg.Skip = []string{"Element", "OpticalElement"}
	return cfg
}

// failingFor wraps the real renderer and fails for models holding typeName.
func failingFor(typeName string) types.RendererFactory {
	return func(m types.Model, w, h int) (types.Renderer, error) {
		if e, ok := m.LookupElement("elem"); ok && e.TypeName() == typeName {
			return nil, fmt.Errorf("%w: boom", types.ErrRenderFailure)
		}
		return render.New(m, w, h)
	}
}

func readManifest(t *testing.T, root string) []assets.Entry {
	t.Helper()
	f, err := os.Open(filepath.Join(root, assets.ManifestFile))
	require.NoError(t, err)
	defer f.Close()

	var entries []assets.Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e assets.Entry
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		entries = append(entries, e)
	}
	require.NoError(t, sc.Err())
	return entries
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.RenderWidth = 0
	_, err := New(cfg, testLibrary(t), Options{})
	assert.ErrorIs(t, err, types.ErrInvalidConfig)
}

func TestImages(t *testing.T) {
	cfg := testConfig(t)
	g, err := New(cfg, testLibrary(t), Options{})
	require.NoError(t, err)

	rep, err := g.Images(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Mirror", "Block", "CurvedMirror"}, rep.Processed)
	assert.Empty(t, rep.Failed)
	assert.Equal(t, g.RunID(), rep.RunID)

	dir := filepath.Join(cfg.OutputDir, cfg.ImageDir)
	for _, name := range []string{
		assets.ElementImage("Mirror"),
		assets.ElementThumb("Mirror"),
		assets.PortImage("Mirror", "frontPort"),
		assets.PortThumb("Mirror", "frontPort"),
		assets.ElementImage("Block"),
		assets.ElementThumb("Block"),
	} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
	assert.NoFileExists(t, filepath.Join(dir, assets.ElementImage("Element")))

	entries := readManifest(t, cfg.OutputDir)
	require.Len(t, entries, 10)
	for _, e := range entries {
		assert.Equal(t, rep.RunID, e.RunID)
	}
	assert.Equal(t, assets.KindElementImage, entries[0].Kind)
	assert.Equal(t, "Mirror", entries[0].Element)
}

func TestImagesIsolatesElementFailures(t *testing.T) {
	cfg := testConfig(t)
	g, err := New(cfg, testLibrary(t), Options{Renderer: failingFor("Mirror")})
	require.NoError(t, err)

	rep, err := g.Images(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Block", "CurvedMirror"}, rep.Processed)
	require.Len(t, rep.Failed, 1)
	assert.Equal(t, "Mirror", rep.Failed[0].Element)
	assert.ErrorIs(t, rep.Failed[0].Err, types.ErrRenderFailure)

	// Nothing of a failed element is written.
	dir := filepath.Join(cfg.OutputDir, cfg.ImageDir)
	assert.NoFileExists(t, filepath.Join(dir, assets.ElementImage("Mirror")))
	assert.FileExists(t, filepath.Join(dir, assets.ElementImage("Block")))
}

func TestImagesStopsOnWriteError(t *testing.T) {
	cfg := testConfig(t)
	// A regular file where the image directory should go.
	blocker := filepath.Join(cfg.OutputDir, "doxygen")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	g, err := New(cfg, testLibrary(t), Options{})
	require.NoError(t, err)

	rep, err := g.Images(context.Background())
	var we *assets.WriteError
	require.True(t, errors.As(err, &we))
	assert.Empty(t, rep.Processed)
}

func TestImagesCancelled(t *testing.T) {
	g, err := New(testConfig(t), testLibrary(t), Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.Images(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDocuments(t *testing.T) {
	cfg := testConfig(t)
	cfg.HTML = true
	cfg.LibraryName = "Optix"
	g, err := New(cfg, testLibrary(t), Options{})
	require.NoError(t, err)

	rep, err := g.Documents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Mirror", "Block", "CurvedMirror"}, rep.Processed)

	md, err := os.ReadFile(filepath.Join(cfg.OutputDir, cfg.DocDir, "Mirror.md"))
	require.NoError(t, err)
	doc := string(md)
	assert.True(t, strings.HasPrefix(doc, "# Mirror {#Mirror}\nFlat mirror.\n"))
	// Both ancestors are excluded, so no specialization note.
	assert.NotContains(t, doc, "Specialization of")
	assert.Contains(t, doc, "### Optical path\n")
	assert.Contains(t, doc, "<li><b>front</b>(CircularFlat, FlatMirror)</li>")

	block, err := os.ReadFile(filepath.Join(cfg.OutputDir, cfg.DocDir, "Block.md"))
	require.NoError(t, err)
	assert.NotContains(t, string(block), "Optical path")
	assert.NotContains(t, string(block), "Specialization of")

	curved, err := os.ReadFile(filepath.Join(cfg.OutputDir, cfg.DocDir, "CurvedMirror.md"))
	require.NoError(t, err)
	assert.Contains(t, string(curved), "# CurvedMirror {#CurvedMirror}\nCurved mirror.\n")
	assert.Contains(t, string(curved), "Specialization of <b>@ref Mirror</b>")

	index, err := os.ReadFile(filepath.Join(cfg.OutputDir, cfg.IndexFile))
	require.NoError(t, err)
	assert.Contains(t, string(index), "This version of Optix features the following built-in elements:\n")
	assert.Contains(t, string(index), "- @subpage Mirror\n- @subpage Block\n- @subpage CurvedMirror\n")
	assert.NotContains(t, string(index), "@subpage Element\n")

	preview, err := os.ReadFile(filepath.Join(cfg.OutputDir, "elementRef.html"))
	require.NoError(t, err)
	assert.Contains(t, string(preview), `href="elements/Mirror.html"`)
	assert.FileExists(t, filepath.Join(cfg.OutputDir, cfg.DocDir, "Mirror.html"))

	kinds := map[assets.Kind]int{}
	for _, e := range readManifest(t, cfg.OutputDir) {
		kinds[e.Kind]++
	}
	assert.Equal(t, 3, kinds[assets.KindDocument])
	assert.Equal(t, 4, kinds[assets.KindPreview])
	assert.Equal(t, 1, kinds[assets.KindIndex])
}

func TestSetLogger(t *testing.T) {
	assert.False(t, Logger().Enabled(context.Background(), 0))
	SetLogger(nil)
	assert.NotNil(t, Logger())
}

func TestOnlyRestrictsRun(t *testing.T) {
	cfg := testConfig(t)
	g, err := New(cfg, testLibrary(t), Options{Only: []string{"Block"}})
	require.NoError(t, err)

	rep, err := g.Documents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Block"}, rep.Processed)
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, cfg.DocDir, "Mirror.md"))

	// The index still lists every documented type.
	index, err := os.ReadFile(filepath.Join(cfg.OutputDir, cfg.IndexFile))
	require.NoError(t, err)
	assert.Contains(t, string(index), "- @subpage Mirror\n")

	_, err = New(cfg, testLibrary(t), Options{Only: []string{"Nope"}})
	assert.ErrorIs(t, err, types.ErrUnknownElementType)

	_, err = New(cfg, testLibrary(t), Options{Only: []string{"Block", "Element"}})
	assert.ErrorIs(t, err, types.ErrExcludedType)
}

func TestUnresolvedTypeFailsAlone(t *testing.T) {
	lib, err := optics.NewLibrary(optics.DefSource{
		{Name: "Element", Description: "Base element"},
		{Name: "Orphan", Parent: "Missing", Description: "Dangling parent"},
		{
			Name:        "Block",
			Parent:      "Element",
			Description: "Plain block",
			Geometry:    &optics.GeometryDef{Shape: optics.ShapeBox, Width: "1", Height: "1", Length: "1"},
		},
	})
	require.NoError(t, err)
	cfg := testConfig(t)

	g, err := New(cfg, lib, Options{})
	require.NoError(t, err)
	rep, err := g.Images(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Block"}, rep.Processed)
	require.Len(t, rep.Failed, 1)
	assert.Equal(t, "Orphan", rep.Failed[0].Element)
	assert.ErrorIs(t, rep.Failed[0].Err, types.ErrUnknownElementType)

	g, err = New(cfg, lib, Options{})
	require.NoError(t, err)
	rep, err = g.Documents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Block"}, rep.Processed)
	require.Len(t, rep.Failed, 1)
	assert.Equal(t, "Orphan", rep.Failed[0].Element)
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, cfg.DocDir, "Orphan.md"))

	index, err := os.ReadFile(filepath.Join(cfg.OutputDir, cfg.IndexFile))
	require.NoError(t, err)
	assert.Contains(t, string(index), "- @subpage Block\n")
	assert.NotContains(t, string(index), "Orphan")
}
