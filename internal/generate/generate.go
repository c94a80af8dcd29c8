// Package generate drives documentation runs: it walks the registry in
// registration order, renders images or assembles documents for every
// documented element type, and isolates per-element failures.
package generate

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"path"
	"path/filepath"

	"github.com/mesh-intelligence/elemdoc/internal/assets"
	"github.com/mesh-intelligence/elemdoc/internal/compose"
	"github.com/mesh-intelligence/elemdoc/internal/docs"
	"github.com/mesh-intelligence/elemdoc/internal/render"
	"github.com/mesh-intelligence/elemdoc/internal/scene"
	"github.com/mesh-intelligence/elemdoc/pkg/types"
)

// Options supplies collaborators. Zero fields select the defaults.
type Options struct {
	Renderer types.RendererFactory
	Policies *scene.Policies

	// Only restricts a run to the named types. Empty means every
	// documented type.
	Only []string
}

// Generator produces the documentation assets of one library.
type Generator struct {
	cfg      types.Config
	lib      types.Library
	only     map[string]bool
	builder  *scene.Builder
	comp     *compose.Compositor
	docs     *docs.Assembler
	manifest *assets.Manifest
	writer   *assets.Writer
	log      *slog.Logger
}

// Failure records an element whose processing was abandoned.
type Failure struct {
	Element string
	Err     error
}

// Report summarises a run.
type Report struct {
	RunID     string
	Processed []string
	Failed    []Failure
}

// New validates cfg and prepares a generator over lib.
func New(cfg types.Config, lib types.Library, opts Options) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	apertureColor, err := types.ParseRGB(cfg.ApertureColor)
	if err != nil {
		return nil, err
	}
	gridColor, err := types.ParseRGB(cfg.GridColor)
	if err != nil {
		return nil, err
	}
	if opts.Renderer == nil {
		opts.Renderer = render.New
	}
	only, err := selection(lib, opts.Only, cfg.IsSkipped)
	if err != nil {
		return nil, err
	}

	manifest := assets.NewManifest()
	return &Generator{
		cfg:  cfg,
		lib:  lib,
		only: only,
		builder: scene.NewBuilder(lib, opts.Policies, scene.Options{
			Seed:       cfg.Seed,
			STLExample: cfg.STLExample,
		}),
		comp: compose.New(opts.Renderer, compose.Settings{
			Width:             cfg.RenderWidth,
			Height:            cfg.RenderHeight,
			ApertureColor:     apertureColor,
			ApertureThickness: cfg.ApertureThickness,
			GridColor:         gridColor,
			GridThickness:     cfg.GridThickness,
			AxesZoom:          cfg.AxesZoom,
			Timeout:           cfg.RenderTimeout,
		}),
		docs:     docs.New(cfg.ImageRelDir, cfg.IsSkipped),
		manifest: manifest,
		writer:   assets.NewWriter(cfg.OutputDir, manifest),
		log:      Logger().With("run", manifest.RunID()),
	}, nil
}

// selection resolves the Only option against the registry. Unknown and
// excluded names are rejected.
func selection(lib types.Registry, names []string, excluded func(string) bool) (map[string]bool, error) {
	if len(names) == 0 {
		return nil, nil
	}
	known := make(map[string]bool)
	for _, n := range lib.ElementTypes() {
		known[n] = true
	}
	only := make(map[string]bool, len(names))
	for _, n := range names {
		if !known[n] {
			return nil, fmt.Errorf("%w: %s", types.ErrUnknownElementType, n)
		}
		if excluded(n) {
			return nil, fmt.Errorf("%w: %s", types.ErrExcludedType, n)
		}
		only[n] = true
	}
	return only, nil
}

// RunID identifies the generator's run in logs and the manifest.
func (g *Generator) RunID() string { return g.manifest.RunID() }

// Images renders the sample image, its thumbnail and the port images of
// every documented element type.
func (g *Generator) Images(ctx context.Context) (*Report, error) {
	return g.run(ctx, "images", g.images, nil)
}

// Documents writes the document of every documented element type, then the
// index.
func (g *Generator) Documents(ctx context.Context) (*Report, error) {
	return g.run(ctx, "documents", g.document, g.index)
}

// run applies fn to every documented type in registration order. Write
// errors and cancellation end the run; any other error only abandons the
// current element. finish runs after the loop unless the run was ended.
func (g *Generator) run(ctx context.Context, verb string, fn func(context.Context, string) error, finish func() error) (*Report, error) {
	rep := &Report{RunID: g.RunID()}
	g.log.Info("run started", "verb", verb)

	for _, name := range g.lib.ElementTypes() {
		if g.cfg.IsSkipped(name) {
			g.log.Debug("skipping excluded type", "element", name)
			continue
		}
		if g.only != nil && !g.only[name] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return rep, g.abort(err)
		}

		err := fn(ctx, name)
		var we *assets.WriteError
		switch {
		case err == nil:
			rep.Processed = append(rep.Processed, name)
		case errors.As(err, &we):
			g.log.Error("write failed", "element", name, "path", we.Path, "err", we.Err)
			return rep, g.abort(err)
		case ctx.Err() != nil:
			return rep, g.abort(ctx.Err())
		default:
			g.log.Error("element failed", "element", name, "err", err)
			rep.Failed = append(rep.Failed, Failure{Element: name, Err: err})
		}
	}

	if finish != nil {
		if err := finish(); err != nil {
			return rep, g.abort(err)
		}
	}
	if err := g.manifest.Save(g.cfg.OutputDir); err != nil {
		return rep, err
	}
	g.log.Info("run finished", "verb", verb, "processed", len(rep.Processed), "failed", len(rep.Failed))
	return rep, nil
}

// abort saves what was written so far and returns err.
func (g *Generator) abort(err error) error {
	if serr := g.manifest.Save(g.cfg.OutputDir); serr != nil {
		g.log.Warn("manifest not saved", "err", serr)
	}
	return err
}

// artifact is a rendered image waiting to be written.
type artifact struct {
	kind assets.Kind
	file string
	img  image.Image
}

// images renders every image of one element before writing any of them.
func (g *Generator) images(ctx context.Context, name string) error {
	log := g.log.With("element", name)

	s, err := g.builder.Build(name)
	if err != nil {
		return err
	}
	log.Debug("scene built", "code", s.Code)

	sample, err := g.comp.Render(ctx, s.Model, compose.SamplePasses(s.Box), compose.Opacity(s.Element.IsOptical()))
	if err != nil {
		return fmt.Errorf("sample image: %w", err)
	}
	out := []artifact{
		{assets.KindElementImage, assets.ElementImage(name), sample},
		{assets.KindElementThumb, assets.ElementThumb(name), assets.Thumbnail(sample, g.cfg.ThumbWidth, g.cfg.ThumbHeight)},
	}

	for _, port := range s.Ports() {
		frame, box, err := s.PortBox(port)
		if err != nil {
			return err
		}
		img, err := g.comp.Render(ctx, s.Model, compose.PortPasses(frame, box, s.Box), compose.PortOpacity)
		if err != nil {
			return fmt.Errorf("port %s: %w", port, err)
		}
		thumb, err := assets.PortThumbnail(img, port, g.cfg.PortThumbSize)
		if err != nil {
			return fmt.Errorf("port %s thumbnail: %w", port, err)
		}
		out = append(out,
			artifact{assets.KindPortImage, assets.PortImage(name, port), img},
			artifact{assets.KindPortThumb, assets.PortThumb(name, port), thumb},
		)
	}

	for _, a := range out {
		rel := filepath.Join(g.cfg.ImageDir, a.file)
		if err := g.writer.WritePNG(name, a.kind, rel, a.img); err != nil {
			return err
		}
		log.Debug("image written", "path", rel)
	}
	log.Info("images generated", "count", len(out))
	return nil
}

// document assembles and writes one element document.
func (g *Generator) document(_ context.Context, name string) error {
	f, err := g.lib.LookupFactory(name)
	if err != nil {
		return err
	}
	elem, err := f.Make(name, nil)
	if err != nil {
		return fmt.Errorf("instantiate: %w", err)
	}
	doc := g.docs.Assemble(elem, f.Metadata(), elem.Ports())

	rel := filepath.Join(g.cfg.DocDir, assets.Document(name))
	if err := g.writer.Write(name, assets.KindDocument, rel, doc.Bytes()); err != nil {
		return err
	}
	if g.cfg.HTML {
		prel := filepath.Join(g.cfg.DocDir, assets.Preview(name))
		if err := g.writer.Write(name, assets.KindPreview, prel, docs.RenderHTML(doc, "")); err != nil {
			return err
		}
	}
	g.log.Info("document written", "element", name, "path", rel)
	return nil
}

// resolvable lists the registered types that have a factory, in
// registration order. Types without one get no page to link to.
func (g *Generator) resolvable() []string {
	var names []string
	for _, name := range g.lib.ElementTypes() {
		if _, err := g.lib.LookupFactory(name); err == nil {
			names = append(names, name)
		}
	}
	return names
}

// index writes the element index.
func (g *Generator) index() error {
	doc := g.docs.AssembleIndex(g.resolvable(), g.cfg.LibraryName)
	if err := g.writer.Write("", assets.KindIndex, g.cfg.IndexFile, doc.Bytes()); err != nil {
		return err
	}
	if g.cfg.HTML {
		base := g.cfg.IndexFile[:len(g.cfg.IndexFile)-len(filepath.Ext(g.cfg.IndexFile))]
		prefix := path.Clean(filepath.ToSlash(g.cfg.DocDir)) + "/"
		if err := g.writer.Write("", assets.KindPreview, base+".html", docs.RenderHTML(doc, prefix)); err != nil {
			return err
		}
	}
	g.log.Info("index written", "path", g.cfg.IndexFile)
	return nil
}
