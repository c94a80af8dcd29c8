// This file seeds the built-in element catalog on attach.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/elemdoc/internal/optics"
	"github.com/mesh-intelligence/elemdoc/pkg/types"
)

// Zernike coefficients carried by PhaseScreen.
const zernikeTerms = 28

func realProp(name string, def float64, desc string) optics.PropertyDef {
	return optics.PropertyDef{Name: name, Kind: types.KindReal, Default: def, Description: desc}
}

func intProp(name string, def int64, desc string) optics.PropertyDef {
	return optics.PropertyDef{Name: name, Kind: types.KindInteger, Default: def, Description: desc}
}

func boolProp(name string, def bool, desc string) optics.PropertyDef {
	return optics.PropertyDef{Name: name, Kind: types.KindBoolean, Default: def, Description: desc}
}

func strProp(name string, def any, desc string) optics.PropertyDef {
	return optics.PropertyDef{Name: name, Kind: types.KindString, Default: def, Description: desc}
}

func origin(x, y, z optics.Expr) [3]optics.Expr { return [3]optics.Expr{x, y, z} }

// builtInTypes is the built-in element catalog in registration order.
var builtInTypes = []optics.TypeDef{
	{
		Name:        "Element",
		Description: "Base class of every element",
	},
	{
		Name:        "OpticalElement",
		Parent:      "Element",
		Description: "Element that takes part in light propagation",
		Properties: []optics.PropertyDef{
			boolProp(optics.OpticalMarker, true, "Element carries an optical path"),
		},
	},
	{
		Name:        "RayBeamElement",
		Parent:      "OpticalElement",
		Description: "Optical element interacting with ray beams",
		Properties: []optics.PropertyDef{
			realProp("wavelength", 1e-6, "Design wavelength [m]"),
		},
	},
	{
		Name:        "BlockElement",
		Parent:      "Element",
		Description: "Opaque rectangular block",
		Properties: []optics.PropertyDef{
			realProp("width", 0.05, "Block width along x [m]"),
			realProp("height", 0.05, "Block height along y [m]"),
			realProp("length", 0.1, "Block length along z [m]"),
		},
		Order:    []string{"width", "height", "length"},
		Ports:    []optics.PortDef{{Name: "topPort", Origin: origin("0", "0", "length")}},
		Geometry: &optics.GeometryDef{Shape: optics.ShapeBox, Width: "width", Height: "height", Length: "length"},
	},
	{
		Name:        "StlMesh",
		Parent:      "Element",
		Description: "Solid imported from an STL mesh file",
		Properties: []optics.PropertyDef{
			strProp("file", nil, "Path of the STL file"),
			realProp("scale", 0.05, "Edge length of the mesh bounds [m]"),
		},
		Required: []string{"file"},
		Geometry: &optics.GeometryDef{Shape: optics.ShapeBox, Width: "scale", Height: "scale", Length: "scale"},
	},
	{
		Name:        "GaussianBeamSource",
		Parent:      "RayBeamElement",
		Description: "Source emitting a Gaussian beam along its z axis",
		Properties: []optics.PropertyDef{
			realProp("waist", 1e-3, "Beam waist radius [m]"),
			realProp("power", 1e-3, "Optical power [W]"),
			intProp("rays", 64, "Number of traced rays"),
			realProp("radius", 0.005, "Housing radius [m]"),
		},
		Order:    []string{"waist", "power", "rays"},
		Ports:    []optics.PortDef{{Name: "outPort", Origin: origin("0", "0", "0.02")}},
		Geometry: &optics.GeometryDef{Shape: optics.ShapeCylinder, Radius: "radius", Length: "0.02"},
		Surfaces: []optics.SurfaceDef{
			{Name: "exitSurf", Shape: "CircularFlat", Processor: "Source", Z: "0.02", Radius: "waist"},
		},
	},
	{
		Name:        "FlatMirror",
		Parent:      "RayBeamElement",
		Description: "Flat circular mirror",
		Properties: []optics.PropertyDef{
			realProp("radius", 0.0254, "Mirror radius [m]"),
			realProp("thickness", 0.006, "Substrate thickness [m]"),
			realProp("reflectivity", 1, "Power reflectivity of the coating [0..1]"),
		},
		Order:    []string{"radius", "thickness", "reflectivity"},
		Ports:    []optics.PortDef{{Name: "frontPort", Origin: origin("0", "0", "thickness")}},
		Geometry: &optics.GeometryDef{Shape: optics.ShapeCylinder, Radius: "radius", Length: "thickness"},
		Surfaces: []optics.SurfaceDef{
			{Name: "frontSurf", Shape: "CircularFlat", Processor: "FlatMirror", Z: "thickness", Radius: "radius"},
		},
	},
	{
		Name:        "SphericalLens",
		Parent:      "RayBeamElement",
		Description: "Lens with two spherical faces",
		Properties: []optics.PropertyDef{
			realProp("radius", 0.0127, "Clear aperture radius [m]"),
			realProp("thickness", 0.004, "Center thickness [m]"),
			realProp("rc1", 0.05, "Radius of curvature of the first face [m]"),
			realProp("rc2", -0.05, "Radius of curvature of the second face [m]"),
			strProp("glass", "N-BK7", "Glass catalog name"),
		},
		Ports: []optics.PortDef{
			{Name: "inPort", Origin: origin("0", "0", "0"), Rotation: [3]float64{0, 180, 0}},
			{Name: "outPort", Origin: origin("0", "0", "thickness")},
		},
		Geometry: &optics.GeometryDef{Shape: optics.ShapeCylinder, Radius: "radius", Length: "thickness"},
		Surfaces: []optics.SurfaceDef{
			{Name: "frontSurf", Shape: "CircularSpherical", Processor: "Refraction", Z: "0", Radius: "radius"},
			{Name: "backSurf", Shape: "CircularSpherical", Processor: "Refraction", Z: "thickness", Radius: "radius"},
		},
	},
	{
		Name:        "BeamSplitter",
		Parent:      "RayBeamElement",
		Description: "Plate beam splitter",
		Properties: []optics.PropertyDef{
			realProp("size", 0.0254, "Edge length of the plate [m]"),
			realProp("thickness", 0.003, "Plate thickness [m]"),
			realProp("ratio", 0.5, "Reflected fraction of the incident power [0..1]"),
			realProp("radius", 0.0125, "Coated aperture radius [m]"),
		},
		Order: []string{"size", "thickness", "ratio"},
		Ports: []optics.PortDef{
			{Name: "inPort", Origin: origin("0", "0", "0"), Rotation: [3]float64{0, 180, 0}},
			{Name: "reflPort", Origin: origin("0", "0", "0"), Rotation: [3]float64{0, 90, 0}},
			{Name: "transPort", Origin: origin("0", "0", "thickness")},
		},
		Geometry: &optics.GeometryDef{Shape: optics.ShapeBox, Width: "size", Height: "size", Length: "thickness"},
		Surfaces: []optics.SurfaceDef{
			{Name: "splitSurf", Shape: "CircularFlat", Processor: "BeamSplitter", Z: "0", Radius: "radius"},
			{Name: "backSurf", Shape: "CircularFlat", Processor: "Refraction", Z: "thickness", Radius: "radius"},
		},
	},
	{
		Name:        "ApertureStop",
		Parent:      "RayBeamElement",
		Description: "Opaque plate with a circular opening",
		Properties: []optics.PropertyDef{
			realProp("radius", 0.005, "Opening radius [m]"),
			realProp("size", 0.03, "Edge length of the plate [m]"),
		},
		Ports:    []optics.PortDef{{Name: "stopPort", Origin: origin("0", "0", "0.001")}},
		Geometry: &optics.GeometryDef{Shape: optics.ShapeBox, Width: "size", Height: "size", Length: "0.001"},
		Surfaces: []optics.SurfaceDef{
			{Name: "stopSurf", Shape: "CircularFlat", Processor: "Stop", Z: "0.001", Radius: "radius"},
		},
	},
	{
		Name:        "Detector",
		Parent:      "RayBeamElement",
		Description: "Pixelated detector recording irradiance",
		Properties: []optics.PropertyDef{
			realProp("size", 0.02, "Edge length of the sensor package [m]"),
			realProp("radius", 0.008, "Radius of the active area [m]"),
			intProp("cols", 512, "Pixel columns"),
			intProp("rows", 512, "Pixel rows"),
			boolProp("flip", false, "Turn the detector to face the opposite direction"),
		},
		Order:    []string{"size", "radius", "cols", "rows", "flip"},
		Ports:    []optics.PortDef{{Name: "detPort", Origin: origin("0", "0", "0.005")}},
		Geometry: &optics.GeometryDef{Shape: optics.ShapeBox, Width: "size", Height: "size", Length: "0.005", Flip: "flip"},
		Surfaces: []optics.SurfaceDef{
			{Name: "detSurf", Shape: "CircularFlat", Processor: "Detector", Z: "0.005", Radius: "radius"},
		},
	},
	phaseScreen(),
}

// phaseScreen declares a thin plate applying a Zernike wavefront error.
func phaseScreen() optics.TypeDef {
	props := []optics.PropertyDef{
		realProp("radius", 0.0127, "Pupil radius [m]"),
	}
	for i := 0; i < zernikeTerms; i++ {
		props = append(props, realProp(fmt.Sprintf("Z%d", i), 0, fmt.Sprintf("Zernike coefficient %d (Noll order) [waves]", i+1)))
	}
	order := make([]string, len(props))
	for i, p := range props {
		order[i] = p.Name
	}
	return optics.TypeDef{
		Name:        "PhaseScreen",
		Parent:      "RayBeamElement",
		Description: "Thin plate adding a Zernike wavefront error",
		Properties:  props,
		Order:       order,
		Ports: []optics.PortDef{
			{Name: "inPort", Origin: origin("0", "0", "0"), Rotation: [3]float64{0, 180, 0}},
			{Name: "outPort", Origin: origin("0", "0", "0.002")},
		},
		Geometry: &optics.GeometryDef{Shape: optics.ShapeCylinder, Radius: "radius", Length: "0.002"},
		Surfaces: []optics.SurfaceDef{
			{Name: "screenSurf", Shape: "CircularFlat", Processor: "PhaseScreen", Z: "0.001", Radius: "radius"},
		},
	}
}

// seedBuiltInTypes registers the built-in catalog if element_types is empty.
func seedBuiltInTypes(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM element_types").Scan(&count); err != nil {
		return fmt.Errorf("counting element types: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(upsertSQL)
	if err != nil {
		return fmt.Errorf("preparing seed insert: %w", err)
	}
	defer stmt.Close()

	for _, def := range builtInTypes {
		if err := upsertTypeDef(stmt, def); err != nil {
			return fmt.Errorf("seeding %s: %w", def.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed transaction: %w", err)
	}
	return nil
}
