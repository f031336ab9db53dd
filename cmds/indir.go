package cmds

import (
	"context"

	gcmds "github.com/go-go-golems/glazed/pkg/cmds"
	glayers "github.com/go-go-golems/glazed/pkg/cmds/layers"

	"github.com/go-go-golems/geodetic-tools/pkg/request"
)

type INDIRCommand struct{ *gcmds.CommandDescription }

type INDIRSettings struct {
	Ellipsoid    string `glazed.parameter:"ellipsoid"`
	ThreeD       string `glazed.parameter:"3d"`
	Inverse      string `glazed.parameter:"inverse"`
	WestPositive string `glazed.parameter:"westpos"`
	X1           string `glazed.parameter:"x1"`
	Y1           string `glazed.parameter:"y1"`
	Z1           string `glazed.parameter:"z1"`
	X2           string `glazed.parameter:"x2"`
	Y2           string `glazed.parameter:"y2"`
	Z2           string `glazed.parameter:"z2"`
	DeltaH       string `glazed.parameter:"dh"`
	File         string `glazed.parameter:"file"`
	DownloadPath string `glazed.parameter:"download-path"`
	NoColor      bool   `glazed.parameter:"no-color"`
}

func NewINDIRCommand() (*INDIRCommand, error) {
	cd, err := newToolDescription(
		"indir",
		"Inverse and direct geodetic problems on an ellipsoid (INDIR)",
		"Inverse: distance and azimuths between two points. Direct: second point from a distance, azimuth and,\n"+
			"in 3D, a zenith angle or height difference. For direct, x2/y2/z2 are distance/azimuth/zenith.",
		defaultedFlag("ellipsoid", "Ellipsoid name", "GRS80"),
		toggleFlag("3d", "Three dimensional computation"),
		toggleFlag("inverse", "Solve the inverse problem instead of the direct one"),
		defaultedToggle("westpos", "Longitudes are positive west", "true"),
		stringFlag("x1", "Latitude of the first point"),
		stringFlag("y1", "Longitude of the first point"),
		stringFlag("z1", "Height of the first point (3D)"),
		stringFlag("x2", "Latitude of the second point, or distance (direct)"),
		stringFlag("y2", "Longitude of the second point, or azimuth (direct)"),
		stringFlag("z2", "Height of the second point, or zenith angle (direct)"),
		stringFlag("dh", "Height difference (direct, 3D)"),
	)
	if err != nil {
		return nil, err
	}
	return &INDIRCommand{cd}, nil
}

func (s *INDIRSettings) Input() request.Input {
	return request.Input{
		Ellipsoid: s.Ellipsoid, ThreeD: s.ThreeD, Inverse: s.Inverse, WestPositive: s.WestPositive,
		X: s.X1, Y: s.Y1, Z: s.Z1, X2: s.X2, Y2: s.Y2, Z2: s.Z2, DeltaH: s.DeltaH,
		BatchFile: s.File, DownloadPath: s.DownloadPath,
	}
}

func (c *INDIRCommand) Run(ctx context.Context, parsed *glayers.ParsedLayers) error {
	s := &INDIRSettings{}
	if err := parsed.InitializeStruct(glayers.DefaultSlug, s); err != nil {
		return err
	}
	return exitOnError(runTool(ctx, parsed, request.Geodesy, s.Input(), s.NoColor))
}

var _ gcmds.BareCommand = &INDIRCommand{}
