package cmds

import (
	"context"

	gcmds "github.com/go-go-golems/glazed/pkg/cmds"
	glayers "github.com/go-go-golems/glazed/pkg/cmds/layers"

	"github.com/go-go-golems/geodetic-tools/pkg/request"
)

type NTV2Command struct{ *gcmds.CommandDescription }

type NTV2Settings struct {
	Grid         string `glazed.parameter:"grid"`
	OriginCoord  string `glazed.parameter:"origin-coord"`
	OriginZone   string `glazed.parameter:"origin-zone"`
	DestCoord    string `glazed.parameter:"dest-coord"`
	DestZone     string `glazed.parameter:"dest-zone"`
	Inverse      string `glazed.parameter:"inverse"`
	WestPositive string `glazed.parameter:"westpos"`
	X            string `glazed.parameter:"x"`
	Y            string `glazed.parameter:"y"`
	Z            string `glazed.parameter:"z"`
	File         string `glazed.parameter:"file"`
	DownloadPath string `glazed.parameter:"download-path"`
	NoColor      bool   `glazed.parameter:"no-color"`
}

func NewNTV2Command() (*NTV2Command, error) {
	cd, err := newToolDescription(
		"ntv2",
		"Datum grid shift with an NTv2 grid (NTV2)",
		"Shifts coordinates between datums with a national or provincial NTv2 grid.\n"+
			"Run 'geodetic-tools catalog --name grids' for the available grids.",
		defaultedFlag("grid", "NTv2 grid", "NTV2"),
		coordFlag("origin-coord", "Coordinate system of the input"),
		stringFlag("origin-zone", "Projection zone of the input"),
		coordFlag("dest-coord", "Coordinate system of the output"),
		stringFlag("dest-zone", "Projection zone of the output"),
		toggleFlag("inverse", "Apply the grid backwards"),
		defaultedToggle("westpos", "Longitudes are positive west", "true"),
		stringFlag("x", "Latitude or northing"),
		stringFlag("y", "Longitude or easting"),
		stringFlag("z", "Height"),
	)
	if err != nil {
		return nil, err
	}
	return &NTV2Command{cd}, nil
}

func (s *NTV2Settings) Input() request.Input {
	return request.Input{
		Grid: s.Grid, OriginCoord: s.OriginCoord, OriginZone: s.OriginZone,
		DestCoord: s.DestCoord, DestZone: s.DestZone, Inverse: s.Inverse, WestPositive: s.WestPositive,
		X: s.X, Y: s.Y, Z: s.Z,
		BatchFile: s.File, DownloadPath: s.DownloadPath,
	}
}

func (c *NTV2Command) Run(ctx context.Context, parsed *glayers.ParsedLayers) error {
	s := &NTV2Settings{}
	if err := parsed.InitializeStruct(glayers.DefaultSlug, s); err != nil {
		return err
	}
	return exitOnError(runTool(ctx, parsed, request.GridShift, s.Input(), s.NoColor))
}

var _ gcmds.BareCommand = &NTV2Command{}
