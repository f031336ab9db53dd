package cmds

import (
	"context"

	gcmds "github.com/go-go-golems/glazed/pkg/cmds"
	glayers "github.com/go-go-golems/glazed/pkg/cmds/layers"

	"github.com/go-go-golems/geodetic-tools/pkg/request"
)

type TRXCommand struct{ *gcmds.CommandDescription }

type TRXSettings struct {
	OriginFrame    string `glazed.parameter:"origin-frame"`
	OriginEpoch    string `glazed.parameter:"origin-epoch"`
	DestFrame      string `glazed.parameter:"dest-frame"`
	DestEpoch      string `glazed.parameter:"dest-epoch"`
	EpochTransform string `glazed.parameter:"epoch-trans"`
	OriginCoord    string `glazed.parameter:"origin-coord"`
	OriginZone     string `glazed.parameter:"origin-zone"`
	DestCoord      string `glazed.parameter:"dest-coord"`
	DestZone       string `glazed.parameter:"dest-zone"`
	WestPositive   string `glazed.parameter:"westpos"`
	X              string `glazed.parameter:"x"`
	Y              string `glazed.parameter:"y"`
	Z              string `glazed.parameter:"z"`
	VX             string `glazed.parameter:"vx"`
	VY             string `glazed.parameter:"vy"`
	VZ             string `glazed.parameter:"vz"`
	File           string `glazed.parameter:"file"`
	DownloadPath   string `glazed.parameter:"download-path"`
	NoColor        bool   `glazed.parameter:"no-color"`
}

func NewTRXCommand() (*TRXCommand, error) {
	cd, err := newToolDescription(
		"trx",
		"Transform between reference frames and epochs (TRX)",
		"Transforms coordinates between ITRF and NAD83(CSRS) frames. With --epoch-trans on the\n"+
			"coordinates are also moved to --dest-epoch, using the given velocities or, when none are\n"+
			"given, velocities interpolated by the service.",
		defaultedFlag("origin-frame", "Reference frame of the input", "NAD83"),
		defaultedFlag("origin-epoch", "Epoch of the input as YYYY-MM-DD or decimal year", "2010-01-01"),
		defaultedFlag("dest-frame", "Reference frame of the output", "NAD83"),
		stringFlag("dest-epoch", "Epoch of the output (requires --epoch-trans on)"),
		toggleFlag("epoch-trans", "Propagate coordinates to the destination epoch"),
		coordFlag("origin-coord", "Coordinate system of the input"),
		stringFlag("origin-zone", "Projection zone of the input"),
		coordFlag("dest-coord", "Coordinate system of the output"),
		stringFlag("dest-zone", "Projection zone of the output"),
		defaultedToggle("westpos", "Longitudes are positive west", "true"),
		stringFlag("x", "Latitude, X or northing"),
		stringFlag("y", "Longitude, Y or easting"),
		defaultedFlag("z", "Height or Z", "0.0"),
		stringFlag("vx", "Velocity along X/north in m/year"),
		stringFlag("vy", "Velocity along Y/east in m/year"),
		stringFlag("vz", "Velocity along Z/up in m/year"),
	)
	if err != nil {
		return nil, err
	}
	return &TRXCommand{cd}, nil
}

func (s *TRXSettings) Input() request.Input {
	return request.Input{
		OriginFrame: s.OriginFrame, Epoch: s.OriginEpoch, DestFrame: s.DestFrame, DestEpoch: s.DestEpoch,
		EpochTransform: s.EpochTransform, OriginCoord: s.OriginCoord, OriginZone: s.OriginZone,
		DestCoord: s.DestCoord, DestZone: s.DestZone, WestPositive: s.WestPositive,
		X: s.X, Y: s.Y, Z: s.Z, VX: s.VX, VY: s.VY, VZ: s.VZ,
		BatchFile: s.File, DownloadPath: s.DownloadPath,
	}
}

func (c *TRXCommand) Run(ctx context.Context, parsed *glayers.ParsedLayers) error {
	s := &TRXSettings{}
	if err := parsed.InitializeStruct(glayers.DefaultSlug, s); err != nil {
		return err
	}
	return exitOnError(runTool(ctx, parsed, request.FrameEpochTransform, s.Input(), s.NoColor))
}

var _ gcmds.BareCommand = &TRXCommand{}
