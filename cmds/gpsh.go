package cmds

import (
	"context"

	gcmds "github.com/go-go-golems/glazed/pkg/cmds"
	glayers "github.com/go-go-golems/glazed/pkg/cmds/layers"

	"github.com/go-go-golems/geodetic-tools/pkg/request"
)

type GPSHCommand struct{ *gcmds.CommandDescription }

type GPSHSettings struct {
	Geoid           string `glazed.parameter:"geoid"`
	Convert         string `glazed.parameter:"convert"`
	Frame           string `glazed.parameter:"frame"`
	Epoch           string `glazed.parameter:"epoch"`
	Coord           string `glazed.parameter:"coord"`
	Zone            string `glazed.parameter:"zone"`
	X               string `glazed.parameter:"x"`
	Y               string `glazed.parameter:"y"`
	Z               string `glazed.parameter:"z"`
	WestPositive    string `glazed.parameter:"westpos"`
	HeightMode      string `glazed.parameter:"hmode"`
	GravityEstimate string `glazed.parameter:"est-gravity"`
	File            string `glazed.parameter:"file"`
	DownloadPath    string `glazed.parameter:"download-path"`
	NoColor         bool   `glazed.parameter:"no-color"`
}

func NewGPSHCommand() (*GPSHCommand, error) {
	cd, err := newToolDescription(
		"gpsh",
		"Convert ellipsoidal and orthometric heights (GPS-H)",
		"Converts heights with a geoid model, or between two geoid models with --convert.",
		defaultedFlag("geoid", "Geoid model", "CGG2013a"),
		stringFlag("convert", "Geoid conversion pair, e.g. CGG2013a_HT2_2010; replaces --geoid"),
		defaultedFlag("frame", "Reference frame of the input", "NAD83"),
		defaultedFlag("epoch", "Epoch as YYYY-MM-DD or decimal year", "1997-01-01"),
		coordFlag("coord", "Coordinate system of the input"),
		stringFlag("zone", "Projection zone when --coord plan"),
		defaultedToggle("westpos", "Longitudes are positive west", "true"),
		stringFlag("x", "Latitude, X or northing"),
		stringFlag("y", "Longitude, Y or easting"),
		stringFlag("z", "Height or Z"),
		toggleFlag("hmode", "Input heights are orthometric"),
		toggleFlag("est-gravity", "Estimate gravity values"),
	)
	if err != nil {
		return nil, err
	}
	return &GPSHCommand{cd}, nil
}

func (s *GPSHSettings) Input() request.Input {
	return request.Input{
		Geoid: s.Geoid, Conversion: s.Convert, OriginFrame: s.Frame, Epoch: s.Epoch,
		OriginCoord: s.Coord, OriginZone: s.Zone, WestPositive: s.WestPositive, X: s.X, Y: s.Y, Z: s.Z,
		HeightMode: s.HeightMode, GravityEstimate: s.GravityEstimate,
		BatchFile: s.File, DownloadPath: s.DownloadPath,
	}
}

// Kind picks a geoid conversion when a conversion pair is given
func (s *GPSHSettings) Kind() request.Kind {
	if s.Convert != "" {
		return request.GeoidConversion
	}
	return request.HeightConversion
}

func (c *GPSHCommand) Run(ctx context.Context, parsed *glayers.ParsedLayers) error {
	s := &GPSHSettings{}
	if err := parsed.InitializeStruct(glayers.DefaultSlug, s); err != nil {
		return err
	}
	return exitOnError(runTool(ctx, parsed, s.Kind(), s.Input(), s.NoColor))
}

var _ gcmds.BareCommand = &GPSHCommand{}
