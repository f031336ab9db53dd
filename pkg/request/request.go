// Package request turns raw user input into a validated ComputationRequest.
//
// Resolve checks the input formats, resolves catalog tokens and epochs, then
// applies the rules of the selected Kind: which fields are required, which
// option combinations conflict and which flags are derived. Nothing in this
// package touches the network or the file system.
package request

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-go-golems/geodetic-tools/pkg/catalog"
	"github.com/go-go-golems/geodetic-tools/pkg/epoch"
)

// CoordinateSystem is the service token of a coordinate system
type CoordinateSystem string

const (
	Geographic CoordinateSystem = "geo"
	Cartesian  CoordinateSystem = "car"
	Projection CoordinateSystem = "plan"
)

type Flags struct {
	ThreeDimensional bool
	Inverse          bool
	WestPositive     bool
	HeightMode       bool
	EpochTransform   bool
	GravityEstimate  bool
}

// Coordinates are kept as the strings the user typed.
type Coordinates struct {
	X, Y, Z    string
	X2, Y2, Z2 string
	Distance   string
	Azimuth    string
	Zenith     string
	DeltaH     string
}

type Velocity struct {
	VX, VY, VZ string
}

// BatchJob describes a bulk upload and where its result goes
type BatchJob struct {
	SourceFilePath string
	ResultFileName string
	DownloadPath   string
}

// ComputationRequest is a fully validated unit of work. Exactly one of
// Coordinates and Batch is set.
type ComputationRequest struct {
	Kind        Kind
	Origin      CoordinateSystem
	Destination CoordinateSystem

	OriginZone  *catalog.Entry
	DestZone    *catalog.Entry
	OriginFrame *catalog.Entry
	DestFrame   *catalog.Entry
	// Model is the geoid, conversion pair, ellipsoid or grid depending on Kind
	Model *catalog.Entry

	Epoch     *epoch.Resolved
	DestEpoch *epoch.Resolved

	Flags       Flags
	Coordinates *Coordinates
	Velocity    *Velocity
	Batch       *BatchJob

	// VelocityInterpolated marks a Velocity that came from the service
	VelocityInterpolated bool
}

func (r *ComputationRequest) IsBatch() bool {
	return r.Batch != nil
}

// NeedsVelocityInterpolation is true when the service has to supply velocities
// before the main calculation.
func (r *ComputationRequest) NeedsVelocityInterpolation() bool {
	return r.Kind == FrameEpochTransform && !r.IsBatch() && r.Flags.EpochTransform && r.Velocity == nil
}

// WithInterpolatedVelocity returns a copy of r carrying the service supplied v
func (r *ComputationRequest) WithInterpolatedVelocity(v Velocity) *ComputationRequest {
	cp := *r
	cp.Velocity = &v
	cp.VelocityInterpolated = true
	return &cp
}

// Advisory is a non-fatal note produced while resolving a request
type Advisory struct {
	Field   string
	Message string
}

func (a Advisory) String() string {
	if a.Field == "" {
		return a.Message
	}
	return fmt.Sprintf("%s: %s", a.Field, a.Message)
}

// ResultFileName is batch_<tool>_output<ext of source>
func ResultFileName(kind Kind, source string) string {
	return fmt.Sprintf("batch_%s_output%s", strings.ToLower(kind.Tool()), filepath.Ext(source))
}
