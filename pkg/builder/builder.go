// Package builder turns a resolved ComputationRequest into the exact HTTP
// call the CSRS tools expect: a GET with an ordered query for single points,
// or a multipart upload for batch files.
package builder

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/geodetic-tools/pkg/catalog"
	"github.com/go-go-golems/geodetic-tools/pkg/epoch"
	"github.com/go-go-golems/geodetic-tools/pkg/geoerr"
	"github.com/go-go-golems/geodetic-tools/pkg/request"
)

const (
	toolsPrefix = "/CSRS/tools/"
	dataType    = "json"
	batchMime   = "text/plain"
	batchField  = "file"
)

// VelocitySource answers the TRX velocity interpolation call
type VelocitySource interface {
	InterpolateVelocity(ctx context.Context, call *SinglePointCall) (request.Velocity, error)
}

type Builder struct {
	Lang string
}

func New(lang string) *Builder {
	if lang == "" {
		lang = "en"
	}
	return &Builder{Lang: lang}
}

// BuildWithInterpolation fetches interpolated velocities first when req needs
// them, then builds the final call from the updated request.
func (b *Builder) BuildWithInterpolation(ctx context.Context, req *request.ComputationRequest, src VelocitySource) (OutboundCall, error) {
	if req.NeedsVelocityInterpolation() {
		if src == nil {
			return nil, fmt.Errorf("velocity interpolation required but no velocity source configured")
		}
		vc := b.VelocityCall(req)
		log.Debug().Str("path", vc.URLPath).Msg("builder: requesting velocity interpolation")
		v, err := src.InterpolateVelocity(ctx, vc)
		if err != nil {
			return nil, fmt.Errorf("failed to interpolate velocity: %w", err)
		}
		req = req.WithInterpolatedVelocity(v)
	}
	return b.Build(req)
}

// Build assembles the call for req. Batch requests read the source file.
func (b *Builder) Build(req *request.ComputationRequest) (OutboundCall, error) {
	if req.IsBatch() {
		c, err := b.batch(req)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	c, err := b.single(req)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// VelocityCall is the read-only TRX sub request returning VX, VY and VZ.
func (b *Builder) VelocityCall(req *request.ComputationRequest) *SinglePointCall {
	c := coords(req)
	q := newParams()
	q.Set("dataType", dataType)
	q.Set("epoch", epochValue(req.Epoch))
	q.Set("destepoch", epochValue(req.DestEpoch))
	q.Set("frame", code(req.OriginFrame))
	q.Set("x", c.X)
	q.Set("y", c.Y)
	q.Set("z", c.Z)
	q.Set("destframe", code(req.DestFrame))
	q.Set("destproj", string(req.Destination))
	q.Set("westpos", trueFalse(req.Flags.WestPositive))
	return &SinglePointCall{
		Tool:    req.Kind.Tool(),
		URLPath: toolsPrefix + "TRX/vel/" + pathSegment(string(req.Origin)),
		Query:   q,
	}
}

func (b *Builder) single(req *request.ComputationRequest) (*SinglePointCall, error) {
	c := coords(req)
	q := newParams()
	q.Set("dataType", dataType)
	var path string

	switch req.Kind {
	case request.HeightConversion, request.GeoidConversion:
		if req.Model == nil {
			return nil, fmt.Errorf("gpsh request without a model")
		}
		path = toolsPrefix + "GPSH/" + pathSegment(req.Model.Code)
		q.Set("lang", b.Lang)
		q.Set("epoch", epochValue(req.Epoch))
		q.Set("frame", code(req.OriginFrame))
		q.Set("proj", string(req.Origin))
		q.Set("x", c.X)
		q.Set("y", c.Y)
		q.Set("z", c.Z)
		q.Set("zone", code(req.OriginZone))
		q.Set("westpos", trueFalse(req.Flags.WestPositive))
		q.Set("hmode", onOff(req.Flags.HeightMode))
		q.Set("conversion", conversionFlag(req))

	case request.Geodesy:
		if req.Model == nil {
			return nil, fmt.Errorf("indir request without an ellipsoid")
		}
		path = toolsPrefix + "INDIR/" + direction(req.Flags.Inverse) + "/" + pathSegment(req.Model.Code)
		q.Set("lang", b.Lang)
		q.Set("westpos", trueFalse(req.Flags.WestPositive))
		q.Set("ellipsoid", req.Model.Code)
		q.Set("3d", trueFalse(req.Flags.ThreeDimensional))
		q.Set("x", c.X)
		q.Set("y", c.Y)
		q.Set("z", c.Z)
		q.Set("dis", c.Distance)
		q.Set("azi", c.Azimuth)
		q.Set("zen", c.Zenith)
		q.Set("dh", c.DeltaH)
		q.Set("x2", c.X2)
		q.Set("y2", c.Y2)
		q.Set("z2", c.Z2)

	case request.GridShift:
		if req.Model == nil {
			return nil, fmt.Errorf("ntv2 request without a grid")
		}
		path = toolsPrefix + "NTV2/" + direction(req.Flags.Inverse)
		q.Set("lang", b.Lang)
		q.Set("proj", string(req.Origin))
		q.Set("zone", code(req.OriginZone))
		q.Set("westpos", trueFalse(req.Flags.WestPositive))
		q.Set("x", c.X)
		q.Set("y", c.Y)
		q.Set("grid", req.Model.Code)
		q.Set("destproj", string(req.Destination))
		q.Set("destzone", gridDestZone(req))

	case request.FrameEpochTransform:
		path = toolsPrefix + "TRX/calc/" + pathSegment(string(req.Origin))
		interp := onOff(req.Velocity == nil || req.VelocityInterpolated)
		var v request.Velocity
		if req.Velocity != nil {
			v = *req.Velocity
		}
		q.Set("westpos", trueFalse(req.Flags.WestPositive))
		q.Set("epoch_trans", onOff(req.Flags.EpochTransform))
		q.Set("frame", code(req.OriginFrame))
		q.Set("epoch", epochValue(req.Epoch))
		q.Set("x", c.X)
		q.Set("y", c.Y)
		q.Set("z", c.Z)
		q.Set("zone", code(req.OriginZone))
		q.Set("geovinterp", interp)
		q.Set("vx", v.VX)
		q.Set("vy", v.VY)
		q.Set("vz", v.VZ)
		q.Set("carvinterp", interp)
		q.Set("planvinterp", interp)
		q.Set("destframe", code(req.DestFrame))
		q.Set("destproj", string(req.Destination))
		q.Set("destzone", code(req.DestZone))
		q.Set("destepoch", epochValue(req.DestEpoch))

	default:
		return nil, fmt.Errorf("unsupported transformation kind %s", req.Kind)
	}

	return &SinglePointCall{Tool: req.Kind.Tool(), URLPath: path, Query: q}, nil
}

func (b *Builder) batch(req *request.ComputationRequest) (*BatchCall, error) {
	f := newParams()
	f.Set("lang", b.Lang)

	switch req.Kind {
	case request.HeightConversion, request.GeoidConversion:
		if req.Model == nil {
			return nil, fmt.Errorf("gpsh request without a model")
		}
		conversionModel := ""
		if req.Kind == request.GeoidConversion {
			conversionModel = req.Model.Code
		}
		grav := ""
		if req.Flags.GravityEstimate {
			grav = "on"
		}
		f.Set("conversionModel", conversionModel)
		f.Set("batchdestdatum", req.Model.Attr(catalog.AttrVerticalDatum))
		f.Set("geoidModel", req.Model.Code)
		f.Set("model", req.Model.Code)
		f.Set("frame", code(req.OriginFrame))
		f.Set("epoch", epochValue(req.Epoch))
		f.Set("grav", grav)
		f.Set("conversion", conversionFlag(req))

	case request.Geodesy:
		if req.Model == nil {
			return nil, fmt.Errorf("indir request without an ellipsoid")
		}
		f.Set("ellipsoid", req.Model.Code)
		f.Set("3d", onOff(req.Flags.ThreeDimensional))

	case request.GridShift:
		if req.Model == nil {
			return nil, fmt.Errorf("ntv2 request without a grid")
		}
		f.Set("grid", req.Model.Code)
		f.Set("destproj", string(req.Destination))
		f.Set("destzone", gridDestZone(req))
		f.Set("dir", direction(req.Flags.Inverse))

	case request.FrameEpochTransform:
		f.Set("epochTrans", onOff(req.Flags.EpochTransform))
		f.Set("frame", code(req.OriginFrame))
		f.Set("epoch", epochValue(req.Epoch))
		f.Set("destframe", code(req.DestFrame))
		f.Set("destproj", string(req.Destination))
		f.Set("destepoch", epochValue(req.DestEpoch))

	default:
		return nil, fmt.Errorf("unsupported transformation kind %s", req.Kind)
	}

	content, err := readSource(req.Batch.SourceFilePath)
	if err != nil {
		return nil, err
	}
	return &BatchCall{
		Tool:    req.Kind.Tool(),
		URLPath: toolsPrefix + req.Kind.Tool() + "/upload",
		Fields:  f,
		File: FilePart{
			FieldName: batchField,
			FileName:  filepath.Base(req.Batch.SourceFilePath),
			Content:   content,
			MimeType:  batchMime,
		},
		ResultFileName: req.Batch.ResultFileName,
	}, nil
}

func readSource(path string) ([]byte, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, &geoerr.FileSystemError{Op: "open", Path: path, Err: err}
	}
	defer func() {
		_ = fh.Close()
	}()
	b, err := io.ReadAll(fh)
	if err != nil {
		return nil, &geoerr.FileSystemError{Op: "read", Path: path, Err: err}
	}
	return b, nil
}

func coords(req *request.ComputationRequest) request.Coordinates {
	if req.Coordinates == nil {
		return request.Coordinates{}
	}
	return *req.Coordinates
}

// gridDestZone falls back to the grid's placeholder zone for a projection
// destination without a zone.
func gridDestZone(req *request.ComputationRequest) string {
	if req.DestZone != nil {
		return req.DestZone.Code
	}
	if req.Destination == request.Projection && req.Model != nil {
		return req.Model.Attr(catalog.AttrDefaultDestZone)
	}
	return ""
}

func conversionFlag(req *request.ComputationRequest) string {
	if req.Kind == request.GeoidConversion {
		return "on"
	}
	return ""
}

// pathSegment percent-encodes a catalog code for use inside a URL path,
// including spaces and parentheses.
func pathSegment(s string) string {
	return url.PathEscape(s)
}

func code(e *catalog.Entry) string {
	if e == nil {
		return ""
	}
	return e.Code
}

func epochValue(e *epoch.Resolved) string {
	if e == nil {
		return ""
	}
	return e.Value
}

func direction(inverse bool) string {
	if inverse {
		return "inverse"
	}
	return "direct"
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func trueFalse(b bool) string {
	return strconv.FormatBool(b)
}
