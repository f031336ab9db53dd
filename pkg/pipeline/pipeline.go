// Package pipeline runs one transformation end to end: resolve the raw
// input, build the call (fetching TRX velocities first when needed), send it
// and interpret what comes back.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/geodetic-tools/pkg/builder"
	"github.com/go-go-golems/geodetic-tools/pkg/catalog"
	"github.com/go-go-golems/geodetic-tools/pkg/geoerr"
	"github.com/go-go-golems/geodetic-tools/pkg/output"
	"github.com/go-go-golems/geodetic-tools/pkg/request"
	"github.com/go-go-golems/geodetic-tools/pkg/response"
)

// Client is the transport used by the runner. *csrs.Client satisfies it.
type Client interface {
	Get(ctx context.Context, call *builder.SinglePointCall) ([]byte, error)
	Upload(ctx context.Context, call *builder.BatchCall) ([]byte, error)
}

type Runner struct {
	Client   Client
	Builder  *builder.Builder
	Catalogs *catalog.Set
}

func NewRunner(c Client, b *builder.Builder) *Runner {
	if b == nil {
		b = builder.New("")
	}
	return &Runner{Client: c, Builder: b}
}

// Result of one run. Response is set for single points, OutputPath for
// batches.
type Result struct {
	Kind       request.Kind
	Request    *request.ComputationRequest
	Response   response.ServiceResponse
	Advisories []request.Advisory
	OutputPath string
}

// Run resolves in for kind and executes it. Advisories gathered before a
// failure are still returned in the partial Result.
func (r *Runner) Run(ctx context.Context, kind request.Kind, in request.Input) (*Result, error) {
	req, advisories, err := request.Resolve(kind, in, r.Catalogs)
	res := &Result{Kind: kind, Advisories: advisories}
	if err != nil {
		return res, err
	}
	for _, a := range advisories {
		log.Debug().Str("field", a.Field).Str("kind", kind.String()).Str("advisory", a.Message).Msg("pipeline: advisory")
	}
	interpolate := req.NeedsVelocityInterpolation()

	call, err := r.Builder.BuildWithInterpolation(ctx, req, r)
	if err != nil {
		return res, err
	}

	switch c := call.(type) {
	case *builder.SinglePointCall:
		if interpolate {
			req = req.WithInterpolatedVelocity(velocityFrom(c))
		}
		res.Request = req
		resp, err := r.single(ctx, c)
		if err != nil {
			return res, err
		}
		res.Response = resp
	case *builder.BatchCall:
		res.Request = req
		path, err := r.batch(ctx, c, req.Batch)
		if err != nil {
			return res, err
		}
		res.OutputPath = path
	default:
		return res, fmt.Errorf("unsupported call type %T", call)
	}
	return res, nil
}

func velocityFrom(c *builder.SinglePointCall) request.Velocity {
	return request.Velocity{VX: c.Get("vx"), VY: c.Get("vy"), VZ: c.Get("vz")}
}

func (r *Runner) single(ctx context.Context, c *builder.SinglePointCall) (response.ServiceResponse, error) {
	body, err := r.Client.Get(ctx, c)
	if err != nil {
		return response.ServiceResponse{}, err
	}
	resp := response.Interpret(body)
	if !resp.Parsed() {
		return resp, &geoerr.TransportError{URL: c.URLPath, Err: fmt.Errorf("unparseable response body")}
	}
	if resp.HasError() {
		return resp, &geoerr.ServiceError{Message: resp.Error}
	}
	return resp, nil
}

func (r *Runner) batch(ctx context.Context, c *builder.BatchCall, job *request.BatchJob) (string, error) {
	body, err := r.Client.Upload(ctx, c)
	if err != nil {
		return "", err
	}
	if resp := response.Interpret(body); resp.HasError() {
		return "", &geoerr.ServiceError{Message: resp.Error}
	}

	name := c.ResultFileName
	if output.IsZip(name) {
		if err := output.VerifyZip(name, body); err != nil {
			return "", err
		}
	}
	path, err := output.WriteResult(filepath.Dir(job.SourceFilePath), name, body)
	if err != nil {
		return "", err
	}
	if job.DownloadPath != "" {
		if path, err = output.Move(path, job.DownloadPath); err != nil {
			return "", err
		}
	}
	log.Debug().Str("tool", c.Tool).Str("path", path).Msg("pipeline: batch result saved")
	return path, nil
}

// InterpolateVelocity answers the TRX velocity pre-call.
func (r *Runner) InterpolateVelocity(ctx context.Context, c *builder.SinglePointCall) (request.Velocity, error) {
	body, err := r.Client.Get(ctx, c)
	if err != nil {
		return request.Velocity{}, err
	}
	resp := response.Interpret(body)
	if !resp.Parsed() {
		return request.Velocity{}, &geoerr.TransportError{URL: c.URLPath, Err: fmt.Errorf("unparseable velocity response")}
	}
	if resp.HasError() {
		return request.Velocity{}, &geoerr.ServiceError{Message: resp.Error}
	}

	var v request.Velocity
	var missing []string
	for _, f := range []struct {
		key string
		dst *string
	}{{"VX", &v.VX}, {"VY", &v.VY}, {"VZ", &v.VZ}} {
		s, ok := resp.Field(f.key)
		if !ok {
			missing = append(missing, f.key)
			continue
		}
		*f.dst = s
	}
	if len(missing) > 0 {
		return request.Velocity{}, &geoerr.ServiceError{Message: fmt.Sprintf("velocity response is missing %v", missing)}
	}
	log.Debug().Str("vx", v.VX).Str("vy", v.VY).Str("vz", v.VZ).Msg("pipeline: velocity interpolated")
	return v, nil
}
