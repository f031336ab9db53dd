package request

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-go-golems/geodetic-tools/pkg/catalog"
	"github.com/go-go-golems/geodetic-tools/pkg/epoch"
	"github.com/go-go-golems/geodetic-tools/pkg/geoerr"
)

// Resolve validates in for kind against cats and returns the resulting
// request together with any advisories raised on the way.
func Resolve(kind Kind, in Input, cats *catalog.Set) (*ComputationRequest, []Advisory, error) {
	if !kind.Valid() {
		return nil, nil, fmt.Errorf("unknown transformation kind %d", int(kind))
	}
	if cats == nil {
		cats = catalog.Builtin()
	}
	in = in.normalized()
	if err := in.Validate(); err != nil {
		return nil, nil, err
	}

	r := &resolver{kind: kind, in: in, cats: cats}
	if err := r.common(); err != nil {
		return nil, nil, err
	}

	var err error
	switch kind {
	case HeightConversion:
		err = r.heightConversion()
	case GeoidConversion:
		err = r.geoidConversion()
	case Geodesy:
		err = r.geodesy()
	case GridShift:
		err = r.gridShift()
	case FrameEpochTransform:
		err = r.frameEpochTransform()
	}
	if err != nil {
		return nil, nil, err
	}
	return r.req, r.advisories, nil
}

type resolver struct {
	kind       Kind
	in         Input
	cats       *catalog.Set
	req        *ComputationRequest
	advisories []Advisory
}

func (r *resolver) advise(field, format string, a ...interface{}) {
	r.advisories = append(r.advisories, Advisory{Field: field, Message: fmt.Sprintf(format, a...)})
}

func (r *resolver) batch() bool {
	return r.in.BatchFile != ""
}

// common applies the checks shared by every kind and fills the parts of the
// request that do not depend on it.
func (r *resolver) common() error {
	in := r.in

	set := 0
	for _, v := range []string{in.VX, in.VY, in.VZ} {
		if v != "" {
			set++
		}
	}
	if set != 0 && set != 3 {
		return geoerr.NewValidationError(geoerr.IncompleteVelocity, "velocity", "",
			"enter all of vx, vy, vz or none of them to use interpolated velocities")
	}
	if set == 3 && r.kind != FrameEpochTransform {
		return geoerr.NewValidationError(geoerr.IncompatibleOptions, "velocity", "",
			"velocities only apply to frame/epoch transformations")
	}

	origin := coordinateSystem(in.OriginCoord)
	dest := origin
	if in.DestCoord != "" {
		dest = coordinateSystem(in.DestCoord)
	}
	if isOn(in.HeightMode) && (origin == Cartesian || dest == Cartesian) {
		return geoerr.NewValidationError(geoerr.IncompatibleOptions, "hmode", in.HeightMode,
			"orthometric height mode cannot be used with cartesian coordinates")
	}

	if in.DownloadPath != "" && !r.batch() {
		return geoerr.NewValidationError(geoerr.IncompatibleOptions, "download-path", in.DownloadPath,
			"a download path only applies to batch mode (file)")
	}

	r.req = &ComputationRequest{
		Kind:        r.kind,
		Origin:      origin,
		Destination: dest,
		Flags: Flags{
			ThreeDimensional: isOn(in.ThreeD),
			Inverse:          isOn(in.Inverse),
			WestPositive:     in.WestPositive == "" || isOn(in.WestPositive),
			HeightMode:       isOn(in.HeightMode),
			EpochTransform:   isOn(in.EpochTransform),
			GravityEstimate:  isOn(in.GravityEstimate),
		},
	}
	if set == 3 {
		r.req.Velocity = &Velocity{VX: in.VX, VY: in.VY, VZ: in.VZ}
	}
	if r.batch() {
		r.req.Batch = &BatchJob{
			SourceFilePath: in.BatchFile,
			ResultFileName: ResultFileName(r.kind, in.BatchFile),
			DownloadPath:   in.DownloadPath,
		}
	} else {
		r.req.Coordinates = &Coordinates{X: in.X, Y: in.Y, Z: in.Z}
	}
	return nil
}

func coordinateSystem(token string) CoordinateSystem {
	if token == "" {
		return Geographic
	}
	return CoordinateSystem(token)
}

// zones resolves both zone tokens. A projection origin must name its zone; a
// projection destination without one is left for the service or the grid
// default to pick.
func (r *resolver) zones(originLabel string) error {
	if r.req.Origin == Projection && r.in.OriginZone == "" {
		err := geoerr.Missing(originLabel)
		err.Message = fmt.Sprintf("projection coordinates require an origin zone (%s)", originLabel)
		return err
	}
	if r.in.OriginZone != "" {
		z, err := validateAs(r.cats.Zones, r.in.OriginZone, originLabel)
		if err != nil {
			return err
		}
		r.req.OriginZone = &z
	}
	if r.in.DestZone != "" {
		z, err := validateAs(r.cats.Zones, r.in.DestZone, "dest-zone")
		if err != nil {
			return err
		}
		r.req.DestZone = &z
	}
	return nil
}

// validateAs runs a catalog lookup and relabels the error with the field the
// user typed.
func validateAs(c *catalog.Catalog, token, field string) (catalog.Entry, error) {
	e, err := c.Validate(token)
	if err != nil {
		var ve *geoerr.ValidationError
		if errors.As(err, &ve) {
			ve.Field = field
		}
		return catalog.Entry{}, err
	}
	return e, nil
}

func parseEpoch(raw, field string) (*epoch.Resolved, error) {
	e, err := epoch.Parse(raw)
	if err != nil {
		var ve *geoerr.ValidationError
		if errors.As(err, &ve) {
			ve.Field = field
		}
		return nil, err
	}
	return &e, nil
}

// required collects absent parameters so they are reported together
type required []string

func (m *required) need(value, name string) {
	if strings.TrimSpace(value) == "" {
		*m = append(*m, name)
	}
}

func (m required) err() error {
	if len(m) == 0 {
		return nil
	}
	return geoerr.Missing(m...)
}

func (r *resolver) heightConversion() error {
	in := r.in
	var m required
	m.need(in.Geoid, "geoid")
	m.need(in.OriginFrame, "frame")
	if !r.batch() {
		m.need(in.X, "x")
		m.need(in.Y, "y")
	}
	if err := m.err(); err != nil {
		return err
	}
	if err := r.zones("zone"); err != nil {
		return err
	}

	geoid, err := validateAs(r.cats.Geoids, in.Geoid, "geoid")
	if err != nil {
		return err
	}
	frame, err := validateAs(r.cats.Frames, in.OriginFrame, "frame")
	if err != nil {
		return err
	}
	ep, err := epoch.Resolve(in.Epoch, &geoid)
	if err != nil {
		return err
	}
	if ep.Advisory != "" {
		r.advise("epoch", "%s", ep.Advisory)
	}

	r.req.Model = &geoid
	r.req.OriginFrame = &frame
	r.req.Epoch = &ep
	return nil
}

func (r *resolver) geoidConversion() error {
	in := r.in
	if r.req.Origin == Cartesian {
		return geoerr.NewValidationError(geoerr.IncompatibleOptions, "origin-coord", string(r.req.Origin),
			"cartesian coordinates do not work with geoid conversions")
	}
	var m required
	m.need(in.Conversion, "convert")
	m.need(in.OriginFrame, "frame")
	if !r.batch() {
		m.need(in.X, "x")
		m.need(in.Y, "y")
	}
	if err := m.err(); err != nil {
		return err
	}
	if err := r.zones("zone"); err != nil {
		return err
	}

	conv, err := validateAs(r.cats.Conversions, in.Conversion, "convert")
	if err != nil {
		return err
	}
	frame, err := validateAs(r.cats.Frames, in.OriginFrame, "frame")
	if err != nil {
		return err
	}
	// the conversion contract carries no epoch, but a malformed one is still rejected
	if in.Epoch != "" {
		if _, err := epoch.Parse(in.Epoch); err != nil {
			return err
		}
	}

	if !r.req.Flags.HeightMode {
		r.req.Flags.HeightMode = true
		r.advise("hmode", "geoid conversion only works on orthometric heights, height mode turned on")
	}
	r.req.Model = &conv
	r.req.OriginFrame = &frame
	return nil
}

func (r *resolver) geodesy() error {
	in := r.in
	r.req.Origin, r.req.Destination = Geographic, Geographic

	var m required
	m.need(in.Ellipsoid, "ellipsoid")
	if err := m.err(); err != nil {
		return err
	}
	ell, err := validateAs(r.cats.Ellipsoids, in.Ellipsoid, "ellipsoid")
	if err != nil {
		return err
	}
	r.req.Model = &ell

	threeD := r.req.Flags.ThreeDimensional
	if r.batch() {
		if !threeD {
			r.advise("3d", "batch geodesy is 3D by default and 3d is turned off")
		}
		return nil
	}

	m.need(in.X, "x1")
	m.need(in.Y, "y1")
	m.need(in.X2, "x2")
	m.need(in.Y2, "y2")
	if threeD {
		m.need(in.Z, "z1")
	}

	c := &Coordinates{X: in.X, Y: in.Y}
	if threeD {
		c.Z = in.Z
	}
	if r.req.Flags.Inverse {
		c.X2, c.Y2 = in.X2, in.Y2
		if threeD {
			m.need(in.Z2, "z2")
			c.Z2 = in.Z2
		}
	} else {
		c.Distance, c.Azimuth = in.X2, in.Y2
		if threeD {
			if in.Z2 == "" && in.DeltaH == "" {
				m = append(m, "z2 or dh")
			}
			c.Zenith, c.DeltaH = in.Z2, in.DeltaH
		}
	}
	if err := m.err(); err != nil {
		return err
	}
	r.req.Coordinates = c
	return nil
}

func (r *resolver) gridShift() error {
	in := r.in
	if r.req.Origin == Cartesian || r.req.Destination == Cartesian {
		return geoerr.NewValidationError(geoerr.IncompatibleOptions, "origin-coord", string(Cartesian),
			"grid shifts only support geographic and projection coordinates")
	}

	var m required
	m.need(in.Grid, "grid")
	if r.batch() {
		m.need(in.DestCoord, "dest-coord")
	} else {
		m.need(in.X, "x")
		m.need(in.Y, "y")
	}
	if err := m.err(); err != nil {
		return err
	}
	if err := r.zones("origin-zone"); err != nil {
		return err
	}

	grid, err := validateAs(r.cats.Grids, in.Grid, "grid")
	if err != nil {
		return err
	}
	r.req.Model = &grid
	return nil
}

func (r *resolver) frameEpochTransform() error {
	in := r.in

	var m required
	m.need(in.OriginFrame, "origin-frame")
	m.need(in.DestFrame, "dest-frame")
	m.need(in.Epoch, "origin-epoch")
	if r.batch() {
		m.need(in.EpochTransform, "epoch-trans")
		m.need(in.DestCoord, "dest-coord")
	} else {
		m.need(in.X, "x")
		m.need(in.Y, "y")
	}
	if err := m.err(); err != nil {
		return err
	}

	transform := r.req.Flags.EpochTransform
	if in.DestEpoch != "" && !transform {
		return geoerr.NewValidationError(geoerr.IncompatibleOptions, "dest-epoch", in.DestEpoch,
			"a destination epoch was given while epoch-trans is off")
	}
	if transform && in.DestEpoch == "" {
		return geoerr.Missing("dest-epoch")
	}

	ep, err := parseEpoch(in.Epoch, "origin-epoch")
	if err != nil {
		return err
	}
	r.req.Epoch = ep
	if in.DestEpoch != "" {
		dep, err := parseEpoch(in.DestEpoch, "dest-epoch")
		if err != nil {
			return err
		}
		r.req.DestEpoch = dep
	}

	of, err := validateAs(r.cats.Frames, in.OriginFrame, "origin-frame")
	if err != nil {
		return err
	}
	df, err := validateAs(r.cats.Frames, in.DestFrame, "dest-frame")
	if err != nil {
		return err
	}
	r.req.OriginFrame, r.req.DestFrame = &of, &df

	return r.zones("origin-zone")
}
