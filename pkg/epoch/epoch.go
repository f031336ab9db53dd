// Package epoch parses user supplied epochs and applies the fixed epochs some
// geoid models mandate.
package epoch

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/go-go-golems/geodetic-tools/pkg/catalog"
	"github.com/go-go-golems/geodetic-tools/pkg/geoerr"
)

// Format tells how an epoch was written
type Format int

const (
	ISODate Format = iota + 1
	DecimalYear
)

func (f Format) String() string {
	switch f {
	case ISODate:
		return "iso-date"
	case DecimalYear:
		return "decimal-year"
	}
	return "unknown"
}

// Service accepts decimal years in this closed range
const (
	MinDecimalYear = 1980.0
	MaxDecimalYear = 2050.0
)

var (
	isoDate = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	// plain decimal notation only; ParseFloat alone also takes hex, exponents and Inf
	decimalYear = regexp.MustCompile(`^[+-]?\d+(\.\d*)?$`)
)

// Resolved is an epoch ready to be sent to the service.
// Advisory is set when a geoid model replaced the user's value.
type Resolved struct {
	Value    string
	Format   Format
	Advisory string
}

func (r Resolved) String() string { return r.Value }

// Parse checks raw without any model override.
func Parse(raw string) (Resolved, error) {
	if isoDate.MatchString(raw) {
		if _, err := time.Parse(time.DateOnly, raw); err == nil {
			return Resolved{Value: raw, Format: ISODate}, nil
		}
	}
	if !decimalYear.MatchString(raw) {
		return Resolved{}, badFormat(raw)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) {
		return Resolved{}, badFormat(raw)
	}
	if v < MinDecimalYear || v > MaxDecimalYear {
		return Resolved{}, geoerr.NewValidationError(geoerr.EpochOutOfRange, "epoch", raw,
			"%s is not within the %.0f-%.0f epoch frame", raw, MinDecimalYear, MaxDecimalYear)
	}
	return Resolved{Value: raw, Format: DecimalYear}, nil
}

func badFormat(raw string) error {
	return geoerr.NewValidationError(geoerr.BadEpochFormat, "epoch", raw,
		"%q is not a valid format or date (format: YYYY-MM-DD or decimal year)", raw)
}

// Resolve parses raw and then applies the forced epoch of geoid, if any.
// The override wins over any user value; an empty raw is accepted only when
// an override applies.
func Resolve(raw string, geoid *catalog.Entry) (Resolved, error) {
	forced := ""
	if geoid != nil {
		forced = geoid.Attr(catalog.AttrForcedEpoch)
	}
	if forced == "" {
		if raw == "" {
			return Resolved{}, geoerr.Missing("epoch")
		}
		return Parse(raw)
	}

	if raw != "" {
		if _, err := Parse(raw); err != nil {
			return Resolved{}, err
		}
	}
	r, err := Parse(forced)
	if err != nil {
		return Resolved{}, fmt.Errorf("geoid %s carries an invalid forced epoch: %w", geoid.Code, err)
	}
	r.Advisory = fmt.Sprintf("%s geoid model will automatically set the epoch to %s for standard usage", geoid.Code, forced)
	return r, nil
}
