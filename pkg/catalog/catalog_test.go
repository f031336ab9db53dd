package catalog

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/geodetic-tools/pkg/geoerr"
)

func TestBuiltinLoads(t *testing.T) {
	s := Builtin()

	assert.Equal(t, 15, s.Frames.Len())
	assert.Equal(t, 16, s.Ellipsoids.Len())
	assert.Equal(t, 11, s.Geoids.Len())
	assert.Equal(t, 6, s.Conversions.Len())
	assert.Equal(t, 23, s.Grids.Len())
	assert.Equal(t, 119, s.Zones.Len())
	assert.Same(t, s, Builtin())
}

func TestValidateEveryCodeCaseInsensitive(t *testing.T) {
	s := Builtin()
	for _, name := range Names() {
		c, ok := s.ByName(name)
		require.True(t, ok)
		for _, code := range c.Codes() {
			for _, token := range []string{code, strings.ToLower(code), strings.ToUpper(code)} {
				e, err := c.Validate(token)
				if !assert.NoError(t, err, "%s/%s", name, token) {
					continue
				}
				// alias prefixes canonicalize to their target, which may differ
				// from code only when code itself starts with an alias prefix
				if c.Canonicalize(token) == token {
					assert.True(t, strings.EqualFold(code, e.Code), "%s/%s -> %s", name, token, e.Code)
				}
			}
		}
	}
}

func TestValidateUnknownTokenListsCatalog(t *testing.T) {
	s := Builtin()

	_, err := s.Grids.Validate("NOPE")
	require.Error(t, err)
	assert.True(t, geoerr.IsValidation(err, geoerr.UnknownToken))

	var ve *geoerr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, s.Grids.Codes(), ve.Alternatives)
	assert.Equal(t, "NOPE", ve.Value)
	assert.Contains(t, err.Error(), "NA27SCRS")
}

func TestFrameAliasIdempotence(t *testing.T) {
	frames := Builtin().Frames
	for _, token := range []string{"nad83", "NAD", "NadAnything", "NAD83(CSRS)"} {
		e, err := frames.Validate(token)
		require.NoError(t, err, token)
		assert.Equal(t, "NAD83(CSRS)", e.Code, token)
	}
}

func TestZoneAliases(t *testing.T) {
	zones := Builtin().Zones

	e, err := zones.Validate("nb")
	require.NoError(t, err)
	assert.Equal(t, "NB-NAD83(CSRS)", e.Code)

	e, err = zones.Validate("PEI-NAD83")
	require.NoError(t, err)
	assert.Equal(t, "PEI-NAD83(CSRS)", e.Code)

	e, err = zones.Validate("utm14")
	require.NoError(t, err)
	assert.Equal(t, "UTM14", e.Code)
}

func TestWhitespaceIsPreserved(t *testing.T) {
	ellipsoids := Builtin().Ellipsoids

	e, err := ellipsoids.Validate("clarke 1866")
	require.NoError(t, err)
	assert.Equal(t, "Clarke 1866", e.Code)

	_, err = ellipsoids.Validate("Clarke1866")
	assert.True(t, geoerr.IsValidation(err, geoerr.UnknownToken))

	_, err = ellipsoids.Validate(" GRS80")
	assert.True(t, geoerr.IsValidation(err, geoerr.UnknownToken))
}

func TestGeoidAttributes(t *testing.T) {
	geoids := Builtin().Geoids

	e, err := geoids.Validate("HT2_2010V70")
	require.NoError(t, err)
	assert.Equal(t, "2010-01-01", e.Attr(AttrForcedEpoch))
	assert.Equal(t, "CGVD28", e.Attr(AttrVerticalDatum))

	e, err = geoids.Validate("cgg2013a")
	require.NoError(t, err)
	assert.Equal(t, "", e.Attr(AttrForcedEpoch))
	assert.Equal(t, "CGVD2013", e.Attr(AttrVerticalDatum))
}

func TestGridAttributes(t *testing.T) {
	e, err := Builtin().Grids.Validate("na27scrs")
	require.NoError(t, err)
	assert.Equal(t, "NA27SCRS", e.Code)
	assert.Equal(t, "Quebec", e.Attr(AttrCoverage))
	assert.Equal(t, "NAD27", e.Attr(AttrFrom))
	assert.Equal(t, "UTM", e.Attr(AttrDefaultDestZone))
}

func TestNewRejectsInvalidTables(t *testing.T) {
	_, err := New("x", "Xs", []Entry{{Code: "A"}, {Code: "a"}}, nil)
	assert.ErrorContains(t, err, "duplicate code")

	_, err = New("x", "Xs", []Entry{{Code: ""}}, nil)
	assert.ErrorContains(t, err, "empty code")

	_, err = New("x", "Xs", []Entry{{Code: "A"}}, []Alias{{Prefix: "B", Code: "B1"}})
	assert.ErrorContains(t, err, "unknown code")
}

func TestCatalogAccessors(t *testing.T) {
	c, err := New("zones", "Zones", []Entry{{Code: "UTM14"}, {Code: "MTM7"}}, []Alias{{Prefix: "UTM", Code: "UTM14"}})
	require.NoError(t, err)
	assert.Equal(t, "zones", c.Name())
	assert.Equal(t, "Zones", c.Title())
	assert.Equal(t, 2, c.Len())

	assert.Equal(t, "Reference frames", Builtin().Frames.Title())
}

func TestLoadRequiresEveryCatalog(t *testing.T) {
	fsys := fstest.MapFS{
		"data/frames.yaml": {Data: []byte("name: frames\ntitle: Frames\nentries:\n  - code: ITRF2014\n")},
	}
	_, err := Load(fsys, "data")
	assert.ErrorContains(t, err, "is missing")
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"data/frames.yaml": {Data: []byte("name: [frames\n")},
	}
	_, err := Load(fsys, "data")
	assert.ErrorContains(t, err, "failed to parse catalog")
}
