package cmds

import (
	"bytes"
	"testing"

	gcmds "github.com/go-go-golems/glazed/pkg/cmds"
	"github.com/go-go-golems/glazed/pkg/cmds/parameters"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/geodetic-tools/pkg/catalog"
	"github.com/go-go-golems/geodetic-tools/pkg/pipeline"
	"github.com/go-go-golems/geodetic-tools/pkg/request"
	"github.com/go-go-golems/geodetic-tools/pkg/response"
)

func TestGPSHKind(t *testing.T) {
	s := &GPSHSettings{Geoid: "CGG2013a"}
	assert.Equal(t, request.HeightConversion, s.Kind())
	s.Convert = "CGG2013a_HT2_2010"
	assert.Equal(t, request.GeoidConversion, s.Kind())
	assert.Equal(t, "CGG2013a_HT2_2010", s.Input().Conversion)
}

func TestSettingsMapToInput(t *testing.T) {
	in := (&INDIRSettings{Ellipsoid: "GRS80", WestPositive: "false", X1: "45", Y1: "-75", Z1: "10", X2: "1000", File: "p.csv"}).Input()
	assert.Equal(t, request.Input{Ellipsoid: "GRS80", WestPositive: "false", X: "45", Y: "-75", Z: "10", X2: "1000", BatchFile: "p.csv"}, in)

	in = (&GPSHSettings{Geoid: "CGG2013a", WestPositive: "off", X: "60", Y: "100"}).Input()
	assert.Equal(t, "off", in.WestPositive)
	assert.Equal(t, "100", in.Y)

	in = (&TRXSettings{OriginFrame: "ITRF2014", OriginEpoch: "2010", DestEpoch: "2020", VX: "1"}).Input()
	assert.Equal(t, "2010", in.Epoch)
	assert.Equal(t, "2020", in.DestEpoch)
	assert.Equal(t, "1", in.VX)

	in = (&NTV2Settings{Grid: "NTV2", OriginZone: "utm14", DownloadPath: "out"}).Input()
	assert.Equal(t, "utm14", in.OriginZone)
	assert.Equal(t, "out", in.DownloadPath)
}

func flagDefaults(t *testing.T, cd *gcmds.CommandDescription) map[string]string {
	out := map[string]string{}
	err := cd.GetDefaultFlags().ForEachE(func(pd *parameters.ParameterDefinition) error {
		if pd.Default == nil {
			return nil
		}
		if v, ok := (*pd.Default).(string); ok {
			out[pd.Name] = v
		}
		return nil
	})
	require.NoError(t, err)
	return out
}

func TestToolFlagDefaults(t *testing.T) {
	g, err := NewGPSHCommand()
	require.NoError(t, err)
	d := flagDefaults(t, g.CommandDescription)
	assert.Equal(t, "CGG2013a", d["geoid"])
	assert.Equal(t, "1997-01-01", d["epoch"])
	assert.Equal(t, "NAD83", d["frame"])
	assert.Equal(t, "true", d["westpos"])
	assert.NotContains(t, d, "z")

	i, err := NewINDIRCommand()
	require.NoError(t, err)
	d = flagDefaults(t, i.CommandDescription)
	assert.Equal(t, "GRS80", d["ellipsoid"])
	assert.Equal(t, "true", d["westpos"])

	n, err := NewNTV2Command()
	require.NoError(t, err)
	d = flagDefaults(t, n.CommandDescription)
	assert.Equal(t, "NTV2", d["grid"])
	assert.Equal(t, "true", d["westpos"])

	x, err := NewTRXCommand()
	require.NoError(t, err)
	d = flagDefaults(t, x.CommandDescription)
	assert.Equal(t, map[string]string{
		"origin-frame": "NAD83",
		"dest-frame":   "NAD83",
		"origin-epoch": "2010-01-01",
		"westpos":      "true",
		"z":            "0.0",
	}, d)
}

// gpsh -x 60 -y -100 -z 105 with every other flag left at its default
func TestGPSHDefaultsResolve(t *testing.T) {
	g, err := NewGPSHCommand()
	require.NoError(t, err)
	d := flagDefaults(t, g.CommandDescription)

	s := &GPSHSettings{
		Geoid: d["geoid"], Frame: d["frame"], Epoch: d["epoch"], WestPositive: d["westpos"],
		X: "60", Y: "-100", Z: "105",
	}
	in := s.Input()
	assert.Equal(t, request.Input{
		Geoid: "CGG2013a", OriginFrame: "NAD83", Epoch: "1997-01-01", WestPositive: "true",
		X: "60", Y: "-100", Z: "105",
	}, in)

	req, _, err := request.Resolve(s.Kind(), in, nil)
	require.NoError(t, err)
	assert.Equal(t, "CGG2013a", req.Model.Code)
	assert.Equal(t, "1997-01-01", req.Epoch.Value)
	assert.True(t, req.Flags.WestPositive)
}

func TestINDIRWestPositiveReachesRequest(t *testing.T) {
	s := &INDIRSettings{Ellipsoid: "GRS80", Inverse: "on", WestPositive: "false", X1: "45", Y1: "75", X2: "46", Y2: "76"}
	req, _, err := request.Resolve(request.Geodesy, s.Input(), nil)
	require.NoError(t, err)
	assert.False(t, req.Flags.WestPositive)

	s.WestPositive = "true"
	req, _, err = request.Resolve(request.Geodesy, s.Input(), nil)
	require.NoError(t, err)
	assert.True(t, req.Flags.WestPositive)
}

func TestToolCommandsBuild(t *testing.T) {
	g, err := NewGPSHCommand()
	require.NoError(t, err)
	assert.Equal(t, "gpsh", g.Name)

	i, err := NewINDIRCommand()
	require.NoError(t, err)
	assert.Equal(t, "indir", i.Name)

	n, err := NewNTV2Command()
	require.NoError(t, err)
	assert.Equal(t, "ntv2", n.Name)

	x, err := NewTRXCommand()
	require.NoError(t, err)
	assert.Equal(t, "trx", x.Name)

	c, err := NewCatalogCommand()
	require.NoError(t, err)
	assert.Equal(t, "catalog", c.Name)
}

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	res := &pipeline.Result{Response: response.Interpret([]byte(`{"H":"1.0"}`))}
	require.NoError(t, printResult(&buf, res))
	assert.Equal(t, "{\n    \"H\": \"1.0\"\n}\n", buf.String())
}

func TestPrintAdvisories(t *testing.T) {
	var buf bytes.Buffer
	printAdvisories(&buf, []request.Advisory{{Field: "epoch", Message: "epoch forced"}})
	assert.Contains(t, buf.String(), "epoch forced")
}

func TestEntryRow(t *testing.T) {
	cat := catalog.Builtin().Grids
	e, ok := cat.Lookup("NTV2")
	require.True(t, ok)

	row := entryRow(cat, e)
	v, ok := row.Get("catalog")
	require.True(t, ok)
	assert.Equal(t, "grids", v)
	v, _ = row.Get("coverage")
	assert.Equal(t, "Canada", v)
}

func TestCatalogSetFromConfig(t *testing.T) {
	set, err := catalogSet()
	require.NoError(t, err)
	assert.Same(t, catalog.Builtin(), set)

	viper.Set("catalogs.dir", t.TempDir())
	defer viper.Set("catalogs.dir", "")
	_, err = catalogSet()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is missing")
}
