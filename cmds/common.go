package cmds

import (
	"context"
	"fmt"
	"io"
	"os"

	glzcli "github.com/go-go-golems/glazed/pkg/cli"
	gcmds "github.com/go-go-golems/glazed/pkg/cmds"
	glayers "github.com/go-go-golems/glazed/pkg/cmds/layers"
	"github.com/go-go-golems/glazed/pkg/cmds/parameters"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/go-go-golems/geodetic-tools/pkg/catalog"
	"github.com/go-go-golems/geodetic-tools/pkg/geoerr"
	"github.com/go-go-golems/geodetic-tools/pkg/output"
	"github.com/go-go-golems/geodetic-tools/pkg/pipeline"
	"github.com/go-go-golems/geodetic-tools/pkg/request"
	"github.com/go-go-golems/geodetic-tools/pkg/servicelayer"
)

func stringFlag(name, help string) *parameters.ParameterDefinition {
	return parameters.NewParameterDefinition(name, parameters.ParameterTypeString, parameters.WithHelp(help))
}

// defaultedFlag is a string flag carrying the value the service tools assume
// when the flag is omitted.
func defaultedFlag(name, help, def string) *parameters.ParameterDefinition {
	return parameters.NewParameterDefinition(name, parameters.ParameterTypeString, parameters.WithHelp(help), parameters.WithDefault(def))
}

// toggles stay strings so on/off/true/false all reach the request validator
func toggleFlag(name, help string) *parameters.ParameterDefinition {
	return parameters.NewParameterDefinition(name, parameters.ParameterTypeString, parameters.WithHelp(help+" (on|off)"))
}

func defaultedToggle(name, help, def string) *parameters.ParameterDefinition {
	return defaultedFlag(name, help+" (on|off)", def)
}

func coordFlag(name, help string) *parameters.ParameterDefinition {
	return parameters.NewParameterDefinition(name, parameters.ParameterTypeString, parameters.WithHelp(help+" (geo|car|plan)"))
}

func batchFlags() []*parameters.ParameterDefinition {
	return []*parameters.ParameterDefinition{
		parameters.NewParameterDefinition("file", parameters.ParameterTypeString, parameters.WithHelp("Batch input file; switches to upload mode")),
		stringFlag("download-path", "Directory the batch result is moved to"),
		parameters.NewParameterDefinition("no-color", parameters.ParameterTypeBool, parameters.WithDefault(false), parameters.WithHelp("Disable colored warnings")),
	}
}

// newToolDescription builds a command description carrying the command
// settings layer and the csrs service layer.
func newToolDescription(name, short, long string, flags ...*parameters.ParameterDefinition) (*gcmds.CommandDescription, error) {
	layer, err := glzcli.NewCommandSettingsLayer()
	if err != nil {
		return nil, err
	}
	cd := gcmds.NewCommandDescription(
		name,
		gcmds.WithShort(short),
		gcmds.WithLong(long),
		gcmds.WithFlags(append(flags, batchFlags()...)...),
		gcmds.WithLayersList(layer),
	)
	if _, err := servicelayer.AddServiceLayerToCommand(cd); err != nil {
		return nil, err
	}
	return cd, nil
}

// runTool executes one transformation and prints its outcome.
func runTool(ctx context.Context, parsed *glayers.ParsedLayers, kind request.Kind, in request.Input, noColor bool) error {
	output.InitConsole(noColor)
	ss, err := servicelayer.GetServiceSettings(parsed)
	if err != nil {
		return err
	}
	cats, err := catalogSet()
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(ss.Client(), ss.Builder())
	runner.Catalogs = cats
	log.Debug().Str("kind", kind.String()).Str("base-url", ss.BaseURL).Msg("cmds: running tool")

	res, err := runner.Run(ctx, kind, in)
	if res != nil {
		printAdvisories(os.Stderr, res.Advisories)
	}
	if err != nil {
		return err
	}
	return printResult(os.Stdout, res)
}

// catalogSet returns the embedded catalogs, or the YAML tables found in the
// directory configured as catalogs.dir.
func catalogSet() (*catalog.Set, error) {
	dir := viper.GetString("catalogs.dir")
	if dir == "" {
		return catalog.Builtin(), nil
	}
	log.Debug().Str("dir", dir).Msg("cmds: loading catalogs")
	set, err := catalog.Load(os.DirFS(dir), ".")
	if err != nil {
		return nil, fmt.Errorf("failed to load catalogs from %s: %w", dir, err)
	}
	return set, nil
}

func printAdvisories(w io.Writer, advisories []request.Advisory) {
	for _, a := range advisories {
		_, _ = fmt.Fprintln(w, output.Warnf("%s", a.Message))
	}
}

func printResult(w io.Writer, res *pipeline.Result) error {
	if res.OutputPath != "" {
		_, err := fmt.Fprintln(w, output.Saved(res.OutputPath))
		return err
	}
	s, err := res.Response.Indented()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, s)
	return err
}

// exitOnError reports err and terminates with the status matching its kind.
func exitOnError(err error) error {
	if err == nil {
		return nil
	}
	_, _ = fmt.Fprintln(os.Stderr, output.Errorf("%s", output.ShortError(err)))
	os.Exit(geoerr.ExitCode(err))
	return err
}
