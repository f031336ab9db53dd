package main

import (
	"os"

	clay "github.com/go-go-golems/clay/pkg"
	"github.com/go-go-golems/glazed/pkg/cli"
	gcmds "github.com/go-go-golems/glazed/pkg/cmds"
	"github.com/go-go-golems/glazed/pkg/cmds/layers"
	"github.com/go-go-golems/glazed/pkg/cmds/logging"
	"github.com/go-go-golems/glazed/pkg/cmds/middlewares"
	"github.com/go-go-golems/glazed/pkg/cmds/parameters"
	"github.com/go-go-golems/glazed/pkg/help"
	help_cmd "github.com/go-go-golems/glazed/pkg/help/cmd"
	"github.com/spf13/cobra"

	appcmds "github.com/go-go-golems/geodetic-tools/cmds"
	appdoc "github.com/go-go-golems/geodetic-tools/pkg/doc"
	"github.com/go-go-golems/geodetic-tools/pkg/geoerr"
)

var version = "dev"

func getMiddlewares(parsedLayers *layers.ParsedLayers, cmd *cobra.Command, args []string) ([]middlewares.Middleware, error) {
	commandSettings := &cli.CommandSettings{}
	err := parsedLayers.InitializeStruct(cli.CommandSettingsSlug, commandSettings)
	if err != nil {
		return nil, err
	}

	mw_ := []middlewares.Middleware{
		middlewares.ParseFromCobraCommand(cmd,
			parameters.WithParseStepSource("cobra"),
		),
		middlewares.GatherArguments(args,
			parameters.WithParseStepSource("arguments"),
		),
	}

	mw_ = append(mw_,
		middlewares.GatherFlagsFromViper(parameters.WithParseStepSource("viper")),
		middlewares.SetFromDefaults(parameters.WithParseStepSource("defaults")),
	)

	return mw_, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:     "geodetic-tools",
		Short:   "Request geodetic transformations from the NRCan CSRS web tools",
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			err := logging.InitLoggerFromViper()
			cobra.CheckErr(err)
		},
	}

	clay.InitViper("geodetic-tools", rootCmd)

	hs := help.NewHelpSystem()
	_ = appdoc.AddDocToHelpSystem(hs)
	help_cmd.SetupCobraRootCommand(hs, rootCmd)

	opts := []cli.CobraOption{
		cli.WithParserConfig(cli.CobraParserConfig{
			MiddlewaresFunc: getMiddlewares,
		}),
	}

	constructors := []func() (gcmds.Command, error){
		func() (gcmds.Command, error) { return appcmds.NewGPSHCommand() },
		func() (gcmds.Command, error) { return appcmds.NewINDIRCommand() },
		func() (gcmds.Command, error) { return appcmds.NewNTV2Command() },
		func() (gcmds.Command, error) { return appcmds.NewTRXCommand() },
		func() (gcmds.Command, error) { return appcmds.NewCatalogCommand() },
	}
	for _, newCmd := range constructors {
		c, err := newCmd()
		cobra.CheckErr(err)
		cmd, err := cli.BuildCobraCommand(c, opts...)
		cobra.CheckErr(err)
		rootCmd.AddCommand(cmd)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(geoerr.ExitCode(err))
	}
}
