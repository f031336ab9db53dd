package cmds

import (
	"context"
	"sort"

	glzcli "github.com/go-go-golems/glazed/pkg/cli"
	gcmds "github.com/go-go-golems/glazed/pkg/cmds"
	glayers "github.com/go-go-golems/glazed/pkg/cmds/layers"
	"github.com/go-go-golems/glazed/pkg/cmds/parameters"
	"github.com/go-go-golems/glazed/pkg/middlewares"
	"github.com/go-go-golems/glazed/pkg/settings"
	"github.com/go-go-golems/glazed/pkg/types"

	"github.com/go-go-golems/geodetic-tools/pkg/catalog"
	"github.com/go-go-golems/geodetic-tools/pkg/cmdutil"
)

type CatalogCommand struct{ *gcmds.CommandDescription }

type CatalogSettings struct {
	Name     string   `glazed.parameter:"name"`
	Codes    []string `glazed.parameter:"code"`
	Coverage []string `glazed.parameter:"coverage"`
}

func NewCatalogCommand() (*CatalogCommand, error) {
	glazedLayers, err := settings.NewGlazedParameterLayers()
	if err != nil {
		return nil, err
	}
	commandLayer, err := glzcli.NewCommandSettingsLayer()
	if err != nil {
		return nil, err
	}
	names := catalog.Names()
	cd := gcmds.NewCommandDescription(
		"catalog",
		gcmds.WithShort("List the accepted frames, ellipsoids, geoids, conversions, grids and zones"),
		gcmds.WithFlags(
			parameters.NewParameterDefinition("name", parameters.ParameterTypeChoice, parameters.WithChoices(names...), parameters.WithHelp("Catalog to list (default: all)")),
			parameters.NewParameterDefinition("code", parameters.ParameterTypeStringList, parameters.WithHelp("Only show these codes (case-insensitive)")),
			parameters.NewParameterDefinition("coverage", parameters.ParameterTypeStringList, parameters.WithHelp("Only show grids covering these regions")),
		),
		gcmds.WithLayersList(glazedLayers, commandLayer),
	)
	return &CatalogCommand{cd}, nil
}

// GlazeCommand: one row per catalog entry
func (c *CatalogCommand) RunIntoGlazeProcessor(ctx context.Context, parsed *glayers.ParsedLayers, gp middlewares.Processor) error {
	s := &CatalogSettings{}
	if err := parsed.InitializeStruct(glayers.DefaultSlug, s); err != nil {
		return err
	}
	set, err := catalogSet()
	if err != nil {
		return err
	}

	names := catalog.Names()
	if s.Name != "" {
		names = []string{s.Name}
	}
	for _, name := range names {
		cat, ok := set.ByName(name)
		if !ok {
			continue
		}
		entries := cmdutil.FilterItems(cat.Entries(), s.Codes, func(e catalog.Entry) string { return e.Code })
		entries = cmdutil.FilterItems(entries, s.Coverage, func(e catalog.Entry) string { return e.Attr(catalog.AttrCoverage) })
		for _, e := range entries {
			if err := gp.AddRow(ctx, entryRow(cat, e)); err != nil {
				return err
			}
		}
	}
	return nil
}

func entryRow(cat *catalog.Catalog, e catalog.Entry) types.Row {
	row := types.NewRow(
		types.MRP("catalog", cat.Name()),
		types.MRP("code", e.Code),
		types.MRP("name", e.Name()),
	)
	keys := make([]string, 0, len(e.Attributes))
	for k := range e.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		row.Set(k, e.Attributes[k])
	}
	return row
}

var _ gcmds.GlazeCommand = &CatalogCommand{}
