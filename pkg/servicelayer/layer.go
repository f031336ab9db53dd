package servicelayer

import (
	"fmt"

	glzcms "github.com/go-go-golems/glazed/pkg/cmds"
	glzlayers "github.com/go-go-golems/glazed/pkg/cmds/layers"
	"github.com/go-go-golems/glazed/pkg/cmds/parameters"

	"github.com/go-go-golems/geodetic-tools/pkg/builder"
	"github.com/go-go-golems/geodetic-tools/pkg/csrs"
)

const ServiceLayerSlug = "csrs"

type ServiceSettings struct {
	BaseURL   string `glazed.parameter:"csrs-base-url"`
	Lang      string `glazed.parameter:"csrs-lang"`
	UserAgent string `glazed.parameter:"csrs-user-agent"`
}

// NewServiceLayer defines a reusable parameter layer for the CSRS endpoint.
func NewServiceLayer() (glzlayers.ParameterLayer, error) {
	return glzlayers.NewParameterLayer(
		ServiceLayerSlug,
		"CSRS web service settings",
		glzlayers.WithParameterDefinitions(
			parameters.NewParameterDefinition(
				"csrs-base-url",
				parameters.ParameterTypeString,
				parameters.WithHelp("Base URL of the CSRS web tools"),
				parameters.WithDefault(csrs.DefaultBaseURL),
			),
			parameters.NewParameterDefinition(
				"csrs-lang",
				parameters.ParameterTypeChoice,
				parameters.WithHelp("Language of service messages: en|fr"),
				parameters.WithDefault("en"),
				parameters.WithChoices("en", "fr"),
			),
			parameters.NewParameterDefinition(
				"csrs-user-agent",
				parameters.ParameterTypeString,
				parameters.WithHelp("User-Agent header sent with each call"),
				parameters.WithDefault(csrs.DefaultUserAgent),
			),
		),
	)
}

// AddServiceLayerToCommand attaches the layer to a Glazed command description.
func AddServiceLayerToCommand(c glzcms.Command) (glzcms.Command, error) {
	l, err := NewServiceLayer()
	if err != nil {
		return nil, err
	}
	c.Description().Layers.Set(ServiceLayerSlug, l)
	return c, nil
}

// GetServiceSettings returns parsed service settings from the ParsedLayers.
func GetServiceSettings(parsed *glzlayers.ParsedLayers) (*ServiceSettings, error) {
	var s ServiceSettings
	if err := parsed.InitializeStruct(ServiceLayerSlug, &s); err != nil {
		return nil, fmt.Errorf("failed to parse csrs settings: %w", err)
	}
	return &s, nil
}

// Client builds the service client described by s
func (s *ServiceSettings) Client() *csrs.Client {
	return csrs.NewClient(s.BaseURL, csrs.WithUserAgent(s.UserAgent))
}

func (s *ServiceSettings) Builder() *builder.Builder {
	return builder.New(s.Lang)
}
