package config

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/orthos/pkg/domain/model"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Projects holds the path of the Sentry-org to repository mapping file
type Projects struct {
	Path string
}

// Flags returns CLI flags for Projects configuration
func (p *Projects) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "projects",
			Usage:       "Path to the projects YAML file mapping Sentry orgs to repositories",
			Category:    "GitHub",
			Sources:     cli.EnvVars("ORTHOS_PROJECTS"),
			Destination: &p.Path,
		},
	}
}

// Configure loads the projects mapping. Returns nil without error when no
// file is configured; source lookup is then disabled.
func (p *Projects) Configure() (*model.ProjectsConfig, error) {
	if p.Path == "" {
		return nil, nil
	}
	return LoadProjectsFromFile(p.Path)
}

// IsConfigured checks if a projects file is set
func (p *Projects) IsConfigured() bool {
	return p.Path != ""
}

// LogValue returns structured log value
func (p Projects) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", p.Path),
	)
}

// LoadProjectsFromFile loads the projects mapping from a YAML file
func LoadProjectsFromFile(path string) (*model.ProjectsConfig, error) {
	if path == "" {
		return nil, goerr.New("configuration file path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(err, "configuration file not found",
				goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to read configuration file",
			goerr.V("path", path))
	}

	var config model.ProjectsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse YAML configuration",
			goerr.V("path", path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid configuration",
			goerr.V("path", path))
	}

	return &config, nil
}
