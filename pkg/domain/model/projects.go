package model

import "github.com/m-mizutani/goerr/v2"

// Project maps a Sentry organization to the repository hosting its code
type Project struct {
	Org      string   `yaml:"org"`                 // Sentry organization slug
	Owner    string   `yaml:"owner"`               // GitHub repository owner
	Repo     string   `yaml:"repo"`                // GitHub repository name
	Branch   string   `yaml:"branch,omitempty"`    // Defaults to "main"
	AppPaths []string `yaml:"app_paths,omitempty"` // Stack filter prefixes override
}

// Validate validates the project
func (p *Project) Validate() error {
	if p.Org == "" {
		return goerr.New("project org is required")
	}
	if p.Owner == "" {
		return goerr.New("project owner is required")
	}
	if p.Repo == "" {
		return goerr.New("project repo is required")
	}
	return nil
}

// Ref returns the branch to fetch from, defaulting to "main"
func (p *Project) Ref() string {
	if p.Branch == "" {
		return "main"
	}
	return p.Branch
}

// ProjectsConfig represents the projects configuration
type ProjectsConfig struct {
	Projects []Project `yaml:"projects"`
}

// Validate validates the projects configuration
func (c *ProjectsConfig) Validate() error {
	if len(c.Projects) == 0 {
		return goerr.New("at least one project is required")
	}

	orgMap := make(map[string]bool)
	for i, proj := range c.Projects {
		if err := proj.Validate(); err != nil {
			return goerr.Wrap(err, "invalid project at index",
				goerr.V("index", i),
				goerr.V("org", proj.Org))
		}

		if orgMap[proj.Org] {
			return goerr.New("duplicate project org",
				goerr.V("org", proj.Org))
		}
		orgMap[proj.Org] = true
	}

	return nil
}

// FindByOrg finds a project by its Sentry organization slug
func (c *ProjectsConfig) FindByOrg(org string) *Project {
	if c == nil {
		return nil
	}
	for _, proj := range c.Projects {
		if proj.Org == org {
			// Return a copy to prevent modification
			result := proj
			return &result
		}
	}
	return nil
}
