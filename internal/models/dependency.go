package models

// Channel is the conda channel a package was resolved from
type Channel struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Dependency is one package used by a build
type Dependency struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Version string  `json:"version"`
	Build   string  `json:"build,omitempty"`
	Channel Channel `json:"channel"`
	License string  `json:"license,omitempty"`
	Summary string  `json:"summary,omitempty"`
	Sha256  string  `json:"sha256,omitempty"`
}

// DependencyName returns the package name; handy with slicex.Map
func DependencyName(d Dependency) string {
	return d.Name
}
