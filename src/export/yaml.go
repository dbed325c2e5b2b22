package export

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/please-build/lbs/src/core"
)

type yamlScenario struct {
	Hash    string       `yaml:"hash"`
	Targets []yamlTarget `yaml:"targets"`
}

type yamlTarget struct {
	Name               string          `yaml:"name"`
	Kind               core.TargetKind `yaml:"kind"`
	Language           string          `yaml:"language,omitempty"`
	Sources            []string        `yaml:"sources,omitempty"`
	IncludeDirectories []string        `yaml:"include_directories,omitempty"`
	LinkedLibraries    []string        `yaml:"linked_libraries,omitempty"`
	Flags              []string        `yaml:"flags,omitempty"`
	Defines            []string        `yaml:"defines,omitempty"`
	Dependencies       []string        `yaml:"dependencies,omitempty"`
}

// YAML writes a description of every target in the scenario as a YAML document.
func YAML(w io.Writer, scenario *core.BuildScenario) error {
	out := yamlScenario{Hash: fmt.Sprintf("%016x", Hash(scenario))}
	for _, t := range scenario.AllTargets() {
		out.Targets = append(out.Targets, yamlTarget{
			Name:               t.Name,
			Kind:               t.Kind,
			Language:           t.Language,
			Sources:            t.Sources,
			IncludeDirectories: t.IncludeDirectories,
			LinkedLibraries:    t.LinkedLibraries,
			Flags:              t.Flags,
			Defines:            t.Defines,
			Dependencies:       t.Dependencies(),
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}
