package core

import "fmt"

// DefaultArchiveTemplate is the archive template shared by all the default compilers.
const DefaultArchiveTemplate = "ar crs %o %i"

// A Compiler is a named set of command line templates.
// Each template may use %i (inputs), %o (output), %f (flags) and %d (defines).
type Compiler struct {
	Name string
	// Compiles a single source file to an object file, e.g. "cc -c %i -o %o".
	ObjectTemplate string
	// Archives a library target, e.g. "ar crs %o %i".
	ArchiveTemplate string
	// Links an executable target, e.g. "cc %i -o %o".
	ExecutableTemplate string
}

// Validate checks that every template of this compiler only uses specifiers we know about.
func (c *Compiler) Validate() error {
	for _, tmpl := range []string{c.ObjectTemplate, c.ArchiveTemplate, c.ExecutableTemplate} {
		if err := ValidateTemplate(tmpl); err != nil {
			return fmt.Errorf("compiler %s: %w", c.Name, err)
		}
	}
	return nil
}

// TemplateFor returns the template used to build a target of the given kind.
// Generic targets aren't compiled so have no template.
func (c *Compiler) TemplateFor(kind TargetKind) (string, bool) {
	switch kind {
	case Library:
		return c.ArchiveTemplate, true
	case Executable:
		return c.ExecutableTemplate, true
	}
	return "", false
}

// DefaultCompilers returns the compilers we know about without any configuration.
func DefaultCompilers() []*Compiler {
	return []*Compiler{
		{
			Name:               "c",
			ObjectTemplate:     "cc -c %f %d %i -o %o",
			ArchiveTemplate:    DefaultArchiveTemplate,
			ExecutableTemplate: "cc %f %d %i -o %o",
		},
		{
			Name:               "c++",
			ObjectTemplate:     "c++ -c %f %d %i -o %o",
			ArchiveTemplate:    DefaultArchiveTemplate,
			ExecutableTemplate: "c++ %f %d %i -o %o",
		},
		{
			Name:               "lcc",
			ObjectTemplate:     "lcc %f %d %i -o %o",
			ArchiveTemplate:    DefaultArchiveTemplate,
			ExecutableTemplate: "cc %f %d %i -o %o",
		},
	}
}
