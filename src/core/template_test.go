package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandTemplate(t *testing.T) {
	subs := Substitutions{
		FlagsSpecifier:   "-O2",
		DefinesSpecifier: "-DX",
		InputSpecifier:   "a.c b.c",
		OutputSpecifier:  "out",
	}
	s, seen, err := ExpandTemplate("%f %d %i -o %o", subs)
	require.NoError(t, err)
	assert.Equal(t, "-O2 -DX a.c b.c -o out", s)
	assert.Equal(t, Specifiers{InputSpecifier: true, OutputSpecifier: true, FlagsSpecifier: true, DefinesSpecifier: true}, seen)
}

func TestExpandTemplateTrailingPercent(t *testing.T) {
	s, seen, err := ExpandTemplate("echo 100%", nil)
	require.NoError(t, err)
	assert.Equal(t, "echo 100%", s)
	assert.Empty(t, seen)
}

func TestExpandTemplateMissingSubstitution(t *testing.T) {
	s, _, err := ExpandTemplate("cc %f%i", Substitutions{InputSpecifier: "x.c"})
	require.NoError(t, err)
	assert.Equal(t, "cc x.c", s)
}

func TestExpandTemplateUnknownSpecifier(t *testing.T) {
	_, _, err := ExpandTemplate("cc %i %q", nil)
	var templateErr *TemplateError
	require.True(t, errors.As(err, &templateErr))
	assert.Equal(t, byte('q'), templateErr.Specifier)
	assert.Equal(t, 6, templateErr.Offset)
	assert.Contains(t, err.Error(), "%q")
}

func TestExpandTemplatePercentPercentIsAnError(t *testing.T) {
	assert.Error(t, ValidateTemplate("printf %%"))
}

func TestValidateTemplate(t *testing.T) {
	assert.NoError(t, ValidateTemplate(""))
	assert.NoError(t, ValidateTemplate("ar crs %o %i"))
	assert.Error(t, ValidateTemplate("ar crs %O %i"))
}
