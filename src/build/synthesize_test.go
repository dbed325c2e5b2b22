package build

import (
	"errors"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/please-build/lbs/src/core"
)

var testCompiler = &core.Compiler{
	Name:               "c",
	ObjectTemplate:     "cc -c %i -o %o",
	ArchiveTemplate:    "ar crs %o %i",
	ExecutableTemplate: "cc %i -o %o",
}

func newScenario(t *testing.T, targets ...*core.Target) *core.BuildScenario {
	s := core.NewBuildScenario()
	require.NoError(t, s.AddCompiler(testCompiler))
	for _, target := range targets {
		require.NoError(t, s.AddTarget(target))
	}
	return s
}

func newState() *State {
	state := NewState()
	state.GOOS = "linux"
	return state
}

func TestSynthesizeEmptyScenario(t *testing.T) {
	cmds, err := Synthesize(newState(), core.NewBuildScenario(), "main", "c")
	assert.ErrorIs(t, err, ErrUnknownTarget)
	assert.True(t, cmds.Empty())
	assert.Empty(t, cmds.Artifacts)
}

func TestSynthesizeUnknownTargetSuggestion(t *testing.T) {
	s := newScenario(t, core.NewTarget("main", core.Executable))
	_, err := Synthesize(newState(), s, "mian", "c")
	assert.ErrorIs(t, err, ErrUnknownTarget)
	assert.Contains(t, err.Error(), "Maybe you meant main ?")
}

func TestSynthesizeNoRequisites(t *testing.T) {
	for kind, expected := range map[core.TargetKind]int{
		core.Generic:    0,
		core.Library:    1,
		core.Executable: 1,
	} {
		t.Run(kind.String(), func(t *testing.T) {
			s := newScenario(t, core.NewTarget("t", kind))
			cmds, err := Synthesize(newState(), s, "t", "c")
			require.NoError(t, err)
			assert.Len(t, cmds.Commands, expected)
			assert.Len(t, cmds.Artifacts, expected)
		})
	}
}

func TestSynthesizeEndToEnd(t *testing.T) {
	l := core.NewTarget("L", core.Library)
	l.Sources = []string{"l.c"}
	e := core.NewTarget("E", core.Executable)
	e.Sources = []string{"e.c"}
	e.AddDependency(l)
	s := newScenario(t, l, e)

	cmds, err := Synthesize(newState(), s, "E", "c")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"ar crs L l.c",
		"cc e.c -o E L",
	}, cmds.Commands)
	assert.Equal(t, []string{"L", "E"}, cmds.Artifacts)
}

func TestSynthesizeIncludesAndLibraries(t *testing.T) {
	lib := core.NewTarget("util", core.Library)
	lib.Sources = []string{"util.c"}
	lib.IncludeDirectories = []string{"include"}
	exe := core.NewTarget("main", core.Executable)
	exe.Sources = []string{"main.c", "other.c"}
	exe.Flags = []string{"-O2"}
	exe.Defines = []string{"-DX"}
	exe.IncludeDirectories = []string{"include", "third_party"}
	exe.AddDependency(lib)
	s := newScenario(t, lib, exe)
	require.NoError(t, s.AddCompiler(&core.Compiler{
		Name:               "full",
		ArchiveTemplate:    core.DefaultArchiveTemplate,
		ExecutableTemplate: "cc %f %d %i -o %o",
	}))

	cmds, err := Synthesize(newState(), s, "main", "full")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"ar crs util util.c -Iinclude",
		"cc -O2 -DX main.c other.c -o main -Iinclude -Ithird_party util",
	}, cmds.Commands)
}

func TestSynthesizeWindowsOutputName(t *testing.T) {
	s := newScenario(t, core.NewTarget("main", core.Executable))
	state := NewState()
	state.GOOS = "windows"
	cmds, err := Synthesize(state, s, "main", "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"cc  -o main.exe"}, cmds.Commands)
	assert.Equal(t, []string{"main.exe"}, cmds.Artifacts)
}

func TestSynthesizeDeduplicates(t *testing.T) {
	b := core.NewTarget("B", core.Library)
	a := core.NewTarget("A", core.Executable)
	a.AddDependency(b)
	s := newScenario(t, b, a)
	state := newState()

	first, err := Synthesize(state, s, "A", "c")
	require.NoError(t, err)
	second, err := Synthesize(state, s, "B", "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"ar crs B ", "cc  -o A B"}, first.Commands)
	assert.True(t, second.Empty(), "B was already built as part of A")
	assert.Equal(t, []string{"B", "A"}, state.Built())

	// A fresh state starts a fresh pass.
	third, err := Synthesize(newState(), s, "B", "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"ar crs B "}, third.Commands)
}

func TestSynthesizeDiamond(t *testing.T) {
	base := core.NewTarget("base", core.Library)
	left := core.NewTarget("left", core.Library)
	left.AddDependency(base)
	right := core.NewTarget("right", core.Library)
	right.AddDependency(base)
	top := core.NewTarget("top", core.Executable)
	top.AddDependency(left)
	top.AddDependency(right)
	s := newScenario(t, base, left, right, top)

	cmds, err := Synthesize(newState(), s, "top", "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"base", "left", "right", "top"}, cmds.Artifacts)
	assert.Len(t, cmds.Commands, 4)
}

func TestSynthesizeCopy(t *testing.T) {
	for _, kind := range []core.TargetKind{core.Generic, core.Library, core.Executable} {
		t.Run(kind.String(), func(t *testing.T) {
			target := core.NewTarget("T", kind)
			target.AddRequisite(core.NewCopy("a", "b"))
			s := newScenario(t, target)
			cmds, err := Synthesize(newState(), s, "T", "c")
			require.NoError(t, err)
			assert.Equal(t, "cp a b", cmds.Commands[0])
			assert.Equal(t, "b", cmds.Artifacts[0])
		})
	}
}

func TestSynthesizeRequisiteOrder(t *testing.T) {
	gen := core.NewTarget("gen", core.Generic)
	gen.AddRequisite(core.NewCommand("echo", "generating"))
	main := core.NewTarget("main", core.Executable)
	main.Sources = []string{"main.c"}
	main.AddRequisite(core.NewCommand("mkdir", "-p", "out"))
	main.AddDependency(gen)
	main.AddRequisite(core.NewCopy("config.h", "out/config.h"))
	s := newScenario(t, gen, main)

	cmds, err := Synthesize(newState(), s, "main", "c")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"mkdir -p out",
		"echo generating",
		"cp config.h out/config.h",
		"cc main.c -o main",
	}, cmds.Commands)
	assert.Equal(t, []string{"out/config.h", "main"}, cmds.Artifacts)
}

func TestSynthesizeTargetLanguage(t *testing.T) {
	target := core.NewTarget("main", core.Executable)
	target.Language = "tcc"
	s := newScenario(t, target)
	require.NoError(t, s.AddCompiler(&core.Compiler{Name: "tcc", ExecutableTemplate: "tcc %i -o %o"}))
	cmds, err := Synthesize(newState(), s, "main", "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"tcc  -o main"}, cmds.Commands)
}

func TestSynthesizeUnknownCompiler(t *testing.T) {
	s := newScenario(t, core.NewTarget("main", core.Executable))
	cmds, err := Synthesize(newState(), s, "main", "fortran")
	assert.ErrorIs(t, err, ErrUnknownCompiler)
	assert.True(t, cmds.Empty())
}

func TestSynthesizeDependencyErrorAbortsParent(t *testing.T) {
	lib := core.NewTarget("lib", core.Library)
	lib.Language = "fortran"
	main := core.NewTarget("main", core.Executable)
	main.AddRequisite(core.NewCommand("true"))
	main.AddDependency(lib)
	s := newScenario(t, lib, main)
	cmds, err := Synthesize(newState(), s, "main", "c")
	assert.ErrorIs(t, err, ErrUnknownCompiler)
	assert.True(t, cmds.Empty())
}

func TestSynthesizeFailedDependentDoesNotHideDependencies(t *testing.T) {
	l1 := core.NewTarget("L1", core.Library)
	l1.Sources = []string{"l1.c"}
	l2 := core.NewTarget("L2", core.Library)
	l2.Language = "nope"
	e := core.NewTarget("E", core.Executable)
	e.AddDependency(l1)
	e.AddDependency(l2)
	s := newScenario(t, l1, l2, e)
	state := newState()

	cmds, err := SynthesizeAll(state, s, []string{"E", "L1"}, "c")
	assert.ErrorIs(t, err, ErrUnknownCompiler)
	assert.Equal(t, []string{"ar crs L1 l1.c"}, cmds.Commands)
	assert.Equal(t, []string{"L1"}, cmds.Artifacts)
	assert.Equal(t, []string{"L1"}, state.Built())
	assert.False(t, state.IsBuilt("E"))
	assert.False(t, state.IsBuilt("L2"))
}

func TestSynthesizeSelfCycle(t *testing.T) {
	a := core.NewTarget("a", core.Generic)
	a.AddDependency(a)
	s := newScenario(t, a)
	_, err := Synthesize(newState(), s, "a", "c")
	var cycle *CycleError
	require.True(t, errors.As(err, &cycle))
	assert.Equal(t, []string{"a", "a"}, cycle.Chain)
}

func TestSynthesizeCycle(t *testing.T) {
	// Cycles can't be written in a description since it has no forward references,
	// but a scenario built in code can still have them.
	a := core.NewTarget("a", core.Library)
	b := core.NewTarget("b", core.Library)
	c := core.NewTarget("c", core.Library)
	a.AddDependency(b)
	b.AddDependency(c)
	c.AddDependency(a)
	s := newScenario(t, a, b, c)
	_, err := Synthesize(newState(), s, "a", "c")
	var cycle *CycleError
	require.True(t, errors.As(err, &cycle))
	assert.Equal(t, []string{"a", "b", "c", "a"}, cycle.Chain)
	assert.Contains(t, err.Error(), "a\n -> b\n -> c\n -> a")
}

func TestSynthesizeAll(t *testing.T) {
	a := core.NewTarget("a", core.Executable)
	b := core.NewTarget("b", core.Executable)
	b.Language = "fortran"
	c := core.NewTarget("c", core.Library)
	s := newScenario(t, a, b, c)

	cmds, err := SynthesizeAll(newState(), s, []string{"a", "b", "missing", "c", "a"}, "c")
	require.Error(t, err)
	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	require.Len(t, merr.Errors, 2)
	assert.ErrorIs(t, merr.Errors[0], ErrUnknownCompiler)
	assert.ErrorIs(t, merr.Errors[1], ErrUnknownTarget)
	assert.Equal(t, []string{"a", "c"}, cmds.Artifacts)
}

func TestDefaultTarget(t *testing.T) {
	_, err := DefaultTarget(newScenario(t))
	assert.ErrorIs(t, err, ErrNoDefaultTarget)

	name, err := DefaultTarget(newScenario(t,
		core.NewTarget("lib", core.Library),
		core.NewTarget("main", core.Executable),
		core.NewTarget("all", core.Generic),
	))
	assert.NoError(t, err)
	assert.Equal(t, "main", name)

	_, err = DefaultTarget(newScenario(t,
		core.NewTarget("one", core.Executable),
		core.NewTarget("two", core.Executable),
	))
	assert.ErrorIs(t, err, ErrNoDefaultTarget)
	assert.Contains(t, err.Error(), "one, two")
}

func TestAsOneCommand(t *testing.T) {
	cmds := &Commands{}
	assert.Equal(t, "", cmds.AsOneCommand(""))
	cmds.Add("mkdir out")
	cmds.Add("cc main.c -o out/main", "out/main")
	assert.Equal(t, "mkdir out && cc main.c -o out/main", cmds.AsOneCommand(""))
	assert.Equal(t, "mkdir out\ncc main.c -o out/main", cmds.AsOneCommand("\n"))
	assert.Equal(t, []string{"out/main"}, cmds.Artifacts)
}
