package framegraph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(log *[]string, name string) PassFunc {
	return func() error {
		*log = append(*log, name)
		return nil
	}
}

func TestCompile_DependenciesBeforeDependents(t *testing.T) {
	var log []string
	g := New()
	// Registered out of order on purpose.
	require.NoError(t, g.Add("forward", record(&log, "forward"), "lighting"))
	require.NoError(t, g.Add("lighting", record(&log, "lighting"), "shadow", "geometry"))
	require.NoError(t, g.Add("shadow", record(&log, "shadow")))
	require.NoError(t, g.Add("geometry", record(&log, "geometry")))

	order, err := g.Compile()
	require.NoError(t, err)
	assert.Equal(t, []string{"shadow", "geometry", "lighting", "forward"}, order)

	require.NoError(t, g.Execute())
	assert.Equal(t, order, log)
}

func TestAdd_Duplicate(t *testing.T) {
	g := New()
	require.NoError(t, g.Add("shadow", nil))
	assert.ErrorIs(t, g.Add("shadow", nil), ErrDuplicatePass)
}

func TestCompile_UnknownDependency(t *testing.T) {
	g := New()
	require.NoError(t, g.Add("lighting", nil, "gbuffer"))
	_, err := g.Compile()
	assert.ErrorIs(t, err, ErrUnknownDependency)
}

func TestCompile_Cycle(t *testing.T) {
	g := New()
	require.NoError(t, g.Add("a", nil, "c"))
	require.NoError(t, g.Add("b", nil, "a"))
	require.NoError(t, g.Add("c", nil, "b"))
	require.NoError(t, g.Add("d", nil))

	_, err := g.Compile()
	assert.ErrorIs(t, err, ErrCycle)
	assert.ErrorIs(t, g.Execute(), ErrCycle)
}

func TestExecute_StopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	var log []string
	g := New()
	require.NoError(t, g.Add("shadow", func() error { return boom }))
	require.NoError(t, g.Add("lighting", record(&log, "lighting"), "shadow"))

	err := g.Execute()
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `pass "shadow"`)
	assert.Empty(t, log)
}
