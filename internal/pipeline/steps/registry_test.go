package steps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepRegistry(t *testing.T) {
	for _, stepName := range []string{Anchors, Schedule, Document} {
		def, ok := StepRegistry[stepName]
		require.True(t, ok, "Step %s should be in registry", stepName)
		assert.Equal(t, stepName, def.Name)
		assert.NotEmpty(t, def.Description)
	}
}

func TestDependencyError(t *testing.T) {
	err := &DependencyError{
		Step:                "test_step",
		MissingDependencies: []string{"dep1", "dep2"},
	}

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing dependencies")
	assert.Equal(t, "test_step", err.Step)
	assert.Equal(t, []string{"dep1", "dep2"}, err.MissingDependencies)
}

func TestValidateDependencies(t *testing.T) {
	err := ValidateDependencies(map[string]bool{}, "unknown_step")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown step")

	assert.NoError(t, ValidateDependencies(nil, Anchors))

	err = ValidateDependencies(map[string]bool{Anchors: true}, Document)
	var depErr *DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, []string{Schedule}, depErr.MissingDependencies)

	assert.NoError(t, ValidateDependencies(map[string]bool{Schedule: true}, Document))
}

func names(defs []StepDefinition) []string {
	out := make([]string, len(defs))
	for i, d := range defs {
		out[i] = d.Name
	}
	return out
}

func TestResolve(t *testing.T) {
	order, err := Resolve(Document, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{Anchors, Schedule, Document}, names(order))

	order, err = Resolve(Document, map[string]bool{Schedule: true})
	require.NoError(t, err)
	assert.Equal(t, []string{Document}, names(order))

	order, err = Resolve(Schedule, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{Anchors, Schedule}, names(order))

	_, err = Resolve("nope", nil)
	assert.Error(t, err)
}
