package pathspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePathScenarioE(t *testing.T) {
	spec, err := ParsePath("t", []byte("/toy/{request}"))
	require.NoError(t, err)
	require.Len(t, spec.Steps, 2)

	require.Len(t, spec.Steps[0].Parts, 1)
	assert.False(t, spec.Steps[0].Parts[0].IsVar)
	assert.Equal(t, "toy", spec.Steps[0].Parts[0].Segment)

	require.Len(t, spec.Steps[1].Parts, 1)
	assert.True(t, spec.Steps[1].Parts[0].IsVar)
	assert.Equal(t, "request", spec.Steps[1].Parts[0].Variable)
}

func TestParsePathBareRootIsEmptySteps(t *testing.T) {
	spec, err := ParsePath("t", []byte("/"))
	require.NoError(t, err)
	assert.Empty(t, spec.Steps)
}

func TestParsePathMissingLeadingSlashIsError(t *testing.T) {
	_, err := ParsePath("t", []byte("toy/{request}"))
	require.Error(t, err)
	perr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ErrNoLeadingSlash, perr.Kind)
}

func TestParsePathEmptyInputIsError(t *testing.T) {
	_, err := ParsePath("t", []byte(""))
	require.Error(t, err)
	perr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ErrNoLeadingSlash, perr.Kind)
}

func TestParsePathStepWithMixedLiteralAndVariableParts(t *testing.T) {
	spec, err := ParsePath("t", []byte("/prefix{id}suffix"))
	require.NoError(t, err)
	require.Len(t, spec.Steps, 1)
	require.Len(t, spec.Steps[0].Parts, 3)

	parts := spec.Steps[0].Parts
	assert.Equal(t, "prefix", parts[0].Segment)
	assert.True(t, parts[1].IsVar)
	assert.Equal(t, "id", parts[1].Variable)
	assert.Equal(t, "suffix", parts[2].Segment)
}

func TestParsePathMultipleVariableSteps(t *testing.T) {
	spec, err := ParsePath("t", []byte("/users/{userID}/orders/{orderID}"))
	require.NoError(t, err)
	require.Len(t, spec.Steps, 4)
	assert.Equal(t, "users", spec.Steps[0].Parts[0].Segment)
	assert.Equal(t, "userID", spec.Steps[1].Parts[0].Variable)
	assert.Equal(t, "orders", spec.Steps[2].Parts[0].Segment)
	assert.Equal(t, "orderID", spec.Steps[3].Parts[0].Variable)
}

func TestParsePathUnclosedVariableIsSyntaxError(t *testing.T) {
	_, err := ParsePath("t", []byte("/toy/{request"))
	require.Error(t, err)
	perr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ErrSyntax, perr.Kind)
}
