package geometry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitglue/coursemap/pkg/domain/geometry"
	"github.com/fitglue/coursemap/pkg/testing/fixtures"
)

func TestCompute_Repeatable(t *testing.T) {
	tr := fixtures.Loop(200)

	first, err := geometry.Compute(tr.Samples, geometry.DefaultOversizeRatio)
	require.NoError(t, err)
	second, err := geometry.Compute(tr.Samples, geometry.DefaultOversizeRatio)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, first.Box, second.Box)
	assert.Greater(t, first.Box.Span, 0.0)

	xs1, ys1 := first.Frame.ProjectAll(tr.Samples)
	xs2, ys2 := second.Frame.ProjectAll(tr.Samples)
	assert.Equal(t, xs1, xs2)
	assert.Equal(t, ys1, ys2)
}
