package render

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMinTotal(t *testing.T) {
	fg := NewFlameGraph(Options{MinWidth: 2.5})
	fg.AddSample([]string{"a"}, 1000)
	require.Equal(t, int64(25), fg.minTotal())

	whole := NewFlameGraph(Options{})
	whole.AddSample([]string{"a"}, 1000)
	require.Equal(t, int64(0), whole.minTotal())

	// Truncates toward zero.
	odd := NewFlameGraph(Options{MinWidth: 0.1})
	odd.AddSample([]string{"a"}, 999)
	require.Equal(t, int64(0), odd.minTotal())
}

func TestRenderDepth(t *testing.T) {
	fg := NewFlameGraph(Options{})
	fg.AddSample([]string{"a", "b", "c"}, 90)
	fg.AddSample([]string{"a", "x", "y", "z", "w"}, 10)

	// No cutoff: the deepest raw trace wins, plus the root row.
	require.Equal(t, 6, fg.renderDepth(0))
	require.Equal(t, 6, fg.renderDepth(1))

	// Cutoff 20 drops the x subtree, leaving root->a->b->c.
	require.Equal(t, 4, fg.renderDepth(20))

	// Cutoff above everything leaves the root row only.
	require.Equal(t, 1, fg.renderDepth(1000))
}

func TestRenderDepthSkipped(t *testing.T) {
	fg := NewFlameGraph(Options{Skip: 2})
	fg.AddSample([]string{"a", "b", "c"}, 1)

	// The fallback counts raw frames, so skipped rows stay reserved.
	require.Equal(t, 4, fg.renderDepth(0))
}

func TestCanvasHeight(t *testing.T) {
	require.Equal(t, 16, canvasHeight(1))
	require.Equal(t, 160, canvasHeight(10))
	// Tall graphs clamp to the browser surface limit.
	require.Equal(t, 32767, canvasHeight(3000))
}
