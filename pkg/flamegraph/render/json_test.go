package render

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flamegen/flamegen/pkg/flamegraph/render/format"
)

func renderJSON(t *testing.T, fg *FlameGraph) format.Data {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, fg.RenderJSON(&buf))

	var data format.Data
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	return data
}

func title(t *testing.T, data format.Data, node format.Node) string {
	t.Helper()
	require.Less(t, node.Title, len(data.Strings))
	return data.Strings[node.Title]
}

func TestRenderJSONLevels(t *testing.T) {
	fg := NewFlameGraph(Options{Title: "json"})
	fg.AddSample([]string{"a", "b", "c"}, 5)
	fg.AddSample([]string{"a", "b", "d"}, 3)

	data := renderJSON(t, fg)

	require.Equal(t, format.Meta{
		Version: 1,
		Title:   "json",
		Reverse: false,
		Depth:   4,
		Total:   8,
	}, data.Meta)

	require.Len(t, data.Levels, 4)
	require.Len(t, data.Levels[0], 1)
	require.Len(t, data.Levels[3], 2)

	root := data.Levels[0][0]
	require.Equal(t, -1, root.ParentIndex)
	require.Equal(t, "all", title(t, data, root))
	require.Equal(t, int64(8), root.Total)
	require.Equal(t, int64(0), root.Self)

	c, d := data.Levels[3][0], data.Levels[3][1]
	require.Equal(t, "c", title(t, data, c))
	require.Equal(t, int64(0), c.X)
	require.Equal(t, int64(5), c.Total)
	require.Equal(t, int64(5), c.Self)
	require.Equal(t, "d", title(t, data, d))
	require.Equal(t, int64(5), d.X)
	require.Equal(t, int64(3), d.Total)

	require.ElementsMatch(t, []string{"all", "a", "b", "c", "d"}, data.Strings)
}

func TestRenderJSONParentIndexes(t *testing.T) {
	fg := NewFlameGraph(Options{})
	fg.AddSample([]string{"a", "x"}, 1)
	fg.AddSample([]string{"b", "y"}, 2)

	data := renderJSON(t, fg)

	require.Len(t, data.Levels, 3)
	first, second := data.Levels[1][0], data.Levels[1][1]
	require.Equal(t, "a", title(t, data, first))
	require.Equal(t, "b", title(t, data, second))
	require.Equal(t, 0, first.ParentIndex)
	require.Equal(t, 0, second.ParentIndex)

	x, y := data.Levels[2][0], data.Levels[2][1]
	require.Equal(t, "x", title(t, data, x))
	require.Equal(t, 0, x.ParentIndex)
	require.Equal(t, "y", title(t, data, y))
	require.Equal(t, 1, y.ParentIndex)
}

func TestRenderJSONPruned(t *testing.T) {
	fg := NewFlameGraph(Options{MinWidth: 50})
	fg.AddSample([]string{"a"}, 4)
	fg.AddSample([]string{"b", "y"}, 6)

	data := renderJSON(t, fg)

	require.Equal(t, 3, data.Meta.Depth)
	require.Len(t, data.Levels[1], 1)
	b := data.Levels[1][0]
	require.Equal(t, "b", title(t, data, b))
	require.Equal(t, int64(4), b.X)
	require.NotContains(t, data.Strings, "a")
}

func TestRenderJSONSubMetrics(t *testing.T) {
	fg := NewFlameGraph(Options{})
	fg.AddSample([]string{"foo_[i]"}, 10)
	fg.AddSample([]string{"foo"}, 2)

	data := renderJSON(t, fg)

	foo := data.Levels[1][0]
	require.Equal(t, int(FrameInlined), foo.Kind)
	require.Equal(t, int64(10), foo.Inlined)
	require.Equal(t, int64(0), foo.Tier1)

	// Entirely inlined nodes carry no triple.
	whole := NewFlameGraph(Options{})
	whole.AddSample([]string{"foo_[i]"}, 10)
	wholeData := renderJSON(t, whole)
	require.Equal(t, int64(0), wholeData.Levels[1][0].Inlined)
}

func TestRenderJSONKernelTitle(t *testing.T) {
	fg := NewFlameGraph(Options{})
	fg.AddSample([]string{"vfs_read_[k]"}, 3)

	data := renderJSON(t, fg)

	read := data.Levels[1][0]
	require.Equal(t, int(FrameKernel), read.Kind)
	require.Equal(t, "vfs_read", title(t, data, read))
}

func TestRenderJSONSharedTitles(t *testing.T) {
	fg := NewFlameGraph(Options{})
	fg.AddSample([]string{"a", "a", "a"}, 1)

	data := renderJSON(t, fg)

	// One string table entry serves every level.
	require.ElementsMatch(t, []string{"all", "a"}, data.Strings)
	require.Equal(t, data.Levels[1][0].Title, data.Levels[2][0].Title)
}
