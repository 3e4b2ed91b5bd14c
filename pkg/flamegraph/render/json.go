package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/flamegen/flamegen/pkg/flamegraph/render/format"
)

const formatVersion = 1

// RenderJSON writes the graph in the machine-readable level format. It
// applies the same pruning, ordering and offset rules as RenderHTML, so
// both outputs describe the same picture.
func (f *FlameGraph) RenderJSON(w io.Writer) error {
	mintotal := f.minTotal()
	depth := f.renderDepth(mintotal)

	strtab := newStringTable()
	levels := make([][]format.Node, 0, depth)
	f.collectLevels(&levels, strtab, "all", f.root, 0, 0, -1, mintotal)

	data := format.Data{
		Meta: format.Meta{
			Version: formatVersion,
			Title:   f.opts.Title,
			Reverse: f.opts.Reverse,
			Depth:   depth,
			Total:   f.root.total,
		},
		Levels:  levels,
		Strings: strtab.Table(),
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("render: write json: %w", err)
	}
	return nil
}

// collectLevels mirrors writeFrame, but appends nodes into per-level
// slices and threads the parent's index in its level down to children.
func (f *FlameGraph) collectLevels(
	levels *[][]format.Node,
	strtab *stringTable,
	title string,
	frame *Frame,
	level int,
	x int64,
	parent int,
	mintotal int64,
) {
	kind := frame.displayKind()
	if kind == FrameKernel {
		title = stripMarker(title)
	}

	node := format.Node{
		ParentIndex: parent,
		Title:       strtab.Add(title),
		X:           x,
		Total:       frame.total,
		Self:        frame.self,
		Kind:        int(kind),
	}
	if frame.mixed() {
		node.Inlined = frame.inlined
		node.Tier1 = frame.tier1
		node.Interpreted = frame.interpreted
	}

	if len(*levels) <= level {
		*levels = append(*levels, nil)
	}
	(*levels)[level] = append((*levels)[level], node)
	index := len((*levels)[level]) - 1

	x += frame.self
	for _, key := range frame.sortedChildren() {
		child := frame.children[key]
		if child.total >= mintotal {
			f.collectLevels(levels, strtab, key, child, level+1, x, index, mintotal)
		}
		x += child.total
	}
}
