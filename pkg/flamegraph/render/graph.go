package render

import (
	"github.com/flamegen/flamegen/pkg/flamegraph/collapsed"
)

// Options configures a flame graph. The zero value renders a full-depth,
// caller-first graph with no title.
type Options struct {
	// Title is rendered into the page header and document title.
	Title string
	// Reverse builds a callee-first (bottom-up) graph: traces are walked
	// from their leaf end, merging by innermost frame.
	Reverse bool
	// MinWidth prunes subtrees whose total weight is below this percentage
	// of the root total. Pruned subtrees still occupy horizontal space.
	MinWidth float64
	// Skip drops this many frames from the entry side of every trace.
	Skip int
}

// FlameGraph accumulates weighted stack traces into a single call tree
// and renders it. Options are fixed at construction.
type FlameGraph struct {
	opts Options

	root  *Frame
	nodes int

	// Deepest raw trace seen, before skipping. Sizes the canvas when no
	// pruning cutoff applies.
	maxStack int

	// Raw labels repeat heavily across traces; classify each one once.
	classes map[string]classification
}

func NewFlameGraph(opts Options) *FlameGraph {
	return &FlameGraph{
		opts:    opts,
		root:    newFrame(FrameNative),
		nodes:   1,
		classes: make(map[string]classification),
	}
}

// AddSample merges one stack trace with the given weight into the tree.
// The trace is ordered root first; value is expected to be non-negative.
func (f *FlameGraph) AddSample(stack []string, value int64) {
	frame := f.root
	if f.opts.Reverse {
		for i := len(stack) - f.opts.Skip - 1; i >= 0; i-- {
			frame = f.addChild(frame, stack[i], value)
		}
	} else {
		for i := f.opts.Skip; i < len(stack); i++ {
			frame = f.addChild(frame, stack[i], value)
		}
	}
	frame.addLeaf(value)

	if len(stack) > f.maxStack {
		f.maxStack = len(stack)
	}
}

// AddCollapsed merges every sample of a collapsed profile.
func (f *FlameGraph) AddCollapsed(profile *collapsed.Profile) {
	for i := range profile.Samples {
		f.AddSample(profile.Samples[i].Stack, profile.Samples[i].Value)
	}
}

// addChild charges value to parent, then finds or creates the child the
// label classifies into and charges its sub-metric counter. The child's
// own total is charged one level deeper, or by addLeaf at the end of the
// trace, which keeps every node's total equal to self plus its children.
func (f *FlameGraph) addChild(parent *Frame, label string, value int64) *Frame {
	parent.total += value

	class, ok := f.classes[label]
	if !ok {
		class = classifyFrame(label)
		f.classes[label] = class
	}

	child, ok := parent.children[class.title]
	if !ok {
		child = newFrame(class.kind)
		if parent.children == nil {
			parent.children = make(map[string]*Frame)
		}
		parent.children[class.title] = child
		f.nodes++
	}

	switch class.metric {
	case metricInlined:
		child.inlined += value
	case metricTier1:
		child.tier1 += value
	case metricInterpreted:
		child.interpreted += value
	}
	return child
}

// Total is the aggregate weight of all added samples.
func (f *FlameGraph) Total() int64 {
	return f.root.total
}

// Nodes is the number of distinct frames in the tree, root included.
func (f *FlameGraph) Nodes() int {
	return f.nodes
}
