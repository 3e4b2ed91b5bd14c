package render

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// FrameKind categorizes a frame for coloring. The numeric values are wire
// codes shared with the HTML template and the JSON output; do not reorder.
type FrameKind int8

const (
	FrameInterpreted FrameKind = iota
	FrameJIT
	FrameInlined
	FrameNative
	FrameCPP
	FrameKernel
	FrameTier1
)

func (k FrameKind) String() string {
	switch k {
	case FrameInterpreted:
		return "interpreted"
	case FrameJIT:
		return "jit"
	case FrameInlined:
		return "inlined"
	case FrameNative:
		return "native"
	case FrameCPP:
		return "cpp"
	case FrameKernel:
		return "kernel"
	case FrameTier1:
		return "tier1"
	default:
		return "unknown"
	}
}

// Frame is one node of the aggregated call tree. Children are keyed by
// classified title, so raw labels that classify identically merge here.
type Frame struct {
	kind FrameKind

	total int64
	self  int64

	// Weight that reached this node through inlined, tier-1-compiled or
	// interpreted variants of the same method. Bounded by total.
	inlined     int64
	tier1       int64
	interpreted int64

	children map[string]*Frame
}

func newFrame(kind FrameKind) *Frame {
	return &Frame{kind: kind}
}

func (f *Frame) addLeaf(value int64) {
	f.total += value
	f.self += value
}

// displayKind votes a node into a sub-flavor once that flavor holds a
// scaled majority of its weight. The stored kind is never changed.
func (f *Frame) displayKind() FrameKind {
	switch {
	case f.inlined*3 >= f.total:
		return FrameInlined
	case f.tier1*2 >= f.total:
		return FrameTier1
	case f.interpreted*2 >= f.total:
		return FrameInterpreted
	default:
		return f.kind
	}
}

// mixed reports whether the sub-metric triple should accompany the frame
// in the output. A frame that is entirely inlined or entirely interpreted
// already tells its story through the kind code.
func (f *Frame) mixed() bool {
	return (f.inlined|f.tier1|f.interpreted) != 0 &&
		f.inlined < f.total &&
		f.interpreted < f.total
}

// sortedChildren returns child titles in lexicographic order. Traversal
// order must not depend on map iteration.
func (f *Frame) sortedChildren() []string {
	keys := maps.Keys(f.children)
	slices.Sort(keys)
	return keys
}
