package render

const (
	// frameHeight is the pixel height of one frame row in the canvas.
	frameHeight = 16
	// maxCanvasHeight keeps the canvas below the limit where browser
	// surfaces silently stop painting.
	maxCanvasHeight = 32767
)

// minTotal converts the MinWidth percentage into an absolute weight
// cutoff, truncating toward zero.
func (f *FlameGraph) minTotal() int64 {
	return int64(float64(f.root.total) * f.opts.MinWidth / 100)
}

// renderDepth is the number of frame rows the output will hold. With an
// effective cutoff it is the depth of the surviving tree; otherwise the
// deepest raw trace bounds it, which spares a full traversal.
func (f *FlameGraph) renderDepth(mintotal int64) int {
	if mintotal > 1 {
		return f.root.depth(mintotal)
	}
	return f.maxStack + 1
}

// depth is one row for f itself plus the deepest child subtree whose
// total clears the cutoff.
func (f *Frame) depth(cutoff int64) int {
	deepest := 0
	for _, child := range f.children {
		if child.total >= cutoff {
			if d := child.depth(cutoff); d > deepest {
				deepest = d
			}
		}
	}
	return deepest + 1
}

func canvasHeight(depth int) int {
	if h := depth * frameHeight; h < maxCanvasHeight {
		return h
	}
	return maxCanvasHeight
}
