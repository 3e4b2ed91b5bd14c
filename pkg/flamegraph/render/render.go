package render

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// The page template is spliced by marker rather than executed by a
// template engine: profiles routinely carry hundreds of thousands of
// frames, and text/template is far too slow on that path.
//
//go:embed flame.html
var flameTemplate string

// Markers the template must carry, each exactly once, in this order.
var templateMarkers = [...]string{
	"/*height:*/300",
	"/*title:*/",
	"/*reverse:*/false",
	"/*depth:*/0",
	"/*frames:*/",
}

// RenderHTML writes the graph as a self-contained interactive page.
func (f *FlameGraph) RenderHTML(w io.Writer) error {
	mintotal := f.minTotal()
	depth := f.renderDepth(mintotal)

	values := [...]string{
		strconv.Itoa(canvasHeight(depth)),
		f.opts.Title,
		strconv.FormatBool(f.opts.Reverse),
		strconv.Itoa(depth),
	}

	bw := bufio.NewWriterSize(w, 64*1024)
	tail := flameTemplate
	for i, value := range values {
		head, rest, err := cutMarker(tail, templateMarkers[i])
		if err != nil {
			return err
		}
		bw.WriteString(head)
		bw.WriteString(value)
		tail = rest
	}

	head, rest, err := cutMarker(tail, templateMarkers[4])
	if err != nil {
		return err
	}
	bw.WriteString(head)
	f.writeFrame(bw, "all", f.root, 0, 0, mintotal)
	bw.WriteString(rest)

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("render: write html: %w", err)
	}
	return nil
}

func cutMarker(data, marker string) (head, tail string, err error) {
	head, tail, found := strings.Cut(data, marker)
	if !found {
		return "", "", fmt.Errorf("render: template marker %q missing", marker)
	}
	return head, tail, nil
}

// writeFrame emits one f(level, x, total, kind, title[, inlined, tier1,
// interpreted]) call and recurses into surviving children. x advances by
// the full child total even when the child itself is pruned, so siblings
// keep their true offsets.
func (f *FlameGraph) writeFrame(w *bufio.Writer, title string, frame *Frame, level int, x int64, mintotal int64) {
	kind := frame.displayKind()
	if kind == FrameKernel {
		title = stripMarker(title)
	}

	if frame.mixed() {
		fmt.Fprintf(w, "f(%d,%d,%d,%d,'%s',%d,%d,%d)\n",
			level, x, frame.total, kind, escapeTitle(title),
			frame.inlined, frame.tier1, frame.interpreted)
	} else {
		fmt.Fprintf(w, "f(%d,%d,%d,%d,'%s')\n",
			level, x, frame.total, kind, escapeTitle(title))
	}

	x += frame.self
	for _, key := range frame.sortedChildren() {
		child := frame.children[key]
		if child.total >= mintotal {
			f.writeFrame(w, key, child, level+1, x, mintotal)
		}
		x += child.total
	}
}

// escapeTitle makes a title safe inside a single-quoted JS string literal.
// Backslashes go first so quote escapes are not doubled.
func escapeTitle(title string) string {
	if strings.IndexByte(title, '\\') >= 0 {
		title = strings.ReplaceAll(title, `\`, `\\`)
	}
	if strings.IndexByte(title, '\'') >= 0 {
		title = strings.ReplaceAll(title, `'`, `\'`)
	}
	return title
}
