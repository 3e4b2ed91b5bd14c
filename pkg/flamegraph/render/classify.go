package render

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type subMetric int8

const (
	metricNone subMetric = iota
	metricInlined
	metricTier1
	metricInterpreted
)

// classification is the outcome of shape-matching one raw label: the title
// the node is stored under, the kind it gets on creation, and which
// sub-metric counter the sample weight feeds.
type classification struct {
	title  string
	kind   FrameKind
	metric subMetric
}

// classifyFrame maps a raw stack label to its classification. Suffix
// markers win over anything else; the kernel marker is the only one kept
// in the stored title so it can be stripped at display time instead.
func classifyFrame(label string) classification {
	switch {
	case strings.HasSuffix(label, "_[j]"):
		return classification{stripMarker(label), FrameJIT, metricNone}
	case strings.HasSuffix(label, "_[i]"):
		return classification{stripMarker(label), FrameJIT, metricInlined}
	case strings.HasSuffix(label, "_[k]"):
		return classification{label, FrameKernel, metricNone}
	case strings.HasSuffix(label, "_[1]"):
		return classification{stripMarker(label), FrameJIT, metricTier1}
	case strings.Contains(label, "::"), strings.HasPrefix(label, "-["), strings.HasPrefix(label, "+["):
		return classification{label, FrameCPP, metricNone}
	case looksManaged(label):
		return classification{label, FrameJIT, metricInterpreted}
	default:
		return classification{label, FrameNative, metricNone}
	}
}

// looksManaged matches the shape of a runtime-managed method name:
// slash-qualified like java/lang/String.equals, or a dotted name whose
// first rune is upper case. Absolute paths keep their leading slash and
// fall through, as do bracketed module names.
func looksManaged(label string) bool {
	if strings.IndexByte(label, '/') > 0 && label[0] != '[' {
		return true
	}
	if strings.IndexByte(label, '.') > 0 {
		first, _ := utf8.DecodeRuneInString(label)
		return unicode.IsUpper(first)
	}
	return false
}

func stripMarker(label string) string {
	return label[:len(label)-4]
}
