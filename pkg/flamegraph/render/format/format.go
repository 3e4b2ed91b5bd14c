// Package format holds the JSON wire representation of a rendered flame
// graph: nodes grouped by depth level, titles deduplicated through a
// string table, and a small metadata header.
package format

// StringIndex is an offset into Data.Strings.
type StringIndex = int

type Data struct {
	Meta    Meta     `json:"meta"`
	Levels  [][]Node `json:"levels"`
	Strings []string `json:"strings"`
}

type Meta struct {
	Version int    `json:"version"`
	Title   string `json:"title"`
	Reverse bool   `json:"reverse"`
	Depth   int    `json:"depth"`
	Total   int64  `json:"total"`
}

// Node is one visible frame. X and Total are absolute sample weights
// measured from the left edge of the graph; Kind carries the same
// category codes as the HTML renderer. ParentIndex points into the
// previous level, -1 for the root.
type Node struct {
	ParentIndex int         `json:"parentIndex"`
	Title       StringIndex `json:"titleIndex"`
	X           int64       `json:"x"`
	Total       int64       `json:"total"`
	Self        int64       `json:"self"`
	Kind        int         `json:"kind"`
	Inlined     int64       `json:"inlined,omitempty"`
	Tier1       int64       `json:"tier1,omitempty"`
	Interpreted int64       `json:"interpreted,omitempty"`
}
