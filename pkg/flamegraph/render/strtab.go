package render

type stringTable struct {
	indexes map[string]int
	strings []string
}

func newStringTable() *stringTable {
	return &stringTable{indexes: map[string]int{}}
}

func (t *stringTable) Add(s string) int {
	if index, ok := t.indexes[s]; ok {
		return index
	}
	index := len(t.strings)
	t.indexes[s] = index
	t.strings = append(t.strings, s)
	return index
}

func (t *stringTable) Table() []string {
	return t.strings
}
