package buildinfo

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDump(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Dump(&buf))
	require.Contains(t, buf.String(), Version)
}
