package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/pprof/profile"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/flamegen/flamegen/pkg/atomicfs"
	"github.com/flamegen/flamegen/pkg/flamegraph/collapsed"
	"github.com/flamegen/flamegen/pkg/flamegraph/convert"
)

// Stdio is the pseudo-path for standard input or output.
const Stdio = "-"

// OpenInput opens path for reading, transparently decompressing .gz and
// .zst files. Stdio means stdin.
func OpenInput(path string) (io.ReadCloser, error) {
	if path == Stdio {
		return io.NopCloser(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cli: open input: %w", err)
	}

	switch {
	case strings.HasSuffix(path, ".gz"):
		zr, err := gzip.NewReader(file)
		if err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("cli: open gzip input: %w", err)
		}
		return &layeredReader{Reader: zr, closers: []io.Closer{zr, file}}, nil

	case strings.HasSuffix(path, ".zst"):
		zr, err := zstd.NewReader(file)
		if err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("cli: open zstd input: %w", err)
		}
		return &layeredReader{Reader: zr, closers: []io.Closer{zr.IOReadCloser(), file}}, nil
	}

	return file, nil
}

// OpenOutput opens path for writing, Stdio or empty meaning stdout.
// File output goes through an atomic temp file: nothing lands under
// path until Close, and AbortOutput drops it.
func OpenOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == Stdio {
		return nopWriteCloser{os.Stdout}, nil
	}
	file, err := atomicfs.Create(path)
	if err != nil {
		return nil, fmt.Errorf("cli: create output: %w", err)
	}
	return file, nil
}

// AbortOutput throws away unfinished output. Safe to defer next to a
// successful Close.
func AbortOutput(w io.WriteCloser) {
	if file, ok := w.(*atomicfs.File); ok {
		_ = file.Discard()
		return
	}
	_ = w.Close()
}

// DetectInputFormat resolves FormatAuto by file extension, compression
// suffixes stripped first. pprof profiles usually travel as *.pprof or
// *.pb.gz; anything else is treated as collapsed text.
func DetectInputFormat(path, format string) string {
	if format != FormatAuto {
		return format
	}
	name := strings.ToLower(path)
	for _, ext := range []string{".gz", ".zst"} {
		name = strings.TrimSuffix(name, ext)
	}
	switch filepath.Ext(name) {
	case ".pprof", ".pb":
		return FormatPProf
	}
	return FormatCollapsed
}

// ReadProfile reads the profile at path in the given input format and
// returns it as collapsed samples.
func ReadProfile(path, format string) (*collapsed.Profile, error) {
	in, err := OpenInput(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	switch DetectInputFormat(path, format) {
	case FormatPProf:
		prof, err := profile.Parse(in)
		if err != nil {
			return nil, fmt.Errorf("cli: parse pprof profile: %w", err)
		}
		return convert.PProfToCollapsed(prof)
	default:
		return collapsed.Decode(in)
	}
}

type layeredReader struct {
	io.Reader
	closers []io.Closer
}

func (r *layeredReader) Close() error {
	var err error
	for _, closer := range r.closers {
		if cerr := closer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}
