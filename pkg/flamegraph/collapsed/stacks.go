// Package collapsed reads and writes collapsed (folded) stack traces:
// one call path per line, frames joined by ';', followed by a single
// space and a base-10 sample weight.
package collapsed

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type Sample struct {
	Stack []string
	Value int64
}

type Profile struct {
	Samples []Sample
}

// Total returns the sum of all sample weights.
func (p *Profile) Total() int64 {
	var total int64
	for i := range p.Samples {
		total += p.Samples[i].Value
	}
	return total
}

// Decode parses collapsed stack traces line by line. Lines without an
// interior space are not samples and are skipped: profilers routinely
// emit header or warning noise between stacks. A line that does carry
// a weight field which fails to parse aborts the whole decode.
func Decode(r io.Reader) (*Profile, error) {
	res := &Profile{
		Samples: make([]Sample, 0),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1<<30)
	for scanner.Scan() {
		line := scanner.Text()
		idx := strings.LastIndexByte(line, ' ')
		if idx <= 0 {
			continue
		}
		value, err := strconv.ParseInt(line[idx+1:], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("collapsed: malformed sample weight: %w", err)
		}
		res.Samples = append(res.Samples, Sample{
			Stack: strings.Split(line[:idx], ";"),
			Value: value,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("collapsed: read input: %w", err)
	}

	return res, nil
}

func Encode(profile *Profile, w io.Writer) error {
	for _, sample := range profile.Samples {
		stack := strings.Join(sample.Stack, ";")
		_, err := fmt.Fprintf(w, "%s %d\n", stack, sample.Value)
		if err != nil {
			return err
		}
	}
	return nil
}

func Unmarshal(buf []byte) (*Profile, error) {
	return Decode(bytes.NewBuffer(buf))
}

func Marshal(profile *Profile) ([]byte, error) {
	buf := new(bytes.Buffer)
	err := Encode(profile, buf)
	return buf.Bytes(), err
}
