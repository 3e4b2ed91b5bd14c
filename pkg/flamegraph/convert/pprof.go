// Package convert translates between the collapsed stack format and
// pprof profiles.
package convert

import (
	"fmt"

	"github.com/google/pprof/profile"
	"golang.org/x/exp/slices"

	"github.com/flamegen/flamegen/pkg/flamegraph/collapsed"
)

// PProfToCollapsed flattens a pprof profile into collapsed samples using
// the profile's default sample type. Inline expansions become separate
// frames tagged with an " (inlined)" suffix; locations without line info
// keep their raw address.
func PProfToCollapsed(prof *profile.Profile) (*collapsed.Profile, error) {
	sampleTypeIdx := 0
	for i, value := range prof.SampleType {
		if value.Type == prof.DefaultSampleType {
			sampleTypeIdx = i
			break
		}
	}
	res := &collapsed.Profile{
		Samples: make([]collapsed.Sample, len(prof.Sample)),
	}
	for i := range prof.Sample {
		sample := &res.Samples[i]
		sample.Value = prof.Sample[i].Value[sampleTypeIdx]
		sample.Stack = make([]string, 0, len(prof.Sample[i].Location))
		for _, loc := range prof.Sample[i].Location {
			// Line[0] is the innermost inlined function, the last entry
			// the caller it was inlined into, matching the leaf-first
			// location order.
			for j, line := range loc.Line {
				name := ""
				if line.Function != nil {
					if line.Function.Name != "" {
						name = line.Function.Name
					} else if line.Function.SystemName != "" {
						name = line.Function.SystemName
					}
				}
				if j != len(loc.Line)-1 {
					name += " (inlined)"
				}
				sample.Stack = append(sample.Stack, name)
			}

			if len(loc.Line) == 0 {
				name := ""
				if loc.Mapping == nil {
					name = fmt.Sprintf("0x%x", loc.Address)
				} else {
					name = fmt.Sprintf("0x%x @%s", loc.Address, loc.Mapping.File)
				}
				sample.Stack = append(sample.Stack, name)
			}
		}
		slices.Reverse(sample.Stack)
	}
	return res, nil
}

// CollapsedToPProf lifts collapsed samples into a minimal pprof profile
// with one synthetic location per distinct frame title.
func CollapsedToPProf(prof *collapsed.Profile) (*profile.Profile, error) {
	res := &profile.Profile{
		SampleType: []*profile.ValueType{{
			Type: "event",
			Unit: "count",
		}},
		Sample: make([]*profile.Sample, len(prof.Samples)),
	}

	locations := make(map[string]*profile.Location)
	for i := range prof.Samples {
		res.Sample[i] = &profile.Sample{
			Value: []int64{prof.Samples[i].Value},
		}
		for _, function := range prof.Samples[i].Stack {
			loc, found := locations[function]
			if !found {
				funcPtr := &profile.Function{
					ID:   1 + uint64(len(res.Function)),
					Name: function,
				}
				loc = &profile.Location{
					ID: 1 + uint64(len(res.Location)),
					Line: []profile.Line{{
						Function: funcPtr,
					}},
				}
				res.Function = append(res.Function, funcPtr)
				res.Location = append(res.Location, loc)
				locations[function] = loc
			}
			res.Sample[i].Location = append(res.Sample[i].Location, loc)
		}
		slices.Reverse(res.Sample[i].Location)
	}

	return res, nil
}
