/*
NAME
  maxrendered.go

DESCRIPTION
  ComputeMaxRendered, the worst-case simultaneous-channel count a renderer
  must provision for a frame's sub-element tree.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package iabelements

// ComputeMaxRendered returns the worst-case number of simultaneously
// rendered channels across the packed (PackingEnabled) entries of
// subElements, per the following accounting:
//
//   - An unconditional object, or a conditional object whose useCase is
//     UseCaseAlways, always renders: it contributes 1 unconditionally.
//   - An unconditional bed, or a conditional bed whose useCase is
//     UseCaseAlways, always renders: it contributes its channel count
//     unconditionally (the largest channel count among it and any nested
//     BedDefinition sub-elements, since only one of a nested bed family
//     renders at a time).
//   - A conditional object (useCase != UseCaseAlways) contributes 1 to a
//     per-useCase tally, since only one use case is active at render time.
//   - A conditional bed (useCase != UseCaseAlways) contributes its channel
//     count to the same per-useCase tally.
//
// The result is the sum of the unconditional contributions plus the
// largest per-useCase tally (0 if no conditional elements are present),
// since at most one use case's conditional elements render simultaneously.
func ComputeMaxRendered(subElements []Element) uint64 {
	var unconditional uint64
	tallies := make(map[UseCase]uint64)

	for _, e := range subElements {
		if e == nil || !e.Packed() {
			continue
		}
		switch v := e.(type) {
		case *ObjectDefinition:
			if !v.ConditionalFlag || v.UseCase == UseCaseAlways {
				unconditional++
			} else {
				tallies[v.UseCase]++
			}
		case *BedDefinition:
			count := uint64(bedFamilyMaxChannelCount(v))
			if !v.ConditionalFlag || v.UseCase == UseCaseAlways {
				unconditional += count
			} else {
				tallies[v.UseCase] += count
			}
		}
	}

	var maxTally uint64
	for _, n := range tallies {
		if n > maxTally {
			maxTally = n
		}
	}
	return unconditional + maxTally
}

// bedFamilyMaxChannelCount returns the largest channel count of b and any
// nested BedDefinition sub-elements, since a bed's nested bed variants are
// alternates rather than concurrent renders.
func bedFamilyMaxChannelCount(b *BedDefinition) int {
	max := b.ChannelCount()
	for _, e := range b.SubElements {
		nested, ok := e.(*BedDefinition)
		if !ok {
			continue
		}
		if n := bedFamilyMaxChannelCount(nested); n > max {
			max = n
		}
	}
	return max
}
