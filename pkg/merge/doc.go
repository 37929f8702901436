// Package merge implements the deep-merge semantics used by the strata
// load pipeline.
//
// The merge rule is deliberately small and fixed:
//
//   - If both sides are non-nil maps, they are merged recursively. Keys
//     present only in the destination survive; keys present in both are
//     merged key by key.
//   - In every other case (nil, slice, scalar on either side) the source
//     value wins wholesale. Slices are atomic values and are never
//     combined element-wise.
//
// The loader merges each newly resolved source as the src side into a
// running accumulator, so later sources overwrite earlier ones at every
// leaf while nested maps compose rather than replace.
package merge
