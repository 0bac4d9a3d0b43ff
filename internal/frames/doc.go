// Package frames gathers and orders the per-camera frame files of one
// episode.
//
// The search is an unbounded-depth recursive enumeration: capture tooling
// nests images arbitrarily deep and an episode tree is small relative to a
// full dataset scan, so no depth bound applies here (unlike episode
// discovery). Each file is assigned to a camera channel by the trailing-digit
// rule shared with the detector; files whose digit has no manifest entry are
// discarded and reported, never fatal.
//
// Within a channel, frames sort in natural order and the sorted position
// becomes frame_idx, the sole addressing key used downstream. Unequal channel
// lengths are reported as a consistency warning and left uncorrected;
// alignment policy belongs to the consumer.
package frames
