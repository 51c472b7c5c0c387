// Package timeslice implements the disk-backed transposed frame store.
//
// A run's frames arrive as (x, y) rasters ordered by time. The slicer cuts
// every frame into the same set of contiguous byte ranges ("bands") and
// appends each range, independently compressed, to that band's file. A band
// file is therefore a (x, t) view of the frame cube: chunk i holds frame i's
// samples for the band's pixel range. Readers stream chunks back in frame
// order, optionally skipping frames that a consumer does not need.
//
// The chunk format is a repeated record of a big-endian uint32 payload length
// followed by the gzip, zlib, or raw deflate payload. Truncated trailing data
// terminates the stream without error.
package timeslice
