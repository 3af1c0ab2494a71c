// Package io writes and reads atlaspack's on-disk artifacts.
//
// A packing run produces two kinds of artifact in the output directory:
// composed atlas images (<base>0.png, <base>1.png, ...) and descriptor
// files (<base>.json, <base>.xml, <base>.bin). A run-hash sidecar
// (<base>.hash) records the input fingerprint so unchanged runs can be
// skipped entirely.
//
// All writes go through a temp-file-and-rename so a crashed or cancelled
// run never leaves a truncated artifact behind. After a successful run,
// [RemoveStale] deletes image files left over from a previous run that
// produced more atlases than the current one.
package io
