// Package sink encodes atlas descriptors to their on-disk formats.
//
// Three encodings are supported:
//
//   - JSON: the primary interchange format, via [RenderJSON]
//   - XML: attribute-style markup for engine importers, via [RenderXML]
//   - Binary: compact BSON for size-sensitive consumers, via [RenderBinary]
//
// Every encoding round-trips: Decode(Render(doc)) reproduces doc exactly.
// [Encode] and [Decode] dispatch on a [Format] value parsed from a flag.
package sink
