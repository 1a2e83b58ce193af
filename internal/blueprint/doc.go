// Package blueprint loads declarative workflow documents.
//
// A blueprint is a two-section YAML document: planes.agentic declares named
// processing units, planes.structural declares ordered phases of steps. An
// optional leading space-format marker line (⫻name/dtype:place/index) tags
// the payload and is stripped before parsing.
//
// Loading is atomic: any malformed unit, phase, or step fails the whole load
// with a *ParseError. Absent sections default to empty, absent unit fields
// default to generic values, and a unit is Composite exactly when it carries
// type: composite or a blueprint_path.
//
// Entry points:
//   - Load(text) / LoadFile(path) / LoadDocument(pathOrText)
//   - SplitMarker / ParseMarker for space-format headers
package blueprint
