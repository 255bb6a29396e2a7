// Package chunk splits ingested content into retrievable text units.
//
// Two strategies exist, chosen by source type. Document content is cut into
// fixed-size overlapping windows so entities straddling a boundary appear
// whole in at least one chunk. Repository content is cut per file: small
// files stay whole to preserve full-file context for structural extraction,
// large files are cut into disjoint larger windows. Repo chunks carry path,
// language and file type tags used later for File nodes and citations.
package chunk
