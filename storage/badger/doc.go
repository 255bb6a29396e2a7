// Package badger implements the storage repositories on BadgerDB.
//
// All records for a deployment live in a single key space. Composite keys are
// joined with an 0x1f separator so user-supplied names and paths cannot break
// prefix isolation. Relationship edges are written under both endpoints, which
// turns neighbor lookups into plain prefix scans at the cost of doubled edge
// storage.
package badger
