// Package ingestion provides pipeline orchestration for source lifecycles.
//
// The Pipeline type manages the ingestion workflow for sources:
//   - Creating the source record and chunking its content
//   - Building the vector index synchronously
//   - Building the knowledge graph asynchronously
//   - Reporting index readiness and orchestrating deletion
//
// Vector indexing happens in the caller's goroutine: a source whose ingest
// call returns without error is immediately searchable by similarity. The
// graph build is submitted fire-and-forget to a worker pool; its outcome is
// observable only through the source's status. Errors during async processing
// are logged but do not fail the ingestion operation.
package ingestion
