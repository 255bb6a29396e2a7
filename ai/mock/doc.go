// Package mock provides test doubles for the ai interfaces.
//
// The mocks use function fields for behavior injection and track call counts
// for assertions, so tests can exercise the ingestion pipeline and retrieval
// engine without any external AI services.
package mock
