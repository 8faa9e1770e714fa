// Package testdb provides helpers for tests that need a real PostgreSQL
// database. Tests using it should carry the integration build tag and call
// SkipIfNoDatabase (or OpenTestDB, which does so) first.
//
// The database URL is read from DATABASE_URL, falling back to
// BLOGRELAY_TEST_DB_URL. Each test runs inside a transaction that is rolled
// back when the test finishes, so tests can share one migrated database.
package testdb
