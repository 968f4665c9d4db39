// Package history persists completed processing sessions in SQLite.
//
// The Store manages the database connection and schema initialization and
// offers append plus newest-first listing. The database is an operator
// convenience, not an archive of record; schema changes bump the version in
// schema.go and users delete the database to adopt the new schema.
package history
