// Package postgres implements the artifact index defined in internal/store on
// PostgreSQL, using the pgx driver through database/sql and sqlx, and ships
// the schema as embedded goose migrations.
package postgres
