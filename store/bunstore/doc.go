// Package bunstore implements store.Store on top of the bun ORM.
//
// Items live in the catalog_items table keyed by an autoincrement id with a
// unique index on public_id. Categories and tags are JSON arrays: on SQLite a
// contains test is an EXISTS over json_each, on PostgreSQL it is the jsonb @>
// operator. Text matches compare LOWER(column) with a LIKE pattern whose
// metacharacters are escaped.
//
// Predicates are compiled into go-repository-bun select criteria and applied to
// the select query:
//
//	db, err := bunstore.Open(bunstore.DriverSQLite, "file:catalog.db")
//	if err != nil {
//		return err
//	}
//	if err := bunstore.CreateSchema(ctx, db); err != nil {
//		return err
//	}
//	s := bunstore.New(db, bunstore.WithLogger(logger))
//
// Unique violations reported by lib/pq, pgx or go-sqlite3 are translated to
// catalog.ErrConflict.
package bunstore
