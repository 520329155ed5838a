// Package config loads the catalog settings.
//
// Sources, lowest precedence first: built-in defaults, catalog.yaml (from
// ./config or the working directory, or the file passed to WithConfigFile),
// and CATALOG_* environment variables. A .env file is loaded into the
// environment beforehand.
//
// Keys map to variables by upper-casing and replacing dots with underscores:
//
//	store.dsn                  -> CATALOG_STORE_DSN
//	cache.by_public_id.ttl     -> CATALOG_CACHE_BY_PUBLIC_ID_TTL
//	service.batch_concurrency  -> CATALOG_SERVICE_BATCH_CONCURRENCY
package config
