// Package repository contains the table store backends for the Reflection
// values service.
//
// Every backend exposes the same partition scan primitive (see Store): it
// returns all rows of one (table, partition) pair ordered by row key. Filtering
// happens in the service layer; backends never see predicates.
//
// # Backends
//
// Each backend lives in its own subpackage:
//   - memory: in-process map, the default for development and tests
//   - dynamodb: one DynamoDB table per dataset, HASH PartitionKey, RANGE RowKey
//   - postgres: a single table_entities table with a JSONB properties column
//   - clickhouse: table_entities on a ReplacingMergeTree, read with FINAL
//   - redis: one hash per partition, field per row
//   - sqlite: table_entities in a local database file
//   - minio: one JSON object per row under {table}/{partition}/
//
// Open selects the backend from configuration. GuardedStore wraps any backend
// with per-table circuit breaking and query metrics.
//
// # Thread Safety
//
// All backends are safe for concurrent use.
package repository
