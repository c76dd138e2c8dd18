// Package store provides schemaless entity persistence for the cellar API.
//
// Every entity kind (users, styles, recipes) is a named collection of
// schemaless records keyed by a store-assigned numeric id. The package
// exposes one [Adapter] interface and two implementations:
//
//   - [Dynamo]: the production adapter. All kinds share a single DynamoDB
//     table partitioned by kind, with the numeric id as sort key so
//     collections read back in creation order. Ids are allocated from an
//     atomic counter item per kind. Continuation cursors are the table's
//     LastEvaluatedKey, marshalled and base64-encoded, and are opaque to
//     every layer above this one.
//   - [Memory]: a mutex-guarded in-process adapter with identical contract,
//     used by tests and local runs.
//
// # Semantics
//
//   - Get, Patch, and Delete of a missing id return [ErrNotFound].
//   - GetCollection of an empty or unknown kind returns an empty slice,
//     never an error.
//   - Save assigns the id; Upsert requires the record to carry one.
//   - Patch is a sparse merge: absent fields keep their stored values and
//     the id field is never overwritten.
//   - A malformed continuation token yields [ErrBadCursor].
//
// The adapter gives no multi-record atomicity: callers sequencing several
// writes must tolerate partial completion.
package store
