// Package aggregates implements the aggregate contracts from internal/domain/aggregates.
//
// Each implementation composes table repos from internal/data/repos and owns the transaction
// around its invariant-critical writes. Conflicting writes on a unique pair are retried once
// in a fresh transaction.
package aggregates
