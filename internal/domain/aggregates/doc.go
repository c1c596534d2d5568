// Package aggregates defines the write boundaries of the course platform: reaction toggles,
// test attempts, question sets, teacher ratings, lesson progress and enrollment approvals.
//
// Each aggregate owns its transaction and enforces its unique-pair invariant inside it.
package aggregates
