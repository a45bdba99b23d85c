// Package model is the static description of a state tree:
// node kinds (simple/composite/parallel/joint), hierarchy, joint-state
// guard sets, and per-node handler tables, plus the one-time construction
// validation that rejects a malformed tree.
//
// Everything here is immutable once Build succeeds. The mutable active-set,
// dispatch, and transition-planning machinery live in internal/engine,
// which only ever reads a *Tree.
package model
