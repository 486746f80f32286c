// Package idhash gives stable, content-derived string identities to the
// small structural values the grammar package needs to deduplicate:
// LR(0) items and item sets. Two values that are structurally equal
// always hash to the same id, which is what lets ItemSet and
// CanonicalCollection use plain map/set membership instead of pointer
// identity.
package idhash

import "github.com/cnf/structhash"

// version is the structhash format version; bump it only if the encoding
// of hashed structs changes in a way that would otherwise silently collide
// with ids computed by an older build.
const version = 1

// Of hashes v into a stable, comparable id string. v must be a value type
// (or a struct of value types) — structhash walks it reflectively, so
// unexported fields and slice order both participate in the digest.
func Of(v interface{}) string {
	h, err := structhash.Hash(v, version)
	if err != nil {
		// structhash.Hash only fails for unsupported field kinds (e.g. a
		// channel or func); item.go only feeds it structs of integers,
		// integer slices and booleans, or slices of strings, so this is
		// unreachable.
		panic(err)
	}
	return h
}
