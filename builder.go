package confkit

// Builder is the contract between the manager and a mutable staging object
// for config type C. A builder mirrors C's fields as mutable slots, each
// initialized from a source instance, and commits them into a brand-new
// instance via Build.
//
// Build must produce a fully independent value: nothing in the emitted
// instance may alias the builder's slots or the source instance, so mutating
// the builder afterwards (or building again) cannot affect previously built
// instances. Concrete builder types are typically produced per schema by an
// external generator, but hand-written builders satisfying this interface
// work the same way; the manager never depends on how a builder was produced.
//
// Builders are transient: one is created per Modify/Update call and discarded
// after Build. Concurrent mutation of a single builder is not safe.
type Builder[C any] interface {
	Build() C
}

// DeriveFunc creates a builder whose slots are initialized from the given
// config instance. For reference-typed fields (slices, maps) the derivation
// must copy, not alias, so builder mutations cannot reach into the source.
type DeriveFunc[C any, B Builder[C]] func(cfg C) B

// ValidatorFunc checks a config instance for semantic validity. Validators
// run against decoded instances during load and against built instances
// before persistence; a non-nil error rejects the instance.
type ValidatorFunc[C any] func(cfg C) error
