package pathmod

import "unsafe"

// Accessor locates the F-typed sub-object at a fixed byte offset inside any
// C-typed value. It is an immutable relation between the two types, not a
// reference: it owns no data and never extends the lifetime of a container or
// field. Accessors are freely copyable; equal accessors are interchangeable.
//
// Soundness contract (not checked at access time): for every valid *C, the
// address base+offset holds an in-bounds, correctly aligned F sub-object.
// The safe constructors (For, ForName, ForIndex) establish this before
// returning; FromOffset pushes the obligation to its caller.
type Accessor[C, F any] struct {
	offset uintptr
}

// FromOffset builds an accessor directly from a raw byte offset with no
// validation whatsoever.
//
// This is the library's single unsafe-by-contract entry point: calling it with
// an offset that does not satisfy the soundness contract above makes every
// subsequent operation on the returned accessor undefined behavior, not a
// recoverable error. It exists for generated code, where the offset comes from
// the host's own layout query:
//
//	pathmod.FromOffset[T, FieldType](unsafe.Offsetof(T{}.Field))
//
// Hand-written callers should prefer For, ForName, or ForIndex.
func FromOffset[C, F any](offset uintptr) Accessor[C, F] {
	return Accessor[C, F]{offset: offset}
}

// Offset returns the raw byte displacement from the start of a C value to the
// start of the targeted F sub-object.
func (a Accessor[C, F]) Offset() uintptr { return a.offset }

// Get returns a pointer to the field inside *c. The returned pointer aliases
// c's storage and is valid exactly as long as c is. The cast itself reads no
// memory; only the caller's use of the result does.
//
// Go has a single pointer kind, so Get serves both shared reads and exclusive
// writes; preventing overlapping mutation is the caller's ordinary aliasing
// discipline on *c, not the accessor's concern.
func (a Accessor[C, F]) Get(c *C) *F {
	return (*F)(unsafe.Add(unsafe.Pointer(c), a.offset))
}

// Set replaces the field value inside *c.
func (a Accessor[C, F]) Set(c *C, v F) {
	*a.Get(c) = v
}

// Update invokes fn once with a pointer to the field inside *c, letting the
// caller mutate in place without materializing a replacement value.
func (a Accessor[C, F]) Update(c *C, fn func(*F)) {
	fn(a.Get(c))
}

// SetClone overwrites the field inside *c with a copy of *v. Assignment is
// Go's cloning capability and is required only of F: neither C nor any
// intermediate container type composed through needs copy support of its own.
// Fields with reference semantics (slices, maps, pointers) share referents
// with *v after the call; pass an already-deep-copied value when that matters.
func (a Accessor[C, F]) SetClone(c *C, v *F) {
	*a.Get(c) = *v
}

// Compose combines an Accessor[C, M] with an Accessor[M, F] into an
// Accessor[C, F] targeting the inner field through the outer one. The result's
// offset is the sum of the operands' offsets: M's sub-object starts at outer's
// offset within C, and F's sub-object starts at inner's offset within M, so
// displacement is additive. O(1), no allocation, no validation; soundness is
// inherited from the operands.
//
// A free function rather than a method because Go methods cannot introduce the
// third type parameter.
func Compose[C, M, F any](outer Accessor[C, M], inner Accessor[M, F]) Accessor[C, F] {
	return Accessor[C, F]{offset: outer.offset + inner.offset}
}
