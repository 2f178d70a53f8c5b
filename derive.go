package pathmod

import (
	"fmt"
	"reflect"
)

// For derives an accessor from a field selector without ever reading the
// contents of a real C value. A zero C is materialized (zero values are
// defined memory in Go, so no uninitialized read can occur), the selector is
// applied purely for address computation, and the container's base address is
// subtracted from the field's address. Example:
//
//	acc, err := pathmod.For(func(u *User) *string { return &u.Profile.Address.City })
//
// The selector must return the address of storage inside its argument — a
// direct field or a field reached through nested (non-pointer) structs. It
// must not follow pointers, read memory, or return the address of anything
// else; selectors violating this are rejected when the resulting address
// falls outside the container, but a selector that happens to land in-bounds
// while addressing the wrong thing is the caller's bug.
func For[C, F any](sel func(*C) *F) (Accessor[C, F], error) {
	rt, err := containerType[C]()
	if err != nil {
		return Accessor[C, F]{}, err
	}
	if sel == nil {
		return Accessor[C, F]{}, Issue{Container: rt.String(), Code: CodeNilSelector, Message: "selector must not be nil"}
	}

	var zero C
	base := reflect.ValueOf(&zero).Pointer()
	fp := reflect.ValueOf(sel(&zero)).Pointer()
	if fp < base {
		return Accessor[C, F]{}, Issue{Container: rt.String(), Code: CodeNotAField, Message: "selector must address a field inside the container"}
	}
	off := fp - base

	ft := reflect.TypeOf((*F)(nil)).Elem()
	if off+ft.Size() > rt.Size() {
		return Accessor[C, F]{}, Issue{Container: rt.String(), Code: CodeNotAField, Message: "selector must address a field inside the container"}
	}
	if align := uintptr(ft.Align()); align > 1 && off%align != 0 {
		return Accessor[C, F]{}, Issue{Container: rt.String(), Code: CodeMisaligned, Message: fmt.Sprintf("offset %d is not aligned for %s", off, ft)}
	}
	return Accessor[C, F]{offset: off}, nil
}

// MustFor is For for package-level initialization; it panics on rejection.
//
//	var accCity = pathmod.MustFor(func(u *User) *string { return &u.Profile.Address.City })
func MustFor[C, F any](sel func(*C) *F) Accessor[C, F] {
	a, err := For(sel)
	if err != nil {
		panic(err)
	}
	return a
}

// ForName builds an accessor for the top-level field with the given declared
// name, using a one-time reflect layout query. The field's declared type must
// be exactly F.
func ForName[C, F any](name string) (Accessor[C, F], error) {
	rt, err := containerType[C]()
	if err != nil {
		return Accessor[C, F]{}, err
	}
	for i := 0; i < rt.NumField(); i++ {
		if sf := rt.Field(i); sf.Name == name {
			return fieldAccessor[C, F](rt, sf)
		}
	}
	return Accessor[C, F]{}, Issue{Container: rt.String(), Field: name, Code: CodeUnknownField, Message: "no field with this name"}
}

// ForIndex builds an accessor for the field at the given declaration index.
// This is the positional counterpart of ForName.
func ForIndex[C, F any](i int) (Accessor[C, F], error) {
	rt, err := containerType[C]()
	if err != nil {
		return Accessor[C, F]{}, err
	}
	if i < 0 || i >= rt.NumField() {
		return Accessor[C, F]{}, Issue{Container: rt.String(), Field: fmt.Sprintf("%d", i), Code: CodeIndexRange, Message: fmt.Sprintf("index out of range [0, %d)", rt.NumField())}
	}
	return fieldAccessor[C, F](rt, rt.Field(i))
}

// containerType validates that C is a plain struct with at least one field.
// Interface kinds are Go's variant analog and carry no fixed per-field layout;
// every other non-struct kind has no fields to target.
func containerType[C any]() (reflect.Type, error) {
	rt := reflect.TypeOf((*C)(nil)).Elem()
	switch rt.Kind() {
	case reflect.Struct:
	case reflect.Interface:
		return nil, Issue{Container: rt.String(), Code: CodeVariantType, Message: "interface (variant) containers have no fixed field layout"}
	default:
		return nil, Issue{Container: rt.String(), Code: CodeNotStruct, Message: fmt.Sprintf("container must be a struct, got %s", rt.Kind())}
	}
	if rt.NumField() == 0 {
		return nil, Issue{Container: rt.String(), Code: CodeNoFields, Message: "container struct declares no fields"}
	}
	return rt, nil
}

func fieldAccessor[C, F any](rt reflect.Type, sf reflect.StructField) (Accessor[C, F], error) {
	if ft := reflect.TypeOf((*F)(nil)).Elem(); sf.Type != ft {
		return Accessor[C, F]{}, Issue{
			Container: rt.String(),
			Field:     sf.Name,
			Code:      CodeTypeMismatch,
			Message:   fmt.Sprintf("field is declared %s, requested %s", sf.Type, ft),
		}
	}
	return Accessor[C, F]{offset: sf.Offset}, nil
}
