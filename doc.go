package pathmod

// Package pathmod provides:
//
// - Typed, composable field accessors (Accessor[C, F]) for reading, replacing,
//   and mutating deeply nested struct fields without chained selectors
// - An offset-based runtime: every operation is O(1) pointer arithmetic over a
//   single uintptr displacement, so accessors are freely copyable and cacheable
// - Safe construction from a field selector (For/MustFor) or from a one-time
//   reflect layout query (ForName/ForIndex), plus an unsafe-by-contract
//   FromOffset primitive for generated code
// - A construction-time error model via Issue (container, field, code, message)
//
// Design policy:
// - Keep only public APIs in the root package; put the generator's scanning and
//   rendering under internal/, and the CLI under cmd/pathmodgen.
// - All unsafety is concentrated in FromOffset and the address subtraction in
//   For; every other operation is ordinary safe Go.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	accCity := pathmod.MustFor(func(u *User) *string { return &u.Profile.Address.City })
//	city := *accCity.Get(&u)
//	accCity.Set(&u, "Lund")
//	accCity.Update(&u, func(s *string) { *s = strings.ToUpper(*s) })
//
// Accessors compose: an Accessor[C, M] and an Accessor[M, F] combine into an
// Accessor[C, F] whose offset is the sum of the operands' offsets.
//
//	accLeaf := pathmod.Compose(accMid, accInner)
