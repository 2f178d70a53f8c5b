package pathmod_test

import (
	"strings"
	"sync"
	"testing"
	"unsafe"

	pathmod "github.com/dahankzter/pathmod"
)

type bar struct {
	X int32
}

type foo struct {
	A int32
	B bar
}

type address struct {
	Street string
	City   string
}

type profile struct {
	Nick    string
	Address address
}

type user struct {
	ID      int64
	Profile profile
}

func accFooA(t *testing.T) pathmod.Accessor[foo, int32] {
	t.Helper()
	a, err := pathmod.For(func(f *foo) *int32 { return &f.A })
	if err != nil {
		t.Fatalf("derive foo.A: %v", err)
	}
	return a
}

func accFooB(t *testing.T) pathmod.Accessor[foo, bar] {
	t.Helper()
	a, err := pathmod.For(func(f *foo) *bar { return &f.B })
	if err != nil {
		t.Fatalf("derive foo.B: %v", err)
	}
	return a
}

func accBarX(t *testing.T) pathmod.Accessor[bar, int32] {
	t.Helper()
	a, err := pathmod.For(func(b *bar) *int32 { return &b.X })
	if err != nil {
		t.Fatalf("derive bar.X: %v", err)
	}
	return a
}

func TestGet_AddressAndValue(t *testing.T) {
	acc := accFooB(t)
	f := foo{A: 1, B: bar{X: 2}}

	got := acc.Get(&f)
	wantAddr := uintptr(unsafe.Pointer(&f)) + acc.Offset()
	if uintptr(unsafe.Pointer(got)) != wantAddr {
		t.Fatalf("Get address = %#x, want base+offset = %#x", uintptr(unsafe.Pointer(got)), wantAddr)
	}
	if got.X != 2 {
		t.Fatalf("Get value = %+v, want X=2", *got)
	}
}

func TestSet_RoundTrip(t *testing.T) {
	acc := accFooA(t)
	f := foo{A: 1}

	acc.Set(&f, 10)
	if got := *acc.Get(&f); got != 10 {
		t.Fatalf("after Set: got %d, want 10", got)
	}
	if f.A != 10 {
		t.Fatalf("Set did not write through: f.A = %d", f.A)
	}
	if f.B.X != 0 {
		t.Fatalf("Set touched sibling field: f.B.X = %d", f.B.X)
	}
}

func TestUpdate_AppliesInPlace(t *testing.T) {
	acc := accFooA(t)
	f := foo{A: 3}

	acc.Update(&f, func(v *int32) { *v *= 7 })
	if f.A != 21 {
		t.Fatalf("after Update: f.A = %d, want 21", f.A)
	}
}

func TestCompose_OffsetLawAndAssociativity(t *testing.T) {
	accProfile, err := pathmod.For(func(u *user) *profile { return &u.Profile })
	if err != nil {
		t.Fatalf("derive user.Profile: %v", err)
	}
	accAddress, err := pathmod.For(func(p *profile) *address { return &p.Address })
	if err != nil {
		t.Fatalf("derive profile.Address: %v", err)
	}
	accCity, err := pathmod.For(func(a *address) *string { return &a.City })
	if err != nil {
		t.Fatalf("derive address.City: %v", err)
	}

	pa := pathmod.Compose(accProfile, accAddress)
	if pa.Offset() != accProfile.Offset()+accAddress.Offset() {
		t.Fatalf("compose offset = %d, want %d", pa.Offset(), accProfile.Offset()+accAddress.Offset())
	}

	left := pathmod.Compose(pathmod.Compose(accProfile, accAddress), accCity)
	right := pathmod.Compose(accProfile, pathmod.Compose(accAddress, accCity))
	if left.Offset() != right.Offset() {
		t.Fatalf("associativity: offsets differ, %d vs %d", left.Offset(), right.Offset())
	}

	u := user{Profile: profile{Address: address{City: "berlin"}}}
	if got := *left.Get(&u); got != "berlin" {
		t.Fatalf("left-composed Get = %q, want %q", got, "berlin")
	}
	if got := *right.Get(&u); got != "berlin" {
		t.Fatalf("right-composed Get = %q, want %q", got, "berlin")
	}
}

func TestCompose_NestedUpdate(t *testing.T) {
	acc := pathmod.Compose(accFooB(t), accBarX(t))

	f := foo{A: 1, B: bar{X: 2}}
	acc.Update(&f, func(v *int32) { *v += 5 })
	if f.B.X != 7 {
		t.Fatalf("after composed Update: f.B.X = %d, want 7", f.B.X)
	}
}

func TestSetClone_DeepLeafWithoutAncestorCopies(t *testing.T) {
	accProfile := pathmod.MustFor(func(u *user) *profile { return &u.Profile })
	accAddress := pathmod.MustFor(func(p *profile) *address { return &p.Address })
	accCity := pathmod.MustFor(func(a *address) *string { return &a.City })
	acc := pathmod.Compose(pathmod.Compose(accProfile, accAddress), accCity)

	u := user{ID: 7, Profile: profile{Nick: "kz", Address: address{Street: "Storgatan", City: "berlin"}}}
	before := &u

	city := "Lund"
	acc.SetClone(&u, &city)

	if u.Profile.Address.City != "Lund" {
		t.Fatalf("after SetClone: city = %q, want %q", u.Profile.Address.City, "Lund")
	}
	// Only the leaf is written; the container is updated in place, never copied.
	if before != &u || u.ID != 7 || u.Profile.Nick != "kz" || u.Profile.Address.Street != "Storgatan" {
		t.Fatalf("SetClone disturbed ancestor state: %+v", u)
	}
}

// lockGuarded carries a mutex, the canonical marker of a type that must not be
// copied. SetClone on a leaf below it only ever writes the leaf.
type lockGuarded struct {
	mu    sync.Mutex
	inner bar
}

func TestSetClone_ContainerNeverCopied(t *testing.T) {
	accInner := pathmod.MustFor(func(g *lockGuarded) *bar { return &g.inner })
	acc := pathmod.Compose(accInner, pathmod.MustFor(func(b *bar) *int32 { return &b.X }))

	g := lockGuarded{inner: bar{X: 1}}
	g.mu.Lock()
	v := int32(42)
	acc.SetClone(&g, &v)
	g.mu.Unlock()

	if g.inner.X != 42 {
		t.Fatalf("after SetClone: inner.X = %d, want 42", g.inner.X)
	}
}

func TestUpdate_InPlaceStringMutation(t *testing.T) {
	accCity := pathmod.MustFor(func(a *address) *string { return &a.City })
	ad := address{City: "lund"}

	accCity.Update(&ad, func(s *string) { *s = strings.ToUpper(*s) })
	if ad.City != "LUND" {
		t.Fatalf("after Update: city = %q, want %q", ad.City, "LUND")
	}
}

// pair mirrors a positional (index-addressed) aggregate: fields are reached by
// declaration index rather than by name.
type pair struct {
	F0 int32
	F1 int64
}

func TestPositional_SetAndUpdate(t *testing.T) {
	acc0, err := pathmod.ForIndex[pair, int32](0)
	if err != nil {
		t.Fatalf("derive pair[0]: %v", err)
	}
	acc1, err := pathmod.ForIndex[pair, int64](1)
	if err != nil {
		t.Fatalf("derive pair[1]: %v", err)
	}

	p := pair{F0: 1, F1: 2}
	acc0.Set(&p, 10)
	acc1.Update(&p, func(v *int64) { *v += 5 })

	if p.F0 != 10 || p.F1 != 7 {
		t.Fatalf("got (%d, %d), want (10, 7)", p.F0, p.F1)
	}
}

func TestFromOffset_AgreesWithLayoutQuery(t *testing.T) {
	acc := pathmod.FromOffset[foo, bar](unsafe.Offsetof(foo{}.B))
	if acc.Offset() != accFooB(t).Offset() {
		t.Fatalf("FromOffset(%d) != For-derived offset %d", acc.Offset(), accFooB(t).Offset())
	}

	f := foo{B: bar{X: 9}}
	if got := acc.Get(&f).X; got != 9 {
		t.Fatalf("FromOffset Get = %d, want 9", got)
	}
}

func TestAccessor_CopiesAreInterchangeable(t *testing.T) {
	acc := accFooA(t)
	cp := acc

	f := foo{A: 5}
	cp.Set(&f, 6)
	if got := *acc.Get(&f); got != 6 {
		t.Fatalf("copied accessor diverged: got %d, want 6", got)
	}
	if acc != cp {
		t.Fatalf("equal accessors compare unequal")
	}
}
