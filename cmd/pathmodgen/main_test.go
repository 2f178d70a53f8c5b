package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyFlags_ExplicitFalseOverridesConfig(t *testing.T) {
	base := config{PkgDir: "./pkg", Types: []string{"Foo"}, Out: "acc.go", Positional: true}
	flags := config{Positional: false}

	got := applyFlags(base, flags, map[string]bool{"positional": true})
	assert.False(t, got.Positional)
	assert.Equal(t, "./pkg", got.PkgDir)
	assert.Equal(t, []string{"Foo"}, got.Types)
}

func TestApplyFlags_OmittedFlagsKeepConfig(t *testing.T) {
	base := config{PkgDir: "./pkg", Types: []string{"Foo"}, Out: "acc.go", Positional: true}

	got := applyFlags(base, config{}, map[string]bool{})
	assert.Equal(t, base, got)
}

func TestApplyFlags_PresentFlagsWin(t *testing.T) {
	base := config{PkgDir: "./pkg", Types: []string{"Foo"}, Out: "acc.go"}
	flags := config{PkgDir: "./other", Types: []string{"Bar", "Baz"}, Out: "gen.go"}

	got := applyFlags(base, flags, map[string]bool{"pkgdir": true, "type": true, "o": true})
	assert.Equal(t, "./other", got.PkgDir)
	assert.Equal(t, []string{"Bar", "Baz"}, got.Types)
	assert.Equal(t, "gen.go", got.Out)
}
