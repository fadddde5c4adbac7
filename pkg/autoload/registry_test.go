package autoload_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/bazelbuild/bazel-gazelle/testtools"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadlayers/wp-autoload/pkg/autoload"
)

func TestRegistryResolveOrder(t *testing.T) {
	dir, cleanup := testtools.CreateFiles(t, []testtools.FileSpec{
		{Path: "first/class-foo.php", Content: "<?php\n"},
		{Path: "second/class-foo.php", Content: "<?php\n"},
		{Path: "second/class-bar.php", Content: "<?php\n"},
	})
	defer cleanup()

	loader := &autoload.RecordingLoader{}
	registry := autoload.NewRegistry()
	rules := autoload.Rules{}.
		Add("Acme", filepath.Join(dir, "first")).
		Add("Acme", filepath.Join(dir, "second"))
	resolvers := autoload.RegisterFromRules(registry, rules, autoload.WithLoader(loader))
	require.Len(t, resolvers, 2)
	assert.Equal(t, 2, registry.Len())

	for _, symbol := range []string{`Acme\Foo`, `Acme\Bar`} {
		got, err := registry.Resolve(symbol)
		require.NoError(t, err)
		assert.True(t, got, symbol)
	}

	want := []string{
		filepath.Join(dir, "first", "class-foo.php"),
		filepath.Join(dir, "second", "class-bar.php"),
	}
	if diff := cmp.Diff(want, loader.Loaded()); diff != "" {
		t.Errorf("loaded (-want +got):\n%s", diff)
	}

	// the first root missed Bar; the second did not
	assert.True(t, resolvers[0].Missing().Has(`Acme\Bar`))
	assert.False(t, resolvers[1].Missing().Has(`Acme\Bar`))

	got, err := registry.Resolve(`Other\Foo`)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestRegistryUnregister(t *testing.T) {
	registry := autoload.NewRegistry()
	resolvers := autoload.RegisterFromRules(registry, autoload.Rules{
		{Prefix: "Acme", Roots: []string{"/a", "/b"}},
		{Prefix: "Other", Roots: []string{"/c"}},
	})
	require.Len(t, resolvers, 3)

	resolvers[1].Unregister()
	assert.Equal(t, []autoload.Handler{resolvers[0], resolvers[2]}, registry.Handlers())
	assert.Equal(t, []autoload.Handler{resolvers[0]}, registry.Owners(`Acme\Foo`))

	// a second unregister is a no-op
	resolvers[1].Unregister()
	assert.Equal(t, 2, registry.Len())

	autoload.UnregisterAll(resolvers)
	assert.Equal(t, 0, registry.Len())
	assert.Empty(t, registry.Owners(`Acme\Foo`))
}

func TestRegistryDuplicateRegistration(t *testing.T) {
	registry := autoload.NewRegistry()
	r := autoload.NewSymbolResolver("Acme", "/lib")
	r.Register(registry)
	r.Register(registry)
	assert.Equal(t, 2, registry.Len())

	r.Unregister()
	assert.Equal(t, 0, registry.Len())
}

func TestRegistryOwners(t *testing.T) {
	registry := autoload.NewRegistry()
	resolvers := autoload.RegisterFromRules(registry, autoload.Rules{
		{Prefix: "Acme", Roots: []string{"/acme"}},
		{Prefix: `Acme\Admin`, Roots: []string{"/admin"}},
		{Prefix: "AcmeTools", Roots: []string{"/tools"}},
	})

	for name, tc := range map[string]struct {
		symbol string
		want   []autoload.Handler
	}{
		"degenerate": {},
		"root namespace": {
			symbol: `Acme\Foo`,
			want:   []autoload.Handler{resolvers[0]},
		},
		"nested namespace": {
			symbol: `Acme\Admin\Page`,
			want:   []autoload.Handler{resolvers[0], resolvers[1]},
		},
		"prefix itself is not owned": {
			symbol: `Acme\Admin`,
			want:   []autoload.Handler{resolvers[0]},
		},
		"shared stem": {
			symbol: `AcmeTools\Foo`,
			want:   []autoload.Handler{resolvers[2]},
		},
		"unknown": {
			symbol: `Vendor\Foo`,
		},
	} {
		t.Run(name, func(t *testing.T) {
			got := registry.Owners(tc.symbol)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRegistryStopsAtError(t *testing.T) {
	registry := autoload.NewRegistry()
	autoload.NewSymbolResolver("Acme", "/nonexistent", autoload.WithPolicy(autoload.Strict)).Register(registry)

	called := false
	fallback := autoload.HandlerFunc(func(string) (bool, error) {
		called = true
		return true, nil
	})
	registry.AddHandler(&fallback)

	got, err := registry.Resolve(`Acme\Foo`)
	assert.False(t, got)
	assert.True(t, errors.Is(err, autoload.ErrSymbolNotFound))
	assert.False(t, called)

	got, err = registry.Resolve(`Other\Foo`)
	require.NoError(t, err)
	assert.True(t, got)
	assert.True(t, called)
}

func TestRegistryClear(t *testing.T) {
	registry := autoload.NewRegistry()
	autoload.RegisterFromRules(registry, autoload.Rules{{Prefix: "Acme", Roots: []string{"/lib"}}})
	registry.Clear()
	assert.Equal(t, 0, registry.Len())
	assert.Empty(t, registry.Owners(`Acme\Foo`))
}

func TestBuildFromRulesDoesNotRegister(t *testing.T) {
	resolvers := autoload.BuildFromRules(autoload.Rules{
		{Prefix: "Acme", Roots: []string{"/lib", "/lib"}},
	})
	require.Len(t, resolvers, 2)
	for _, r := range resolvers {
		assert.NotPanics(t, r.Unregister)
	}
}

func TestGlobalRegistry(t *testing.T) {
	registry := autoload.GlobalRegistry()
	t.Cleanup(registry.Clear)

	r := autoload.NewSymbolResolver("Acme", "/lib")
	r.Register(registry)
	assert.Same(t, registry, autoload.GlobalRegistry())
	assert.Equal(t, 1, registry.Len())
}
