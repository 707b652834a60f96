package suite

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pass(*T) error { return nil }

func TestRegistryDiscover(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("demo", func(b *Builder) {
		b.Test("first", pass, Order(2)).
			Test("second", pass, Order(1), DependsOn("first")).
			Test("third", pass)
	})

	descs, err := r.Discover("demo")
	require.NoError(t, err)
	require.Len(t, descs, 3)

	// Discovery order is declaration order, not priority order
	assert.Equal(t, "first", descs[0].Name)
	assert.Equal(t, 2, descs[0].PriorityValue())
	assert.Equal(t, []string{"first"}, descs[1].Dependencies)
	assert.False(t, descs[2].HasPriority())
	assert.Equal(t, math.MaxInt, descs[2].PriorityValue())
}

func TestRegistryDiscoverFreshDescriptors(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("demo", func(b *Builder) {
		b.Test("only", pass)
	})

	a, err := r.Discover("demo")
	require.NoError(t, err)
	b, err := r.Discover("demo")
	require.NoError(t, err)
	assert.NotSame(t, a[0], b[0])
}

func TestRegistryErrors(t *testing.T) {
	r := NewRegistry()

	t.Run("unknown suite", func(t *testing.T) {
		_, err := r.Discover("missing")
		assert.ErrorIs(t, err, ErrSuiteNotFound)
	})

	t.Run("duplicate registration", func(t *testing.T) {
		require.NoError(t, r.Register("dup", func(b *Builder) {}))
		assert.Error(t, r.Register("dup", func(b *Builder) {}))
	})

	t.Run("duplicate test name", func(t *testing.T) {
		r.MustRegister("dupTest", func(b *Builder) {
			b.Test("x", pass).Test("x", pass)
		})
		_, err := r.Discover("dupTest")
		assert.ErrorIs(t, err, ErrDuplicateTest)
	})

	t.Run("nil body", func(t *testing.T) {
		r.MustRegister("nilBody", func(b *Builder) {
			b.Test("x", nil)
		})
		_, err := r.Discover("nilBody")
		assert.ErrorIs(t, err, ErrInvalidDescriptor)
	})

	t.Run("empty name", func(t *testing.T) {
		assert.Error(t, r.Register("", func(b *Builder) {}))
	})
}

func TestRegistrySuites(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("b", func(*Builder) {})
	r.MustRegister("a", func(*Builder) {})
	assert.Equal(t, []string{"a", "b"}, r.Suites())
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(nil))
	assert.ErrorIs(t, Validate([]*Descriptor{nil}), ErrInvalidDescriptor)
	assert.ErrorIs(t, Validate([]*Descriptor{{Body: pass}}), ErrInvalidDescriptor)
	// Unknown dependency names are allowed
	assert.NoError(t, Validate([]*Descriptor{{Name: "a", Body: pass, Dependencies: []string{"ghost"}}}))
}

func TestProviderFunc(t *testing.T) {
	p := ProviderFunc(func(name string) ([]*Descriptor, error) {
		if name != "x" {
			return nil, ErrSuiteNotFound
		}
		return []*Descriptor{{Name: "a", Body: pass}}, nil
	})

	descs, err := p.Discover("x")
	require.NoError(t, err)
	assert.Len(t, descs, 1)

	_, err = p.Discover("y")
	assert.True(t, errors.Is(err, ErrSuiteNotFound))
}

func TestProviders(t *testing.T) {
	first := NewRegistry()
	first.MustRegister("alpha", func(b *Builder) { b.Test("a", pass) })
	second := NewRegistry()
	second.MustRegister("beta", func(b *Builder) { b.Test("b", pass).Test("c", pass) })
	broken := ProviderFunc(func(name string) ([]*Descriptor, error) {
		if name == "gamma" {
			return nil, errors.New("cannot read gamma")
		}
		return nil, ErrSuiteNotFound
	})

	ps := Providers{nil, first, broken, second}

	descs, err := ps.Discover("beta")
	require.NoError(t, err)
	assert.Len(t, descs, 2)

	_, err = ps.Discover("gamma")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrSuiteNotFound))

	_, err = ps.Discover("delta")
	assert.ErrorIs(t, err, ErrSuiteNotFound)
}

func TestDescriptorString(t *testing.T) {
	d := &Descriptor{Name: "testC", Priority: IntPtr(3), Dependencies: []string{"testB"}}
	assert.Equal(t, "testC (priority 3) depends on testB", d.String())
}

func TestT(t *testing.T) {
	tc := NewT(context.Background(), "testA", 2, nil)
	assert.Equal(t, "testA", tc.Name())
	assert.Equal(t, 2, tc.Attempt())
	assert.NotNil(t, tc.Context())

	tc.Set("k", 42)
	v, ok := tc.Get("k")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = tc.Get("missing")
	assert.False(t, ok)
}

func TestFailf(t *testing.T) {
	err := Failf("Test %s failed", "D")
	var f *Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, "Test D failed", f.Message)
}
