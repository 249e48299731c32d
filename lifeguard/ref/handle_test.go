//go:build unit

package ref

import (
	"io"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type referent struct {
	ID int
}

func TestWeak(t *testing.T) {
	t.Parallel()

	target := &referent{ID: 7}
	w := NewWeak(target)

	require.Equal(t, KindWeak, w.RefKind())
	require.True(t, w.IsValid())
	require.Same(t, target, w.Get())
	runtime.KeepAlive(target)

	var unset Weak[referent]
	require.False(t, unset.IsValid())
	require.Nil(t, unset.Get())

	nilTarget := NewWeak[referent](nil)
	require.False(t, nilTarget.IsValid())
}

func TestSoft(t *testing.T) {
	t.Parallel()

	s := NewSoft[referent]("/world/spawn/lifeguard_tower")
	require.Equal(t, KindSoft, s.RefKind())
	require.True(t, s.IsValid())
	require.False(t, s.IsNull())
	require.Nil(t, s.Get())

	target := &referent{ID: 3}
	s.Bind(target)
	require.Same(t, target, s.Get())

	var null Soft[referent]
	require.True(t, null.IsNull())
	require.False(t, null.IsValid())
}

func TestSoftClass(t *testing.T) {
	t.Parallel()

	sc := NewSoftClass("/world/classes/tower")
	require.Equal(t, KindSoftClass, sc.RefKind())
	require.True(t, sc.IsValid())

	var null SoftClass
	require.True(t, null.IsNull())
	require.False(t, null.IsValid())
}

func TestClass(t *testing.T) {
	t.Parallel()

	c := ClassOf[io.Reader, strings.Reader]()
	require.Equal(t, KindClass, c.RefKind())
	require.True(t, c.IsValid())
	require.Equal(t, reflect.TypeFor[strings.Reader](), c.Type())

	var unset Class[io.Reader]
	require.False(t, unset.IsValid())
	require.Nil(t, unset.Type())

	fromType := NewClass[io.Reader](reflect.TypeFor[strings.Reader]())
	require.True(t, fromType.IsValid())
}

func TestOptional(t *testing.T) {
	t.Parallel()

	set := Some(42)
	require.True(t, set.IsSet())

	v, ok := set.Get()
	require.True(t, ok)
	require.Equal(t, 42, v)
	require.Equal(t, 42, set.OrElse(0))

	unset := None[int]()
	require.False(t, unset.IsSet())

	_, ok = unset.Get()
	require.False(t, ok)
	require.Equal(t, 9, unset.OrElse(9))

	require.Equal(t, reflect.TypeFor[int](), unset.ElemType())
	require.Equal(t, 42, set.AnyValue())
}

func TestName(t *testing.T) {
	t.Parallel()

	require.Equal(t, Name(""), NameNone)
	require.NotEqual(t, NameNone, Name("lifeguard"))
}
