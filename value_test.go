package cow

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var errTest = errors.New("test")

func TestSharingOnClone(t *testing.T) {
	for _, tt := range []struct {
		name string
		v    Value[[]int]
	}{
		{name: "Empty", v: New([]int(nil))},
		{name: "Filled", v: New([]int{1, 2, 3})},
	} {
		t.Run(tt.name, func(t *testing.T) {
			cloned := tt.v.Clone()
			require.True(t, tt.v.Same(cloned))
			assigned := cloned
			require.True(t, tt.v.Same(assigned))
		})
	}
}

func TestDivergenceOnSet(t *testing.T) {
	a := New([]int{1, 2, 3})
	b := a.Clone()
	require.True(t, a.Same(b))

	b.Set([]int{1, 2, 3, 4})
	require.False(t, a.Same(b))
	require.Equal(t, []int{1, 2, 3}, a.Get())
	require.Equal(t, []int{1, 2, 3, 4}, b.Get())
}

func TestDivergenceOnUpdate(t *testing.T) {
	a := New([]int{1, 2, 3})
	b := a.Clone()

	b.Update(func(v *[]int) {
		(*v)[0] = 100
		*v = append(*v, 4)
	})
	require.False(t, a.Same(b))
	require.Equal(t, []int{1, 2, 3}, a.Get())
	require.Equal(t, []int{100, 2, 3, 4}, b.Get())
}

func TestCloneAfterDivergence(t *testing.T) {
	source := New("Test string")
	cloned := source.Clone()
	changed := cloned.Clone()
	changed.Set("New value")
	changedCloned := changed.Clone()

	require.True(t, source.Same(cloned))
	require.False(t, cloned.Same(changed))
	require.True(t, changed.Same(changedCloned))
	require.False(t, source.Same(changedCloned))
	require.Equal(t, "Test string", cloned.Get())
	require.Equal(t, "New value", changed.Get())

	updated := changedCloned.Clone()
	updated.Update(func(v *string) {
		*v += "!"
	})
	require.False(t, changed.Same(updated))
	require.Equal(t, "New value", changedCloned.Get())
	require.Equal(t, "New value!", updated.Get())
}

func TestEqualIndependentOfIdentity(t *testing.T) {
	a := New([]int{1, 2, 3})
	b := New([]int{1, 2, 3})
	require.False(t, a.Same(b))
	require.True(t, a.Equal(b))

	c := a.Clone()
	c.Update(func(v *[]int) {
		*v = append(*v, 4)
	})
	d := a.Clone()
	d.Set([]int{1, 2, 3, 4})
	require.False(t, c.Same(d))
	require.True(t, c.Equal(d))
	require.False(t, a.Equal(c))
}

func TestGetDoesNotAllocate(t *testing.T) {
	a := New([]int{1, 2, 3})
	b := a.Clone()
	var sink []int
	allocs := testing.AllocsPerRun(100, func() {
		sink = a.Get()
	})
	require.Zero(t, allocs)
	require.Equal(t, []int{1, 2, 3}, sink)
	require.True(t, a.Same(b))
}

var (
	sinkValue Value[int]
	sinkInt   int
)

func TestAllocations(t *testing.T) {
	shared := New(42)
	for _, tt := range []struct {
		name   string
		f      func()
		allocs float64
	}{
		{
			name: "New",
			f: func() {
				sinkValue = New(42)
			},
			allocs: 1,
		},
		{
			name: "Clone",
			f: func() {
				sinkValue = shared.Clone()
			},
			allocs: 0,
		},
		{
			name: "Get",
			f: func() {
				sinkInt = shared.Get()
			},
			allocs: 0,
		},
		{
			name: "Set",
			f: func() {
				sinkValue.Set(43)
			},
			allocs: 1,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.allocs, testing.AllocsPerRun(100, tt.f))
		})
	}
}

func TestTryUpdateFailure(t *testing.T) {
	a := New(map[string]int{"a": 1})
	b := a.Clone()

	err := b.TryUpdate(func(v *map[string]int) error {
		(*v)["a"] = 2
		(*v)["b"] = 3

		return errTest
	})
	require.True(t, err == errTest) //nolint:errorlint
	require.True(t, a.Same(b))
	require.Equal(t, map[string]int{"a": 1}, b.Get())

	require.NoError(t, b.TryUpdate(func(v *map[string]int) error {
		(*v)["b"] = 3

		return nil
	}))
	require.False(t, a.Same(b))
	require.Equal(t, map[string]int{"a": 1}, a.Get())
	require.Equal(t, map[string]int{"a": 1, "b": 3}, b.Get())
}

func TestUpdatePanic(t *testing.T) {
	a := New([]int{1, 2, 3})
	b := a.Clone()

	require.PanicsWithValue(t, "mutator", func() {
		b.Update(func(v *[]int) {
			(*v)[0] = 100
			panic("mutator")
		})
	})
	require.True(t, a.Same(b))
	require.Equal(t, []int{1, 2, 3}, b.Get())
}

func TestZeroValue(t *testing.T) {
	var (
		a Value[[]int]
		b Value[[]int]
	)
	require.Nil(t, a.Get())
	require.True(t, a.Same(b))
	require.True(t, a.Equal(b))

	c := a
	c.Update(func(v *[]int) {
		require.Nil(t, *v)
		*v = append(*v, 1)
	})
	require.False(t, a.Same(c))
	require.Nil(t, a.Get())
	require.Equal(t, []int{1}, c.Get())

	b.Set([]int{1})
	require.False(t, b.Same(c))
	require.True(t, b.Equal(c))
}

func TestZeroSizedValues(t *testing.T) {
	a := New(struct{}{})
	b := New(struct{}{})
	require.False(t, a.Same(b))
	require.True(t, a.Equal(b))
	require.True(t, a.Same(a.Clone()))
}

func TestAlwaysDuplicate(t *testing.T) {
	var copies int
	a := New(42, WithCopier(func(v int) int {
		copies++

		return v
	}))
	b := a.Clone()
	b.Update(func(*int) {})
	require.Equal(t, 1, copies)
	require.False(t, a.Same(b))
	require.True(t, a.Equal(b))

	b.Set(43)
	require.Equal(t, 1, copies)
}

func TestOptionsFollowLineage(t *testing.T) {
	var copies int
	a := New([]int{1}, WithCopier(func(v []int) []int {
		copies++

		return append([]int(nil), v...)
	}))
	b := a.Clone()
	b.Set([]int{2})
	c := b.Clone()
	c.Update(func(v *[]int) {
		(*v)[0] = 3
	})
	require.Equal(t, 1, copies)
	require.Equal(t, []int{2}, b.Get())
	require.Equal(t, []int{3}, c.Get())
}

func TestWithShallowCopy(t *testing.T) {
	type point struct{ X, Y int }
	a := New(point{X: 1, Y: 2}, WithShallowCopy[point]())
	b := a.Clone()
	b.Update(func(p *point) {
		p.X = 10
	})
	require.Equal(t, point{X: 1, Y: 2}, a.Get())
	require.Equal(t, point{X: 10, Y: 2}, b.Get())
}

func TestWithEqual(t *testing.T) {
	sameLength := WithEqual(func(a, b string) bool {
		return len(a) == len(b)
	})
	a := New("abc", sameLength)
	b := New("xyz")
	require.True(t, a.Equal(b))
	require.False(t, b.Equal(a))
}

func TestString(t *testing.T) {
	require.Equal(t, "[1 2 3]", New([]int{1, 2, 3}).String())
	var zero Value[int]
	require.Equal(t, "0", zero.String())
}

type counted struct {
	items  []string
	clones *int
}

func (c counted) Clone() counted {
	*c.clones++

	return counted{
		items:  append([]string(nil), c.items...),
		clones: c.clones,
	}
}

type version struct {
	major, minor int
}

func (v *version) Clone() version {
	return version{major: v.major, minor: 0}
}

func (v version) Equal(other version) bool {
	return v.major == other.major
}

func TestCloner(t *testing.T) {
	t.Run("ValueReceiver", func(t *testing.T) {
		var clones int
		a := New(counted{items: []string{"a"}, clones: &clones})
		b := a.Clone()
		b.Update(func(c *counted) {
			c.items[0] = "b"
		})
		require.Equal(t, 1, clones)
		require.Equal(t, []string{"a"}, a.Get().items)
		require.Equal(t, []string{"b"}, b.Get().items)
	})
	t.Run("PointerReceiver", func(t *testing.T) {
		a := New(version{major: 1, minor: 2})
		b := a.Clone()
		b.Update(func(v *version) {
			v.major = 2
		})
		require.Equal(t, version{major: 2, minor: 0}, b.Get())
		require.Equal(t, version{major: 1, minor: 2}, a.Get())
	})
}

func TestEqualer(t *testing.T) {
	a := New(version{major: 1, minor: 2})
	b := New(version{major: 1, minor: 3})
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(New(version{major: 2})))
}

type tolerance struct {
	v float64
}

func (t *tolerance) Equal(other tolerance) bool {
	return math.Abs(t.v-other.v) < 0.01
}

func TestPointerEqualer(t *testing.T) {
	require.True(t, New(tolerance{v: 1}).Equal(New(tolerance{v: 1.001})))
	require.False(t, New(tolerance{v: 1}).Equal(New(tolerance{v: 1.1})))
}

func TestProtoMessage(t *testing.T) {
	a := New(wrapperspb.String("source"))
	b := a.Clone()
	b.Update(func(m **wrapperspb.StringValue) {
		(*m).Value = "changed"
	})
	require.False(t, a.Same(b))
	require.Equal(t, "source", a.Get().GetValue())
	require.Equal(t, "changed", b.Get().GetValue())

	require.True(t, New(wrapperspb.String("x")).Equal(New(wrapperspb.String("x"))))
	require.False(t, New(wrapperspb.String("x")).Equal(New(wrapperspb.String("y"))))

	type labeled struct {
		Label *wrapperspb.StringValue
		Count int
	}
	require.True(t, New(labeled{Label: wrapperspb.String("x"), Count: 1}).
		Equal(New(labeled{Label: wrapperspb.String("x"), Count: 1})))
	require.False(t, New(labeled{Label: wrapperspb.String("x"), Count: 1}).
		Equal(New(labeled{Label: wrapperspb.String("y"), Count: 1})))
}

type settings struct {
	Name   string
	Tags   []string
	Limits map[string]int
	secret *int
}

func TestDeepCopy(t *testing.T) {
	secret := 1
	a := New(settings{
		Name:   "a",
		Tags:   []string{"x", "y"},
		Limits: map[string]int{"rps": 10},
		secret: &secret,
	})
	b := a.Clone()
	b.Update(func(s *settings) {
		s.Name = "b"
		s.Tags[0] = "z"
		s.Limits["rps"] = 20
		*s.secret = 2
	})

	require.Equal(t, "a", a.Get().Name)
	require.Equal(t, []string{"x", "y"}, a.Get().Tags)
	require.Equal(t, map[string]int{"rps": 10}, a.Get().Limits)
	require.Equal(t, 1, *a.Get().secret)

	require.Equal(t, "b", b.Get().Name)
	require.Equal(t, []string{"z", "y"}, b.Get().Tags)
	require.Equal(t, map[string]int{"rps": 20}, b.Get().Limits)
	require.Equal(t, 2, *b.Get().secret)
}

type tree struct {
	Leaf  Value[[]int]
	Depth int
}

func TestNestedValuesStayShared(t *testing.T) {
	a := New(tree{Leaf: New([]int{1, 2})})
	b := a.Clone()
	b.Update(func(n *tree) {
		n.Depth = 1
	})
	require.False(t, a.Same(b))
	require.True(t, a.Get().Leaf.Same(b.Get().Leaf))

	b.Update(func(n *tree) {
		n.Leaf.Set([]int{3})
	})
	require.False(t, a.Get().Leaf.Same(b.Get().Leaf))
	require.Equal(t, []int{1, 2}, a.Get().Leaf.Get())
	require.Equal(t, []int{3}, b.Get().Leaf.Get())
}

func TestNestedValuesEqual(t *testing.T) {
	a := New(tree{Leaf: New([]int{1, 2}), Depth: 1})
	b := New(tree{Leaf: New([]int{1, 2}), Depth: 1})
	require.False(t, a.Get().Leaf.Same(b.Get().Leaf))
	require.True(t, a.Get().Leaf.Equal(b.Get().Leaf))
	require.True(t, a.Equal(b))

	c := New(tree{Leaf: New([]int{1, 3}), Depth: 1})
	require.False(t, a.Equal(c))

	var x, y Value[tree]
	x.Update(func(n *tree) {
		n.Leaf.Set([]int{1})
	})
	y.Update(func(n *tree) {
		n.Leaf.Set([]int{1})
	})
	require.True(t, x.Equal(y))
	require.True(t, New(tree{}).Equal(New(tree{})))
}
