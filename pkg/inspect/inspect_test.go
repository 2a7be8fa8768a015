package inspect

import (
	"errors"
	"testing"

	"github.com/chazu/thickview/pkg/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupNoHit(t *testing.T) {
	x := New(field.New([]float64{1, 2, 3}))
	res, ok, err := x.Lookup(NoHit)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, Result{}, res)
}

func TestLookupFaceZeroIsAHit(t *testing.T) {
	x := New(field.New([]float64{0.75, 2}))
	res, ok, err := x.Lookup(0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0, res.Face)
	assert.Equal(t, 0.75, res.Value)
	assert.Equal(t, 0.0, res.Position)
}

func TestLookupExactValues(t *testing.T) {
	values := []float64{1, 10, 100, 3.25}
	f := field.New(values)
	x := New(f)
	for i, want := range values {
		res, ok, err := x.Lookup(i)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, want, res.Value)
		assert.Equal(t, f.Position(want), res.Position)
		assert.Equal(t, DefaultUnit, res.Unit)
	}
}

func TestLookupOutOfRange(t *testing.T) {
	x := New(field.New([]float64{1, 2}))
	for _, face := range []int{-2, -100, 2, 50} {
		_, ok, err := x.Lookup(face)
		assert.False(t, ok)
		require.Error(t, err, "Lookup(%d)", face)
		assert.True(t, errors.Is(err, field.ErrIndexOutOfRange))
	}
}

func TestLookupNilField(t *testing.T) {
	x := New(nil)
	_, ok, err := x.Lookup(NoHit)
	assert.NoError(t, err)
	assert.False(t, ok)

	_, _, err = x.Lookup(0)
	assert.ErrorIs(t, err, field.ErrIndexOutOfRange)
}

func TestResultString(t *testing.T) {
	x := New(field.New([]float64{1, 3})).WithUnit("in")
	res, ok, err := x.Lookup(1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "face 1: 3 in (u=1.000)", res.String())
}
