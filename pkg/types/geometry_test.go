package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBoundingBoxOrdersCorners(t *testing.T) {
	b := NewBoundingBox(Vec3{1, -2, 3}, Vec3{-1, 2, -3})
	assert.Equal(t, Vec3{-1, -2, -3}, b.Min)
	assert.Equal(t, Vec3{1, 2, 3}, b.Max)
}

func TestExpandByPoint(t *testing.T) {
	b := BoundingBox{Min: Vec3{0, 0, 0}, Max: Vec3{1, 1, 1}}

	t.Run("outside point grows the box", func(t *testing.T) {
		got := b.ExpandByPoint(Vec3{2, -1, 0.5})
		assert.Equal(t, Vec3{0, -1, 0}, got.Min)
		assert.Equal(t, Vec3{2, 1, 1}, got.Max)
	})

	t.Run("inside point leaves the box unchanged", func(t *testing.T) {
		assert.Equal(t, b, b.ExpandByPoint(Vec3{0.5, 0.5, 0.5}))
	})

	t.Run("receiver is not modified", func(t *testing.T) {
		_ = b.ExpandByPoint(Vec3{10, 10, 10})
		assert.Equal(t, Vec3{1, 1, 1}, b.Max)
	})
}

func TestCorners(t *testing.T) {
	b := BoundingBox{Min: Vec3{0, 0, 0}, Max: Vec3{1, 2, 3}}
	c := b.Corners()
	assert.Equal(t, Vec3{0, 0, 0}, c[0])
	assert.Equal(t, Vec3{1, 2, 3}, c[7])
	assert.Equal(t, Vec3{1, 0, 3}, c[5])
}

func TestAsFloat(t *testing.T) {
	tests := []struct {
		v      Value
		want   float64
		wantOK bool
	}{
		{Integer(3), 3, true},
		{Real(0.5), 0.5, true},
		{Boolean(true), 1, true},
		{String("x"), 0, false},
		{Undefined{}, 0, false},
	}
	for _, tt := range tests {
		got, ok := AsFloat(tt.v)
		assert.Equal(t, tt.wantOK, ok, "kind %s", tt.v.Kind())
		assert.Equal(t, tt.want, got, "kind %s", tt.v.Kind())
	}
}
