package math

import "math"

// Vec2 is a 2D vector. Mesh UV coordinates use X as U and Y as V.
type Vec2 struct {
	X, Y float64
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Length returns the magnitude.
func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// InUnitSquare reports whether v lies in [0,1]x[0,1].
func (v Vec2) InUnitSquare() bool {
	return v.X >= 0 && v.X <= 1 && v.Y >= 0 && v.Y <= 1
}

// Array returns the components as float32.
func (v Vec2) Array() [2]float32 {
	return [2]float32{float32(v.X), float32(v.Y)}
}
