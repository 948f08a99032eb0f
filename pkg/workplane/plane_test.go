package workplane

import (
	"math"
	"testing"

	"github.com/chazu/brickyard/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

const tol = 1e-9

func TestIntersectSnaps(t *testing.T) {
	tests := []struct {
		name     string
		snapping bool
		at       v3.Vec
		want     v3.Vec
	}{
		{"snapped", true, v3.Vec{X: 3, Z: 7}, v3.Vec{X: 4, Z: 8}},
		{"negative", true, v3.Vec{X: -5, Z: -1}, v3.Vec{X: -4, Z: 0}},
		{"free", false, v3.Vec{X: 3, Z: 7}, v3.Vec{X: 3, Z: 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(4, tt.snapping)
			got, ok := p.Intersect(geom.Vertical(tt.at))
			if !ok {
				t.Fatal("vertical ray missed the grid")
			}
			if !geom.Near(got, tt.want, tol) {
				t.Errorf("Intersect = %v, want %v", got, tt.want)
			}
			if p.Position() != got {
				t.Errorf("Position = %v, want %v", p.Position(), got)
			}
		})
	}
}

func TestIntersectParallelKeepsPosition(t *testing.T) {
	p := New(4, true)
	p.MoveTo(v3.Vec{X: 8})
	ray := geom.Ray{Near: v3.Vec{X: -10, Y: -5}, Far: v3.Vec{X: 10, Y: -5}}
	if _, ok := p.Intersect(ray); ok {
		t.Fatal("parallel ray reported a hit")
	}
	if p.Position() != (v3.Vec{X: 8}) {
		t.Errorf("position moved to %v", p.Position())
	}
}

func TestShiftMovesAlongNormal(t *testing.T) {
	p := New(4, true)
	p.Shift(v3.Vec{Y: 1}, 2)
	got, ok := p.Intersect(geom.Vertical(v3.Vec{X: 1, Z: 1}))
	if !ok {
		t.Fatal("missed")
	}
	if !geom.Near(got, v3.Vec{Y: 8}, tol) {
		t.Errorf("hit %v, want (0,8,0)", got)
	}
}

func TestAlignPlanes(t *testing.T) {
	tests := []struct {
		name   string
		align  func(*Plane)
		normal v3.Vec
	}{
		{"xz", (*Plane).AlignXZ, v3.Vec{Y: 1}},
		{"xy", (*Plane).AlignXY, v3.Vec{Z: 1}},
		{"yz", (*Plane).AlignYZ, v3.Vec{X: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(4, false)
			p.Shift(v3.Vec{Y: 1}, 1)
			tt.align(p)
			if !geom.Near(p.Normal(), tt.normal, tol) {
				t.Errorf("normal = %v, want %v", p.Normal(), tt.normal)
			}
			if !geom.Near(p.GridMatrix().Offset(), v3.Vec{Y: 4}, tol) {
				t.Errorf("origin moved to %v", p.GridMatrix().Offset())
			}
		})
	}
}

func TestPointerRotation(t *testing.T) {
	p := New(4, true)
	p.RotateY(math.Pi / 2)
	p.RotateY(math.Pi / 2)
	if got := p.Matrix().ApplyVector(v3.Vec{X: 1}); !geom.Near(got, v3.Vec{X: -1}, tol) {
		t.Errorf("half turn maps +X to %v", got)
	}
	if p.Matrix().Offset() != (v3.Vec{}) {
		t.Errorf("Matrix carries translation %v", p.Matrix().Offset())
	}
	p.ResetMatrix()
	if !p.Matrix().ApproxEqual(geom.Identity(), tol) {
		t.Errorf("ResetMatrix left %v", p.Matrix())
	}
}

func TestSetGridDropsScale(t *testing.T) {
	p := New(4, false)
	m := geom.Translation(v3.Vec{X: 10}).Mul(geom.Scaling(v3.Vec{X: 2, Y: 3, Z: 4}))
	p.AlignTo(m)
	if !p.GridMatrix().ApproxEqual(geom.Translation(v3.Vec{X: 10}), tol) {
		t.Errorf("grid = %v", p.GridMatrix())
	}
}

func TestQuantizeFollowsGridOrigin(t *testing.T) {
	p := New(4, true)
	p.SetGrid(geom.Translation(v3.Vec{X: 1}))
	if got := p.Quantize(v3.Vec{X: 6}); !geom.Near(got, v3.Vec{X: 5}, tol) {
		t.Errorf("Quantize = %v, want (5,0,0)", got)
	}
}
