package synth

import (
	"testing"

	"github.com/matzehuels/archsketch/pkg/diagram"
)

func TestGridPosition(t *testing.T) {
	tests := []struct {
		index int
		want  diagram.Position
	}{
		{0, diagram.Position{X: 100, Y: 100}},
		{1, diagram.Position{X: 300, Y: 100}},
		{3, diagram.Position{X: 700, Y: 100}},
		{4, diagram.Position{X: 100, Y: 250}},
		{9, diagram.Position{X: 300, Y: 400}},
	}
	for _, tt := range tests {
		if got := GridPosition(tt.index); got != tt.want {
			t.Errorf("GridPosition(%d) = %+v, want %+v", tt.index, got, tt.want)
		}
	}
}

func TestGridPositionNoOverlap(t *testing.T) {
	seen := map[diagram.Position]int{}
	for k := 0; k < 40; k++ {
		p := GridPosition(k)
		if prev, dup := seen[p]; dup {
			t.Fatalf("GridPosition(%d) overlaps GridPosition(%d)", k, prev)
		}
		seen[p] = k
		wantX := float64((k%4)*200 + 100)
		wantY := float64((k/4)*150 + 100)
		if p.X != wantX || p.Y != wantY {
			t.Errorf("GridPosition(%d) = %+v", k, p)
		}
	}
}
