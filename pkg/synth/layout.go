package synth

import "github.com/matzehuels/archsketch/pkg/diagram"

// Grid geometry for newly created nodes.
const (
	GridColumns = 4
	ColumnWidth = 200
	RowHeight   = 150
	GridOriginX = 100
	GridOriginY = 100
)

// GridPosition returns the position of the index-th new node of a batch.
func GridPosition(index int) diagram.Position {
	return diagram.Position{
		X: float64((index%GridColumns)*ColumnWidth + GridOriginX),
		Y: float64((index/GridColumns)*RowHeight + GridOriginY),
	}
}
