package mapview

import (
	"github.com/joeblew999/plat-murals/internal/geo"
	"github.com/joeblew999/plat-murals/internal/service"
)

const (
	// OverlapMeters is the distance under which two markers are treated as
	// stacked.
	OverlapMeters = 6.0
	// SpreadColumns is the width of the de-overlap grid.
	SpreadColumns = 3
	// SpreadStep is the grid spacing in degrees.
	SpreadStep = 0.00008
)

// MarkerPositions returns where each mural's marker is drawn. With spread
// off these are the stored coordinates. With spread on, every group of
// stacked markers is laid out on a grid centered horizontally on the
// group's first marker. Stored coordinates are never changed.
func MarkerPositions(murals []service.Mural, spread bool) []geo.Coordinate {
	out := make([]geo.Coordinate, len(murals))
	for i, m := range murals {
		out[i] = m.Coordinate()
	}
	if !spread {
		return out
	}

	group := make([]int, len(murals))
	for i := range group {
		group[i] = -1
	}
	for i := range murals {
		if group[i] >= 0 {
			continue
		}
		group[i] = i
		members := []int{i}
		for j := i + 1; j < len(murals); j++ {
			if group[j] >= 0 {
				continue
			}
			if geo.Distance(out[i], murals[j].Coordinate()) < OverlapMeters {
				group[j] = i
				members = append(members, j)
			}
		}
		if len(members) < 2 {
			continue
		}
		anchor := out[i]
		cols := SpreadColumns
		if len(members) < cols {
			cols = len(members)
		}
		for k, idx := range members {
			row, col := k/SpreadColumns, k%SpreadColumns
			out[idx] = geo.Coordinate{
				Lat: anchor.Lat - float64(row)*SpreadStep,
				Lng: anchor.Lng + (float64(col)-float64(cols-1)/2)*SpreadStep,
			}
		}
	}
	return out
}
