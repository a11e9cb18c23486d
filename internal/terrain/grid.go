package terrain

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	apperrors "planetgen/internal/shared/errors"
)

// Grid is an equirectangular sampling of a generator. Row 0 is the north
// edge and column 0 is longitude -180.
type Grid struct {
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	Altitudes [][]float64 `json:"altitudes"`
	Shades    [][]uint8   `json:"shades,omitempty"`
	Min       float64     `json:"min"`
	Max       float64     `json:"max"`
}

// SampleGrid samples width x height cell centres. Rows are spread over
// workers; each worker owns its own Generator.
func SampleGrid(ctx context.Context, params Params, width, height, workers int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, apperrors.Validationf("grid size must be positive, got %dx%d", width, height)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, height)

	grid := &Grid{
		Width:     width,
		Height:    height,
		Altitudes: make([][]float64, height),
	}
	if params.Shade {
		grid.Shades = make([][]uint8, height)
	}

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			gen, err := New(params)
			if err != nil {
				return err
			}
			for row := w; row < height; row += workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				r := gen.sampleRow(row, width, height)
				grid.Altitudes[row] = r.Altitudes
				if grid.Shades != nil {
					grid.Shades[row] = r.Shades
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	grid.Min, grid.Max = grid.Altitudes[0][0], grid.Altitudes[0][0]
	for _, row := range grid.Altitudes {
		for _, v := range row {
			grid.Min = min(grid.Min, v)
			grid.Max = max(grid.Max, v)
		}
	}
	return grid, nil
}

// Row is one sampled latitude band of a grid.
type Row struct {
	Index     int       `json:"row"`
	Altitudes []float64 `json:"altitudes"`
	Shades    []uint8   `json:"shades,omitempty"`
}

// SampleRows samples the same cells as SampleGrid on a single generator,
// handing each row to emit as soon as it is done. An emit error stops sampling.
func SampleRows(ctx context.Context, params Params, width, height int, emit func(Row) error) error {
	if width <= 0 || height <= 0 {
		return apperrors.Validationf("grid size must be positive, got %dx%d", width, height)
	}
	gen, err := New(params)
	if err != nil {
		return err
	}

	for row := range height {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(gen.sampleRow(row, width, height)); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) sampleRow(row, width, height int) Row {
	lat := 90 - (float64(row)+0.5)*180/float64(height)
	out := Row{Index: row, Altitudes: make([]float64, width)}
	if g.params.Shade {
		out.Shades = make([]uint8, width)
	}

	for col := range out.Altitudes {
		lon := -180 + (float64(col)+0.5)*360/float64(width)
		out.Altitudes[col] = g.AltitudeAtLatLon(lat, lon)
		if out.Shades != nil {
			out.Shades[col] = g.Shade()
		}
	}
	return out
}
