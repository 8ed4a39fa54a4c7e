package optim

import (
	"context"
	"testing"

	"github.com/san-kum/matsim/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallPlate() config.Scene {
	s, ok := config.GetPreset("heat-plate")
	if !ok {
		panic("heat-plate preset missing")
	}
	s.Heat2D.NX, s.Heat2D.NY = 12, 12
	s.Heat2D.MaxSteps = 5
	return s
}

func TestGridSearchFindsMinimum(t *testing.T) {
	g := NewGridSearch(smallPlate(), "peak_temperature",
		Axis{Param: "heat2d.t_hot", Values: []float64{900, 500, 700}},
		Axis{Param: "heat2d.max_steps", Values: []float64{2, 4}},
	)
	best, err := g.Search(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 6, best.Runs)
	assert.Zero(t, best.Failed)
	assert.Equal(t, 500.0, best.Params["heat2d.t_hot"])
	assert.LessOrEqual(t, best.Value, 500.0)
}

func TestGridSearchSkipsFailedPoints(t *testing.T) {
	// a dt above the stability limit is rejected at build time
	g := NewGridSearch(smallPlate(), "peak_temperature",
		Axis{Param: "heat2d.dt", Values: []float64{1e3, 1e-3}},
	)
	best, err := g.Search(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, best.Runs)
	assert.Equal(t, 1, best.Failed)
	assert.Equal(t, 1e-3, best.Params["heat2d.dt"])
}

func TestGridSearchRejects(t *testing.T) {
	_, err := NewGridSearch(smallPlate(), "peak_temperature", Axis{Param: "pressure", Values: []float64{1}}).
		Search(context.Background(), nil)
	assert.ErrorContains(t, err, "unknown parameter")

	_, err = NewGridSearch(smallPlate(), "peak_temperature", Axis{Param: "heat2d.t_hot"}).
		Search(context.Background(), nil)
	assert.ErrorContains(t, err, "no values")

	_, err = NewGridSearch(smallPlate(), "no_such_metric", Axis{Param: "heat2d.t_hot", Values: []float64{500}}).
		Search(context.Background(), nil)
	assert.ErrorContains(t, err, "no run reported")
}

func TestGridSearchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewGridSearch(smallPlate(), "peak_temperature", Axis{Param: "heat2d.t_hot", Values: []float64{500}}).
		Search(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
