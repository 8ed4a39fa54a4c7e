// Package optim searches scene parameters for the run that minimises a
// metric.
package optim

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/san-kum/matsim/internal/automation"
	"github.com/san-kum/matsim/internal/config"
	"github.com/san-kum/matsim/internal/experiment"
	"github.com/sirupsen/logrus"
)

// Axis is one searched parameter and the values it takes.
type Axis struct {
	Param  string
	Values []float64
}

// GridSearch runs every combination of its axes over Base.
type GridSearch struct {
	Base   config.Scene
	Axes   []Axis
	// Metric is minimised; runs that fail or do not report it are skipped.
	Metric string
}

// Best is the winning combination.
type Best struct {
	Params map[string]float64
	Value  float64
	Runs   int
	Failed int
}

func NewGridSearch(base config.Scene, metric string, axes ...Axis) *GridSearch {
	return &GridSearch{Base: base, Axes: axes, Metric: metric}
}

// Search visits the grid in axis order. It stops early only when ctx is
// cancelled. An error is returned when no run produced the metric.
func (g *GridSearch) Search(ctx context.Context, reg *experiment.Registry) (*Best, error) {
	names := automation.ParamNames()
	for _, a := range g.Axes {
		if !slices.Contains(names, a.Param) {
			return nil, fmt.Errorf("unknown parameter: %s", a.Param)
		}
		if len(a.Values) == 0 {
			return nil, fmt.Errorf("parameter %s has no values", a.Param)
		}
	}

	best := &Best{Value: math.Inf(1)}
	if err := g.searchRecursive(ctx, reg, 0, g.Base, map[string]float64{}, best); err != nil {
		return nil, err
	}
	if best.Params == nil {
		return best, fmt.Errorf("no run reported metric %s", g.Metric)
	}
	return best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	reg *experiment.Registry,
	depth int,
	scene config.Scene,
	current map[string]float64,
	best *Best,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.Axes) {
		best.Runs++
		val, err := g.evaluate(ctx, reg, scene)
		if err != nil {
			best.Failed++
			logrus.WithField("params", current).Debugf("grid point failed: %v", err)
			return nil
		}
		if val < best.Value {
			best.Value = val
			best.Params = make(map[string]float64, len(current))
			for k, v := range current {
				best.Params[k] = v
			}
		}
		return nil
	}

	axis := g.Axes[depth]
	for _, v := range axis.Values {
		next := scene
		if err := automation.SetParam(&next, axis.Param, v); err != nil {
			return err
		}
		current[axis.Param] = v
		if err := g.searchRecursive(ctx, reg, depth+1, next, current, best); err != nil {
			return err
		}
	}
	delete(current, axis.Param)
	return nil
}

func (g *GridSearch) evaluate(ctx context.Context, reg *experiment.Registry, scene config.Scene) (float64, error) {
	exp, err := experiment.New(scene, reg)
	if err != nil {
		return 0, err
	}
	res, err := exp.Run(ctx)
	if err != nil {
		return 0, err
	}
	val, ok := res.Metrics[g.Metric]
	if !ok || math.IsNaN(val) {
		return 0, fmt.Errorf("metric %s not reported", g.Metric)
	}
	return val, nil
}
