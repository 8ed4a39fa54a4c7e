package automation

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/san-kum/matsim/internal/config"
	"github.com/san-kum/matsim/internal/experiment"
	"github.com/sirupsen/logrus"
)

// ParameterSweep runs Base once per value of Param, evenly spaced from Min
// to Max inclusive.
type ParameterSweep struct {
	Base    config.Scene
	Param   string
	Min     float64
	Max     float64
	Points  int
	Workers int
}

// SweepResult is one point of a sweep or one member of an ensemble. Err is
// set when that run failed; the others are unaffected.
type SweepResult struct {
	Value  float64
	Seed   uint64
	Result *experiment.Result
	Err    error
}

// Values returns the parameter values the sweep will visit.
func (sw *ParameterSweep) Values() []float64 {
	if sw.Points <= 1 {
		return []float64{sw.Min}
	}
	step := (sw.Max - sw.Min) / float64(sw.Points-1)
	vals := make([]float64, sw.Points)
	for i := range vals {
		vals[i] = sw.Min + float64(i)*step
	}
	vals[len(vals)-1] = sw.Max
	return vals
}

// RunSweep executes the sweep on a pool of Workers goroutines. Results are in
// sweep order regardless of completion order.
func RunSweep(ctx context.Context, sw *ParameterSweep, reg *experiment.Registry) ([]SweepResult, error) {
	if _, ok := setters[sw.Param]; !ok {
		return nil, fmt.Errorf("unknown parameter: %s", sw.Param)
	}
	vals := sw.Values()
	jobs := make([]job, len(vals))
	for i, v := range vals {
		scene := sw.Base
		if err := SetParam(&scene, sw.Param, v); err != nil {
			return nil, err
		}
		scene.Name = fmt.Sprintf("%s_%s=%g", sw.Base.Name, sw.Param, v)
		jobs[i] = job{scene: scene, value: v}
	}
	return runPool(ctx, jobs, sw.Workers, reg)
}

// RunEnsemble runs base Runs times with seeds seedStart, seedStart+1, ...
func RunEnsemble(ctx context.Context, base config.Scene, runs int, seedStart uint64, workers int, reg *experiment.Registry) ([]SweepResult, error) {
	if runs <= 0 {
		return nil, fmt.Errorf("ensemble needs at least one run, got %d", runs)
	}
	if seedStart == 0 {
		seedStart = 1
	}
	jobs := make([]job, runs)
	for i := range jobs {
		scene := base
		scene.Seed = seedStart + uint64(i)
		scene.Name = fmt.Sprintf("%s_seed%d", base.Name, scene.Seed)
		jobs[i] = job{scene: scene}
	}
	return runPool(ctx, jobs, workers, reg)
}

type job struct {
	scene config.Scene
	value float64
}

func runPool(ctx context.Context, jobs []job, workers int, reg *experiment.Registry) ([]SweepResult, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}
	if reg == nil {
		reg = experiment.NewRegistry()
	}

	results := make([]SweepResult, len(jobs))
	next := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range next {
				results[idx] = runJob(ctx, jobs[idx], reg)
			}
		}()
	}

feed:
	for i := range jobs {
		select {
		case next <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(next)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

func runJob(ctx context.Context, j job, reg *experiment.Registry) SweepResult {
	r := SweepResult{Value: j.value, Seed: j.scene.Seed}
	exp, err := experiment.New(j.scene, reg)
	if err != nil {
		r.Err = err
		logrus.Warnf("%s: setup failed: %v", j.scene.Name, err)
		return r
	}
	r.Result, r.Err = exp.Run(ctx)
	return r
}
