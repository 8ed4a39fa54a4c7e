package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/matsim/internal/config"
	"github.com/san-kum/matsim/internal/sim"
	"github.com/san-kum/matsim/internal/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tinyScene() config.Scene {
	s := config.DefaultScene()
	s.Name = "tiny"
	s.MD.Atoms = 8
	s.MD.Box = 3 * units.Nanometre
	s.MD.Params.EndTime = 20 * units.Femtosecond
	return s
}

func TestSetParam(t *testing.T) {
	s := config.DefaultScene()
	require.NoError(t, SetParam(&s, "temperature", 77))
	require.NoError(t, SetParam(&s, "atoms", 64))
	require.NoError(t, SetParam(&s, "heat2d.t_hot", 500))
	assert.Equal(t, 77.0, s.MD.Params.Temperature)
	assert.Equal(t, 64, s.MD.Atoms)
	assert.Equal(t, 500.0, s.Heat2D.THot)

	assert.Error(t, SetParam(&s, "pressure", 1))
	assert.Contains(t, ParamNames(), "heat1d.alpha")
	assert.IsIncreasing(t, ParamNames())
}

func TestSweepValues(t *testing.T) {
	sw := &ParameterSweep{Min: 100, Max: 300, Points: 5}
	assert.Equal(t, []float64{100, 150, 200, 250, 300}, sw.Values())

	sw.Points = 1
	assert.Equal(t, []float64{100}, sw.Values())
}

func TestRunSweep(t *testing.T) {
	sw := &ParameterSweep{
		Base:    tinyScene(),
		Param:   "temperature",
		Min:     50,
		Max:     250,
		Points:  3,
		Workers: 2,
	}
	results, err := RunSweep(context.Background(), sw, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, r := range results {
		require.NoError(t, r.Err)
		require.NotNil(t, r.Result)
		assert.Equal(t, sw.Values()[i], r.Value)
		assert.Equal(t, 20, r.Result.Steps)
		assert.Equal(t, sim.MD.String(), r.Result.Mode)
	}
	assert.Equal(t, "tiny_temperature=50", results[0].Result.Scene)
}

func TestRunSweepUnknownParam(t *testing.T) {
	_, err := RunSweep(context.Background(), &ParameterSweep{Base: tinyScene(), Param: "bogus", Points: 2}, nil)
	assert.Error(t, err)
}

func TestRunSweepIsolatesFailures(t *testing.T) {
	sw := &ParameterSweep{Base: tinyScene(), Param: "atoms", Min: 0, Max: 8, Points: 2}
	results, err := RunSweep(context.Background(), sw, nil)
	require.NoError(t, err)
	assert.Error(t, results[0].Err)
	assert.Nil(t, results[0].Result)
	assert.NoError(t, results[1].Err)
}

func TestRunEnsembleSeeds(t *testing.T) {
	results, err := RunEnsemble(context.Background(), tinyScene(), 3, 10, 3, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, r := range results {
		require.NoError(t, r.Err)
		assert.Equal(t, uint64(10+i), r.Seed)
	}

	again, err := RunEnsemble(context.Background(), tinyScene(), 1, 10, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, results[0].Result.Samples, again[0].Result.Samples)

	_, err = RunEnsemble(context.Background(), tinyScene(), 0, 1, 1, nil)
	assert.Error(t, err)
}

func TestRunSweepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sw := &ParameterSweep{Base: tinyScene(), Param: "temperature", Min: 10, Max: 20, Points: 4, Workers: 1}
	_, err := RunSweep(ctx, sw, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: warmup
description: rod then plate
steps:
  - preset: heat-rod
    set:
      heat1d.end_time: 1.0e-4
  - preset: heat-plate
    save_as: plate
    set:
      heat2d.max_steps: 10
`), 0644))

	sc, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "warmup", sc.Name)
	require.Len(t, sc.Steps, 2)

	results, err := RunScenario(context.Background(), sc, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "heat1d", results[0].Mode)
	assert.Equal(t, "plate", results[1].Scene)
	assert.Equal(t, 10, results[1].Steps)
}

func TestScenarioErrors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("name: nothing\n"), 0644))
	_, err := LoadScenario(empty)
	assert.Error(t, err)

	_, err = LoadScenario(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	sc := &Scenario{Name: "bad", Steps: []ScenarioStep{{Preset: "argon-nve", Set: map[string]float64{"atoms": 8, "end_time": 5e-15}}, {Preset: "nope"}}}
	results, err := RunScenario(context.Background(), sc, nil)
	assert.Error(t, err)
	assert.Len(t, results, 1)
}
