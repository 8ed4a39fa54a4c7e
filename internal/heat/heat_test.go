package heat

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/matsim/internal/alloc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParams1DValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Params1D)
		want   error
	}{
		{"defaults", func(*Params1D) {}, nil},
		{"zero alpha", func(p *Params1D) { p.Alpha = 0 }, ErrInvalidParams},
		{"nan dx", func(p *Params1D) { p.Dx = math.NaN() }, ErrInvalidParams},
		{"negative dt", func(p *Params1D) { p.Dt = -1 }, ErrInvalidParams},
		{"negative end", func(p *Params1D) { p.EndTime = -1 }, ErrInvalidParams},
		{"zero steps", func(p *Params1D) { p.MaxSteps = 0 }, ErrInvalidParams},
		{"one cell", func(p *Params1D) { p.NCells = 1 }, ErrInvalidParams},
		{"unstable", func(p *Params1D) { p.Dt = 0.051 }, ErrStabilityLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams1D()
			tt.modify(&p)
			err := p.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestStabilityGate1D(t *testing.T) {
	p := DefaultParams1D()
	limit := p.StabilityLimit()
	assert.InDelta(t, 0.05, limit, 1e-15)

	p.Dt = limit * 1.0001
	assert.ErrorIs(t, p.Validate(), ErrStabilityLimit)

	p.Dt = 0.85 * limit
	p.EndTime = 0
	p.MaxSteps = 5000
	require.NoError(t, p.Validate())

	m, err := New1D(p)
	require.NoError(t, err)
	require.True(t, m.IsValid())
	for m.Step() {
	}
	assert.Equal(t, 5000, m.StepCount())
	for i, v := range m.Temperature() {
		require.False(t, math.IsNaN(v) || math.IsInf(v, 0), "cell %d", i)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 300.0)
	}
}

func TestModel1DInitialAndEnds(t *testing.T) {
	p := DefaultParams1D()
	p.NCells = 10
	m, err := New1D(p)
	require.NoError(t, err)

	field := m.Temperature()
	assert.Equal(t, 10, m.NCells())
	assert.Equal(t, 0.0, field[0])
	assert.Equal(t, 0.0, field[9])
	assert.Equal(t, 300.0, field[5])

	for range 100 {
		require.True(t, m.Step())
	}
	field = m.Temperature()
	assert.Equal(t, 0.0, field[0])
	assert.Equal(t, 0.0, field[9])
	assert.Less(t, field[1], 300.0, "heat leaks through the cold ends")
	assert.InDelta(t, field[4], field[5], 1e-9, "profile stays symmetric")
}

func TestModel1DEndTime(t *testing.T) {
	p := DefaultParams1D()
	p.Dt = 1e-4
	p.EndTime = 1e-3
	m, err := New1D(p)
	require.NoError(t, err)
	steps := 0
	for m.Step() {
		steps++
	}
	assert.True(t, m.Finished())
	assert.InDelta(t, 10, steps, 1)
	assert.GreaterOrEqual(t, m.Time(), 1e-3-1e-12)
	assert.False(t, m.Step())
}

func TestInvalidModelNeverSteps(t *testing.T) {
	p := DefaultParams1D()
	p.Dt = 1
	m, err := New1D(p)
	require.NoError(t, err)
	assert.False(t, m.IsValid())
	assert.NotEmpty(t, m.ErrorMessage())
	assert.True(t, m.Finished())
	assert.False(t, m.Step())
	assert.Equal(t, 0, m.StepCount())
}

func TestBudgetExhaustion(t *testing.T) {
	p := DefaultParams1D()
	p.MaxBytes = 8 * int64(p.NCells)
	_, err := New1D(p)
	assert.ErrorIs(t, err, alloc.ErrBudgetExceeded)

	p2 := DefaultParams2D()
	p2.MaxBytes = 1024
	_, err = New2D(p2)
	assert.ErrorIs(t, err, alloc.ErrBudgetExceeded)
}

func TestParams2DValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Params2D)
		want   error
	}{
		{"defaults", func(*Params2D) {}, nil},
		{"narrow", func(p *Params2D) { p.NX = 2 }, ErrInvalidParams},
		{"short", func(p *Params2D) { p.NY = 2 }, ErrInvalidParams},
		{"negative boundary", func(p *Params2D) { p.TBoundary = -1 }, ErrInvalidParams},
		{"hot not hotter", func(p *Params2D) { p.THot = p.TBoundary }, ErrInvalidParams},
		{"zero radius", func(p *Params2D) { p.HotRadiusFrac = 0 }, ErrInvalidParams},
		{"zero radius uniform", func(p *Params2D) { p.HotRadiusFrac = 0; p.Initial = UniformHot }, nil},
		{"unstable", func(p *Params2D) { p.Dt = p.StabilityLimit() * 1.01 }, ErrStabilityLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams2D()
			tt.modify(&p)
			err := p.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestModel2DHotCenter(t *testing.T) {
	p := DefaultParams2D()
	p.NX, p.NY = 21, 21
	m, err := New2D(p)
	require.NoError(t, err)

	assert.Equal(t, 300.0, m.At(0, 10))
	assert.Equal(t, 300.0, m.At(20, 20))
	assert.InDelta(t, 1200, m.At(10, 10), 1e-9)
	assert.InDelta(t, m.At(9, 10), m.At(11, 10), 1e-9)
	assert.Equal(t, 300.0, m.TCold())
	assert.Equal(t, 1200.0, m.THot())

	peak := m.At(10, 10)
	for range 50 {
		require.True(t, m.Step())
	}
	assert.Less(t, m.At(10, 10), peak)
	for j := range m.NY() {
		assert.Equal(t, 300.0, m.At(0, j))
		assert.Equal(t, 300.0, m.At(m.NX()-1, j))
	}
	for _, v := range m.Temperature() {
		assert.GreaterOrEqual(t, v, 300.0-1e-9)
		assert.LessOrEqual(t, v, 1200.0+1e-9)
	}
}

func TestModel2DUniformHot(t *testing.T) {
	p := DefaultParams2D()
	p.NX, p.NY = 5, 4
	p.Initial = UniformHot
	m, err := New2D(p)
	require.NoError(t, err)
	assert.Equal(t, 1200.0, m.At(2, 1))
	assert.Equal(t, 300.0, m.At(2, 0))
	assert.Equal(t, 300.0, m.At(2, 3))
	assert.Len(t, m.Temperature(), 20)
}

func TestModel2DRunsContinuously(t *testing.T) {
	p := DefaultParams2D()
	p.NX, p.NY = 8, 8
	p.MaxSteps = 30
	m, err := New2D(p)
	require.NoError(t, err)
	for m.Step() {
	}
	assert.Equal(t, 30, m.StepCount())
	assert.InDelta(t, 30*p.Dt, m.Time(), 1e-12)

	m.Reset()
	assert.Equal(t, 0, m.StepCount())
	assert.Equal(t, 0.0, m.Time())
}

func TestInitialConditionText(t *testing.T) {
	var ic InitialCondition
	require.NoError(t, ic.UnmarshalText([]byte("uniform_hot")))
	assert.Equal(t, UniformHot, ic)
	b, err := HotCenter.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "hot_center", string(b))
	assert.Error(t, ic.UnmarshalText([]byte("lukewarm")))
}
