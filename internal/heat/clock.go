package heat

import "math"

// clock carries the bookkeeping shared by both solvers. Once err is set the
// model stays invalid.
type clock struct {
	time  float64
	steps int
	err   error
}

func (c *clock) Time() float64  { return c.time }
func (c *clock) StepCount() int { return c.steps }
func (c *clock) IsValid() bool  { return c.err == nil }
func (c *clock) Err() error     { return c.err }

func (c *clock) ErrorMessage() string {
	if c.err == nil {
		return ""
	}
	return c.err.Error()
}

// finished is true past maxSteps or, when endTime is positive, at endTime.
func (c *clock) finished(endTime float64, maxSteps int) bool {
	if c.err != nil || c.steps >= maxSteps {
		return true
	}
	return endTime > 0 && c.time >= endTime
}

func (c *clock) advance(dt float64) bool {
	c.time += dt
	c.steps++
	if math.IsNaN(c.time) || math.IsInf(c.time, 0) {
		c.err = ErrNonFiniteTime
		return false
	}
	return true
}
