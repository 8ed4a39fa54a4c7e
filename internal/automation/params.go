package automation

import (
	"fmt"
	"sort"

	"github.com/san-kum/matsim/internal/config"
)

// setters address scene fields by the names used in scenarios and sweeps.
var setters = map[string]func(*config.Scene, float64){
	"dt":          func(s *config.Scene, v float64) { s.MD.Params.Dt = v },
	"end_time":    func(s *config.Scene, v float64) { s.MD.Params.EndTime = v },
	"max_steps":   func(s *config.Scene, v float64) { s.MD.Params.MaxSteps = int(v) },
	"temperature": func(s *config.Scene, v float64) { s.MD.Params.Temperature = v },
	"cutoff":      func(s *config.Scene, v float64) { s.MD.Params.Cutoff = v },
	"box":         func(s *config.Scene, v float64) { s.MD.Box = v; s.MD.Lattice = nil },
	"atoms":       func(s *config.Scene, v float64) { s.MD.Atoms = int(v) },
	"mass":        func(s *config.Scene, v float64) { s.MD.Mass = v },
	"epsilon":     func(s *config.Scene, v float64) { s.MD.Potential.Epsilon = v },
	"sigma":       func(s *config.Scene, v float64) { s.MD.Potential.Sigma = v },
	"tau":         func(s *config.Scene, v float64) { s.MD.Thermostat.Tau = v },
	"nu":          func(s *config.Scene, v float64) { s.MD.Thermostat.Nu = v },

	"heat1d.alpha":    func(s *config.Scene, v float64) { s.Heat1D.Alpha = v },
	"heat1d.dt":       func(s *config.Scene, v float64) { s.Heat1D.Dt = v },
	"heat1d.end_time": func(s *config.Scene, v float64) { s.Heat1D.EndTime = v },
	"heat1d.n_cells":  func(s *config.Scene, v float64) { s.Heat1D.NCells = int(v) },

	"heat2d.alpha":      func(s *config.Scene, v float64) { s.Heat2D.Alpha = v },
	"heat2d.dt":         func(s *config.Scene, v float64) { s.Heat2D.Dt = v },
	"heat2d.max_steps":  func(s *config.Scene, v float64) { s.Heat2D.MaxSteps = int(v) },
	"heat2d.t_hot":      func(s *config.Scene, v float64) { s.Heat2D.THot = v },
	"heat2d.t_boundary": func(s *config.Scene, v float64) { s.Heat2D.TBoundary = v },
}

// SetParam assigns v to the named scene field.
func SetParam(s *config.Scene, name string, v float64) error {
	fn, ok := setters[name]
	if !ok {
		return fmt.Errorf("unknown parameter: %s", name)
	}
	fn(s, v)
	return nil
}

// ParamNames lists the names SetParam accepts.
func ParamNames() []string {
	names := make([]string, 0, len(setters))
	for name := range setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
