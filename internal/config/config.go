// Package config loads simulation parameters from key=value files and whole
// scenes from YAML.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/matsim/internal/sim"
)

// ParseError reports a malformed line in a parameter file.
type ParseError struct {
	Path string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
}

// Load reads key=value parameters over sim.DefaultParams. An empty path
// returns the defaults. Blank lines and lines starting with '#' are skipped.
func Load(path string) (sim.Params, error) {
	if path == "" {
		return sim.DefaultParams(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return sim.Params{}, fmt.Errorf("cannot open config file: %w", err)
	}
	defer f.Close()
	return parse(path, f)
}

// Parse reads key=value parameters from r.
func Parse(r io.Reader) (sim.Params, error) {
	return parse("", r)
}

// MustLoad is Load that panics on error.
func MustLoad(path string) sim.Params {
	p, err := Load(path)
	if err != nil {
		panic(err)
	}
	return p
}

func parse(path string, r io.Reader) (sim.Params, error) {
	p := sim.DefaultParams()
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return sim.Params{}, &ParseError{path, lineNo, "missing '='"}
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" {
			return sim.Params{}, &ParseError{path, lineNo, "empty key"}
		}
		if err := set(&p, key, value); err != nil {
			return sim.Params{}, &ParseError{path, lineNo, err.Error()}
		}
	}
	if err := sc.Err(); err != nil {
		return sim.Params{}, fmt.Errorf("error reading config file: %w", err)
	}
	if err := p.Validate(); err != nil {
		return sim.Params{}, fmt.Errorf("config validation failed: %w", err)
	}
	return p, nil
}

var errUnknownKey = errors.New("unknown key")

func set(p *sim.Params, key, value string) error {
	var err error
	switch key {
	case "dt":
		p.Dt, err = parseFloat(value)
	case "dx":
		p.Dx, err = parseFloat(value)
	case "end_time":
		p.EndTime, err = parseFloat(value)
	case "max_steps":
		p.MaxSteps, err = strconv.Atoi(value)
		if err == nil && p.MaxSteps < 0 {
			err = errors.New("negative")
		}
	case "temperature":
		p.Temperature, err = parseFloat(value)
	case "cutoff":
		p.Cutoff, err = parseFloat(value)
	case "neighbor_skin":
		p.NeighborSkin, err = parseFloat(value)
	case "use_neighbor_list":
		p.UseNeighborList, err = parseBool(value)
	case "check_finite":
		p.CheckFinite, err = parseBool(value)
	case "max_particle_bytes":
		p.MaxParticleBytes, err = strconv.ParseInt(value, 10, 64)
	default:
		return fmt.Errorf("%w '%s'", errUnknownKey, key)
	}
	if err != nil {
		return fmt.Errorf("invalid %s value %q", key, value)
	}
	return nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "true", "yes":
		return true, nil
	case "0", "false", "no":
		return false, nil
	}
	return false, fmt.Errorf("invalid bool %q", s)
}

// Write emits p in the format Load reads.
func Write(w io.Writer, p sim.Params) error {
	_, err := fmt.Fprintf(w,
		"dt = %g\ndx = %g\nend_time = %g\nmax_steps = %d\ntemperature = %g\ncutoff = %g\nneighbor_skin = %g\nuse_neighbor_list = %t\ncheck_finite = %t\nmax_particle_bytes = %d\n",
		p.Dt, p.Dx, p.EndTime, p.MaxSteps, p.Temperature, p.Cutoff, p.NeighborSkin,
		p.UseNeighborList, p.CheckFinite, p.MaxParticleBytes)
	return err
}
