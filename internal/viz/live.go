package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/matsim/internal/sim"
	"gonum.org/v1/gonum/floats"
)

const (
	canvasWidth     = 60
	canvasHeight    = 22
	historyCapacity = 600
	frameInterval   = time.Second / 30

	// DefaultBudget is the stepping time allowed per frame.
	DefaultBudget = 20 * time.Millisecond
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Builder creates a fresh simulation; Model calls it on start and reset.
type Builder func() (*sim.Simulation, error)

// Model steps a simulation live. It is a tea.Model.
type Model struct {
	name   string
	build  Builder
	sim    *sim.Simulation
	budget time.Duration

	running   bool
	showHelp  bool
	lastSteps int
	lastFrame time.Duration
	err       error

	canvas *Canvas
	camera *Camera

	energy []float64
	temp   []float64

	// colour scale for heat maps, fixed at build time
	lo, hi float64
}

// NewModel builds the first simulation. budget ≤ 0 means DefaultBudget.
func NewModel(name string, build Builder, budget time.Duration) (Model, error) {
	if budget <= 0 {
		budget = DefaultBudget
	}
	m := Model{
		name:    name,
		build:   build,
		budget:  budget,
		running: true,
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		camera:  NewCamera(),
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m *Model) reset() error {
	s, err := m.build()
	if err != nil {
		return err
	}
	if !s.IsValid() {
		return s.Err()
	}
	m.sim = s
	m.err = nil
	m.lastSteps = 0
	m.energy = m.energy[:0]
	m.temp = m.temp[:0]
	m.lo, m.hi = 0, 0
	if hm := s.Heat2DModel(); hm != nil {
		m.lo, m.hi = hm.TCold(), hm.THot()
		m.lo = math.Min(m.lo, floats.Min(hm.Temperature()))
		m.hi = math.Max(m.hi, floats.Max(hm.Temperature()))
	}
	if h1 := s.Heat1DModel(); h1 != nil {
		m.lo, m.hi = floats.Min(h1.Temperature()), floats.Max(h1.Temperature())
	}
	if s.Mode() == sim.MD {
		s.Initialize()
	}
	m.record()
	return nil
}

func (m Model) Simulation() *sim.Simulation { return m.sim }
func (m Model) Running() bool               { return m.running }
func (m Model) LastSteps() int              { return m.lastSteps }

// Advance steps until budget has elapsed or the run ends and returns the
// number of steps taken. A budget of zero takes a single step.
func (m *Model) Advance(budget time.Duration) int {
	start := time.Now()
	n := 0
	for m.sim.Step() {
		n++
		if budget <= 0 {
			break
		}
		// heat steps are cheap, so only look at the clock every few
		if (m.sim.Mode() == sim.MD || n%16 == 0) && time.Since(start) >= budget {
			break
		}
	}
	m.lastSteps = n
	m.lastFrame = time.Since(start)
	if !m.sim.IsValid() {
		m.err = m.sim.Err()
		m.running = false
	}
	if n > 0 {
		m.record()
	}
	return n
}

func (m *Model) record() {
	push := func(h []float64, v float64) []float64 {
		h = append(h, v)
		if len(h) > historyCapacity {
			h = h[1:]
		}
		return h
	}
	switch {
	case m.sim.Heat2DModel() != nil:
		m.temp = push(m.temp, meanOf(m.sim.Heat2DModel().Temperature()))
	case m.sim.Heat1DModel() != nil:
		m.temp = push(m.temp, meanOf(m.sim.Heat1DModel().Temperature()))
	default:
		m.energy = push(m.energy, m.sim.TotalEnergy())
		m.temp = push(m.temp, m.sim.Temperature())
	}
}

func meanOf(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return floats.Sum(v) / float64(len(v))
}

func (m Model) Init() tea.Cmd { return tick() }

// Update handles input and advances the simulation on every tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case ".":
			if !m.running {
				m.Advance(0)
			}
		case "r":
			if err := m.reset(); err != nil {
				m.err = err
			}
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		}
	case TickMsg:
		if m.running && !m.sim.Finished() {
			m.Advance(m.budget)
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return statusStyle(CurrentTheme.Error).Render("FAILED")
	case m.sim.Finished():
		return statusStyle(CurrentTheme.Success).Render("FINISHED")
	case !m.running:
		return statusStyle(CurrentTheme.Warning).Render("PAUSED")
	}
	return statusStyle(CurrentTheme.Success).Render("RUNNING")
}

// progress is the completed fraction by time when an end time is set,
// otherwise by steps.
func (m Model) progress() float64 {
	s := m.sim
	var end float64
	var maxSteps int
	switch {
	case s.Heat1DModel() != nil:
		p := s.Heat1DModel().Params()
		end, maxSteps = p.EndTime, p.MaxSteps
	case s.Heat2DModel() != nil:
		p := s.Heat2DModel().Params()
		end, maxSteps = p.EndTime, p.MaxSteps
	default:
		end, maxSteps = s.Params().EndTime, s.Params().MaxSteps
	}
	if end > 0 {
		return s.Time() / end
	}
	if maxSteps > 0 {
		return float64(s.StepCount()) / float64(maxSteps)
	}
	return 0
}

func (m Model) scene() string {
	s := m.sim
	switch {
	case s.Heat2DModel() != nil:
		hm := s.Heat2DModel()
		return RenderField(hm.Temperature(), hm.NX(), hm.NY(), m.lo, m.hi, canvasWidth, canvasHeight/2+4) +
			RenderLegend(fmt.Sprintf("%.0f K", m.lo), fmt.Sprintf("%.0f K", m.hi), 24)
	case s.Heat1DModel() != nil:
		return RenderProfile(s.Heat1DModel().Temperature(), m.lo, m.hi, canvasWidth-8, canvasHeight-4, "T (K) along the rod")
	}
	RenderParticles(m.canvas, m.camera, s.System(), s.Lattice())
	return m.canvas.String()
}

// View renders the TUI interface.
func (m Model) View() string {
	s := m.sim
	var b strings.Builder
	b.WriteString(headerStyle().Render(strings.ToUpper(m.name)+"  "+s.Mode().String()) + "\n")
	b.WriteString(m.status() + "\n\n")

	b.WriteString(statLine("Time", FormatSeconds(s.Time())))
	b.WriteString(statLine("Steps", fmt.Sprintf("%d", s.StepCount())))
	b.WriteString(statLine("Steps/frame", fmt.Sprintf("%d in %v", m.lastSteps, m.lastFrame.Round(time.Microsecond))))
	if s.Mode() == sim.MD {
		b.WriteString(statLine("Atoms", fmt.Sprintf("%d", s.System().Len())))
		b.WriteString(statLine("Kinetic", fmt.Sprintf("%.4e J", s.KineticEnergy())))
		b.WriteString(statLine("Potential", fmt.Sprintf("%.4e J", s.PotentialEnergy())))
		b.WriteString(statLine("Temperature", fmt.Sprintf("%.2f K", s.Temperature())))
	} else if len(m.temp) > 0 {
		b.WriteString(statLine("Mean T", fmt.Sprintf("%.2f K", m.temp[len(m.temp)-1])))
	}
	b.WriteString(statLine("Progress", ProgressBar(m.progress(), 20)))
	if m.err != nil {
		b.WriteString(statusStyle(CurrentTheme.Error).Render(m.err.Error()) + "\n")
	}

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Total energy"))
		b.WriteString(graphStyle.Render(chart) + "\n")
	}
	if len(m.temp) > 1 {
		chart := asciigraph.Plot(m.temp, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Temperature"))
		b.WriteString(graphStyle.Render(chart) + "\n")
	}
	b.WriteString(Separator(40) + "\n")
	b.WriteString(helpStyle.Render("SP:Pause .:Step R:Reset Q:Quit\nT:Theme X/Y:Rotate +/-:Zoom ?:Help"))

	body := lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.scene()), statsStyle.Render(b.String()))
	if m.showHelp {
		return helpOverlay + "\n" + body
	}
	return body
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  .        - Single step when paused  ║
║  R        - Rebuild from the scene   ║
║  T        - Cycle themes             ║
║  X / Y    - Rotate the particle view ║
║  + / -    - Zoom                     ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
`
