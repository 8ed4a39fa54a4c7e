package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/san-kum/matsim/internal/particle"
	"github.com/san-kum/matsim/internal/sim"
	"github.com/san-kum/matsim/internal/units"
)

// WriteXYZ appends one frame in extended XYZ format, positions in ångström.
// Frames can be concatenated into a trajectory.
func WriteXYZ(w io.Writer, sys *particle.System, element, comment string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n%s\n", sys.Len(), comment)
	for _, p := range sys.Particles() {
		fmt.Fprintf(bw, "%s %.6f %.6f %.6f\n", element,
			p.Pos.X/units.Angstrom, p.Pos.Y/units.Angstrom, p.Pos.Z/units.Angstrom)
	}
	return bw.Flush()
}

// XYZRecorder writes a frame every Every steps. It satisfies sim.Observer;
// the first write error stops recording and is kept in Err.
type XYZRecorder struct {
	W       io.Writer
	Element string
	Every   int
	Frames  int
	Err     error
}

func (x *XYZRecorder) OnStep(s *sim.Simulation) {
	if x.Err != nil || s.System() == nil {
		return
	}
	if x.Every > 1 && s.StepCount()%x.Every != 0 {
		return
	}
	x.Err = WriteXYZ(x.W, s.System(), x.Element, fmt.Sprintf("step=%d time=%g", s.StepCount(), s.Time()))
	if x.Err == nil {
		x.Frames++
	}
}
