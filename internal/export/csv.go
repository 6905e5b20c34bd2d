package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/san-kum/slopefield/internal/dynamo"
	"github.com/san-kum/slopefield/internal/trace"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// WriteSamples writes one row per grid point. Skipped points have an empty
// slope and the evaluation error in the last column.
func WriteSamples(w io.Writer, samples []dynamo.SamplePoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"t", "y", "slope", "error"}); err != nil {
		return err
	}
	for _, p := range samples {
		row := []string{formatFloat(p.T), formatFloat(p.Y), "", ""}
		if p.OK() {
			row[2] = formatFloat(p.Slope)
		} else {
			row[3] = p.Err.Error()
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTrace writes the curve as points ordered by t: the left branch
// reversed, the seed, then the right branch.
func WriteTrace(w io.Writer, res *trace.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"branch", "step", "t", "y"}); err != nil {
		return err
	}

	left := res.Branch(dynamo.KindLeft)
	for i := len(left) - 1; i >= 0; i-- {
		if err := cw.Write(pointRow("left", i+1, left[i].B)); err != nil {
			return err
		}
	}
	if err := cw.Write(pointRow("seed", 0, res.Seed)); err != nil {
		return err
	}
	for i, seg := range res.Branch(dynamo.KindRight) {
		if err := cw.Write(pointRow("right", i+1, seg.B)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func pointRow(branch string, step int, p dynamo.Point) []string {
	return []string{branch, strconv.Itoa(step), formatFloat(p.X), formatFloat(p.Y)}
}
