package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/slopefield/internal/dynamo"
	"github.com/san-kum/slopefield/internal/screen"
)

// SVG is a render sink that records one frame as an SVG document. Present
// freezes the document; later frames replace it.
type SVG struct {
	surface    screen.Surface
	background dynamo.Color
	body       strings.Builder
	doc        string
}

func NewSVG(s screen.Surface) *SVG {
	return &SVG{surface: s, background: dynamo.White}
}

func (s *SVG) Clear() { s.body.Reset() }

func (s *SVG) Draw(segs []dynamo.Segment) {
	// one group per run of the same kind keeps ticks and branches
	// separable in editors
	open := false
	var kind dynamo.SegmentKind
	for _, seg := range segs {
		if !seg.A.IsValid() || !seg.B.IsValid() {
			continue
		}
		if !open || seg.Kind != kind {
			if open {
				s.body.WriteString("</g>\n")
			}
			kind, open = seg.Kind, true
			fmt.Fprintf(&s.body, "<g class=%q stroke-linecap=\"round\">\n", kind)
		}
		fmt.Fprintf(&s.body, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.1f"/>
`, seg.A.X, seg.A.Y, seg.B.X, seg.B.Y, seg.Stroke.Color.Hex(), seg.Stroke.Width)
	}
	if open {
		s.body.WriteString("</g>\n")
	}
}

func (s *SVG) Present() error {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, s.surface.W, s.surface.H, s.surface.W, s.surface.H, s.background.Hex()))
	sb.WriteString(s.body.String())
	sb.WriteString("</svg>\n")
	s.doc = sb.String()
	return nil
}

// String returns the last presented document.
func (s *SVG) String() string { return s.doc }

func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.doc)
	return int64(n), err
}
