package config

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ParseText reads the plain "key: value" format:
//
//	t min: -10
//	t max: 10
//	t div: 40
//	eq: sin(t)*sin(y)
//
// Blank lines and lines starting with # are ignored. Unknown keys, lines
// without a colon and repeated keys come back as warnings; a value that does
// not parse is an error.
func ParseText(r io.Reader) (Overrides, []Warning, error) {
	var (
		ov       Overrides
		warnings []Warning
		seen     = make(map[string]int)
	)

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		rawKey, value, ok := strings.Cut(line, ":")
		if !ok {
			warnings = append(warnings, Warning{Line: lineNo, Msg: fmt.Sprintf("malformed line %q (want key: value)", line)})
			continue
		}

		key := normalizeKey(rawKey)
		known, err := ov.set(key, value)
		if err != nil {
			return Overrides{}, warnings, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if !known {
			warnings = append(warnings, Warning{Line: lineNo, Key: strings.TrimSpace(rawKey), Msg: "unknown key"})
			continue
		}
		if prev, dup := seen[key]; dup {
			warnings = append(warnings, Warning{Line: lineNo, Key: key, Msg: fmt.Sprintf("overrides line %d", prev)})
		}
		seen[key] = lineNo
	}
	if err := sc.Err(); err != nil {
		return Overrides{}, warnings, err
	}

	return ov, warnings, nil
}

// FormatText writes s in the format ParseText reads.
func FormatText(w io.Writer, s Spec) error {
	_, err := fmt.Fprintf(w, "t min: %g\nt max: %g\nt div: %d\ny min: %g\ny max: %g\ny div: %d\ndt: %g\neq: %s\n",
		s.TMin, s.TMax, s.TDiv, s.YMin, s.YMax, s.YDiv, s.Dt, s.Equation)
	if err != nil {
		return err
	}
	if s.Bounds != "" {
		if _, err := fmt.Fprintf(w, "bounds: %s\n", s.Bounds); err != nil {
			return err
		}
	}
	if s.MaxSteps > 0 {
		if _, err := fmt.Fprintf(w, "max steps: %d\n", s.MaxSteps); err != nil {
			return err
		}
	}
	return nil
}
