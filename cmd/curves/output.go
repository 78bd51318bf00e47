package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/zephyrtronium/curves"
)

// writeText writes one line per point: x, a tab, and either y or the name of
// the condition that left the point undefined.
func writeText(w io.Writer, pts []curves.Point, verb string) error {
	bw := bufio.NewWriter(w)
	for _, p := range pts {
		fmt.Fprintf(bw, verb, p.X)
		bw.WriteByte('\t')
		if p.Defined() {
			fmt.Fprintf(bw, verb, p.Value)
		} else {
			bw.WriteString(p.Cond.String())
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

type jsonPoint struct {
	X         float64  `json:"x"`
	Y         *float64 `json:"y,omitempty"`
	Undefined string   `json:"undefined,omitempty"`
}

// writeJSON writes the points as a single JSON array.
func writeJSON(w io.Writer, pts []curves.Point) error {
	v := make([]jsonPoint, len(pts))
	for i, p := range pts {
		v[i].X = p.X
		if p.Defined() {
			y := p.Value
			v[i].Y = &y
		} else {
			v[i].Undefined = p.Cond.String()
		}
	}
	return json.NewEncoder(w).Encode(v)
}
