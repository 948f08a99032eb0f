package main

import (
	"fmt"
	"strconv"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/spf13/pflag"
)

// vecFlag is a pflag.Value holding a vector written as "x,y,z".
type vecFlag struct {
	v v3.Vec
}

var _ pflag.Value = (*vecFlag)(nil)

func (f *vecFlag) String() string {
	return fmt.Sprintf("%g,%g,%g", f.v.X, f.v.Y, f.v.Z)
}

func (f *vecFlag) Set(s string) error {
	fields := strings.Split(s, ",")
	if len(fields) != 3 {
		return fmt.Errorf("want x,y,z, got %q", s)
	}
	var c [3]float64
	for i, field := range fields {
		n, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return fmt.Errorf("coordinate %d: %w", i+1, err)
		}
		c[i] = n
	}
	f.v = v3.Vec{X: c[0], Y: c[1], Z: c[2]}
	return nil
}

func (f *vecFlag) Type() string { return "vec3" }
