package main

import (
	"fmt"
	"io"

	"github.com/chazu/brickyard/pkg/connect"
	"github.com/chazu/brickyard/pkg/model"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// writeYAML writes v to w as a YAML document.
func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return enc.Close()
}

// ---------------------------------------------------------------------------
// run
// ---------------------------------------------------------------------------

type partReport struct {
	ID    int        `yaml:"id"`
	Key   string     `yaml:"key"`
	Color int        `yaml:"color"`
	At    [3]float64 `yaml:"at,flow"`
}

type stepReport struct {
	Step  int          `yaml:"step"`
	Parts []partReport `yaml:"parts"`
}

type runReport struct {
	Model     string       `yaml:"model"`
	Placed    int          `yaml:"placed"`
	Parts     int          `yaml:"parts"`
	Steps     int          `yaml:"steps"`
	UndoDepth int          `yaml:"undo_depth"`
	Unsaved   []string     `yaml:"unsaved,omitempty"`
	ByStep    []stepReport `yaml:"by_step"`
}

func newRunCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run <script>",
		Short: "Apply a script to an empty model and print the result",
		Long: `Apply a script to an empty model and print the parts by build step.

The placement is one undoable edit; a trailing (autostep n) adds a second.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.load(args[0])
			if err != nil {
				return err
			}
			return writeYAML(cmd.OutOrStdout(), s.report())
		},
	}
}

func (s *session) report() runReport {
	e := s.editor
	r := runReport{
		Model:     e.ModelName(),
		Placed:    s.placed,
		Parts:     len(e.Parts()),
		Steps:     e.NumSteps(),
		UndoDepth: e.History().Depth(),
		Unsaved:   e.UnsavedParts(),
	}
	for step := 1; step <= r.Steps; step++ {
		sr := stepReport{Step: step}
		for _, p := range e.PartsInStep(step) {
			sr.Parts = append(sr.Parts, reportPart(p))
		}
		r.ByStep = append(r.ByStep, sr)
	}
	return r
}

func reportPart(p model.Part) partReport {
	at := p.Offset()
	return partReport{ID: p.ID, Key: p.Key, Color: p.Color, At: [3]float64{at.X, at.Y, at.Z}}
}

// ---------------------------------------------------------------------------
// parts
// ---------------------------------------------------------------------------

type entryReport struct {
	Key         string `yaml:"key"`
	Kind        string `yaml:"kind"`
	Description string `yaml:"description,omitempty"`
	Primitives  int    `yaml:"primitives,omitempty"`
	Connectors  int    `yaml:"connectors,omitempty"`
	Refs        int    `yaml:"refs,omitempty"`
}

type flexReport struct {
	Key  string `yaml:"key"`
	Head string `yaml:"head"`
	Mid  string `yaml:"mid"`
	Tail string `yaml:"tail"`
}

type libraryReport struct {
	Parts []entryReport `yaml:"parts"`
	Flex  []flexReport  `yaml:"flex,omitempty"`
}

func newPartsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "parts <script>",
		Short: "List the library entries a script defines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.load(args[0])
			if err != nil {
				return err
			}
			var r libraryReport
			for _, key := range s.lib.Keys() {
				d, _ := s.lib.Resolve(key)
				r.Parts = append(r.Parts, entryReport{
					Key:         d.Key,
					Kind:        d.Kind.String(),
					Description: d.Description,
					Primitives:  len(d.Primitives),
					Connectors:  len(d.Connectors),
					Refs:        len(d.Refs),
				})
			}
			for _, key := range s.lib.FlexKeys() {
				f, _ := s.lib.Flex(key)
				r.Flex = append(r.Flex, flexReport{Key: f.Key, Head: f.Head, Mid: f.Mid, Tail: f.Tail})
			}
			return writeYAML(cmd.OutOrStdout(), r)
		},
	}
}

// ---------------------------------------------------------------------------
// dupcheck
// ---------------------------------------------------------------------------

type duplicateReport struct {
	Type  string     `yaml:"type"`
	Parts [2]int     `yaml:"parts,flow"`
	At    [3]float64 `yaml:"at,flow"`
}

func newDupcheckCmd(opts *options) *cobra.Command {
	var tol float64
	cmd := &cobra.Command{
		Use:   "dupcheck <script>",
		Short: "Report connectors that sit on top of each other",
		Long: `Report pairs of same-type connectors whose ends agree within --tol.

Two copies of a part placed at the same spot show up here. The command
fails when any pair is found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.load(args[0])
			if err != nil {
				return err
			}
			dups := s.editor.FindDuplicateConnections(tol)
			out := make([]duplicateReport, 0, len(dups))
			for _, d := range dups {
				out = append(out, duplicateReport{
					Type:  d.A.Type,
					Parts: [2]int{d.A.PartID, d.B.PartID},
					At:    [3]float64{d.A.P1.X, d.A.P1.Y, d.A.P1.Z},
				})
			}
			if err := writeYAML(cmd.OutOrStdout(), map[string]any{"duplicates": out}); err != nil {
				return err
			}
			if len(dups) > 0 {
				return fmt.Errorf("%d duplicate connectors", len(dups))
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&tol, "tol", connect.DefaultDuplicateTolerance, "per-coordinate tolerance")
	return cmd
}
