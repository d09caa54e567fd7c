package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/meshquality/internal/logging"
	"github.com/danielpatrickdp/meshquality/internal/mesh"
	"github.com/danielpatrickdp/meshquality/internal/quality"
	"github.com/danielpatrickdp/meshquality/internal/refine"
	"github.com/danielpatrickdp/meshquality/internal/store"
)

var (
	refineMesh string
	refineOut  string
)

// bisector refines by longest-edge bisection and tracks the live mesh.
type bisector struct {
	live map[int]*mesh.Tri
	ids  func() int
}

func newBisector(tris []*mesh.Tri) *bisector {
	b := &bisector{live: make(map[int]*mesh.Tri, len(tris)), ids: mesh.IDSource(tris)}
	for _, t := range tris {
		b.live[t.ID()] = t
	}
	return b
}

func (b *bisector) Split(_ context.Context, t quality.Triangle, _ refine.StrategyInfo) ([]quality.Triangle, error) {
	tri, ok := b.live[t.ID()]
	if !ok {
		return nil, fmt.Errorf("triangle %d is not in the mesh", t.ID())
	}
	if tri.Degenerate() {
		return nil, fmt.Errorf("triangle %d is degenerate", t.ID())
	}
	l, r := mesh.Bisect(tri, b.ids)
	delete(b.live, tri.ID())
	b.live[l.ID()] = l
	b.live[r.ID()] = r
	return []quality.Triangle{l, r}, nil
}

func (b *bisector) triangles() []*mesh.Tri {
	out := make([]*mesh.Tri, 0, len(b.live))
	for _, t := range b.live {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

var refineCmd = &cobra.Command{
	Use:   "refine",
	Short: "Run a budgeted refinement pass over a mesh",
	Long: `Split bad triangles, worst first, by longest-edge bisection until
none remain or the Steiner budget (quality.steiner_points) is used up.
Every verdict is recorded in the pass history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if refineMesh == "" {
			return fmt.Errorf("--mesh is required")
		}
		tris, err := mesh.LoadTriangles(refineMesh)
		if err != nil {
			return err
		}
		qc, err := cfg.Quality.ToOptions().Freeze()
		if err != nil {
			return err
		}
		if qc.Unconstrained() {
			log.Println("no quality bounds set; nothing will be refined")
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		splitter := newBisector(tris)
		p := refine.NewPass(qc, splitter)
		pass, err := st.CreatePass("refine", string(p.Strategy().ID), qc)
		if err != nil {
			return err
		}
		rec := logging.NewRecorder(st.DB(), pass.PassID, qc, cfg.OnlyBad)
		p.OnVerdict(rec.Observe)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		seeds := make([]quality.Triangle, len(tris))
		for i, t := range tris {
			seeds[i] = t
		}
		res, runErr := p.Run(ctx, seeds)

		if err := rec.Flush(); err != nil {
			log.Printf("log verdicts: %v", err)
		}
		bad := 0
		for _, n := range res.ReasonCounts {
			bad += n
		}
		if err := st.FinishPass(pass.PassID, store.PassOutcome{
			Stop:        string(res.Stop),
			Evaluated:   res.Evaluated,
			Bad:         bad,
			Splits:      res.Splits,
			SteinerUsed: res.SteinerUsed,
			Remaining:   res.Remaining,
		}); err != nil {
			log.Printf("record pass: %v", err)
		}
		if runErr != nil && !errors.Is(runErr, context.Canceled) {
			return runErr
		}

		if refineOut != "" {
			data, err := json.MarshalIndent(splitter.triangles(), "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(refineOut, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", refineOut, err)
			}
		}

		if jsonOut {
			return printJSON(passSummary(pass.PassID, res, len(splitter.live)))
		}
		fmt.Printf("Pass:       %s\n", pass.PassID)
		fmt.Printf("Strategy:   %s (%s)\n", res.Strategy.ID, res.Strategy.Description)
		fmt.Printf("Stop:       %s\n", res.Stop)
		fmt.Printf("Evaluated:  %d\n", res.Evaluated)
		fmt.Printf("Splits:     %d\n", res.Splits)
		fmt.Printf("Steiner:    %d", res.SteinerUsed)
		if b := p.Budget(); !b.Unbounded() {
			fmt.Printf(" of %d", b.Limit())
		}
		fmt.Println()
		fmt.Printf("Remaining:  %d bad\n", res.Remaining)
		fmt.Printf("Triangles:  %d\n", len(splitter.live))
		fmt.Printf("\nBad verdicts by reason:\n")
		printReasonCounts(res.ReasonCounts)
		return nil
	},
}

type refineSummary struct {
	PassID       string                 `json:"pass_id"`
	Strategy     refine.StrategyID      `json:"strategy"`
	Stop         refine.StopCause       `json:"stop"`
	Evaluated    int                    `json:"evaluated"`
	Splits       int                    `json:"splits"`
	SteinerUsed  int                    `json:"steiner_used"`
	Remaining    int                    `json:"remaining"`
	Triangles    int                    `json:"triangles"`
	ReasonCounts map[quality.Reason]int `json:"reason_counts"`
}

func passSummary(passID string, res refine.PassResult, triangles int) refineSummary {
	return refineSummary{
		PassID:       passID,
		Strategy:     res.Strategy.ID,
		Stop:         res.Stop,
		Evaluated:    res.Evaluated,
		Splits:       res.Splits,
		SteinerUsed:  res.SteinerUsed,
		Remaining:    res.Remaining,
		Triangles:    triangles,
		ReasonCounts: res.ReasonCounts,
	}
}

func init() {
	refineCmd.Flags().StringVar(&refineMesh, "mesh", "", "path to a triangle list JSON file")
	refineCmd.Flags().StringVar(&refineOut, "out", "", "write the refined triangle list to this file")
}
