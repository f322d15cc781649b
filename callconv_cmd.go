//go:build linux

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/cilium/ebpf/asm"
	"github.com/spf13/cobra"

	"github.com/vuvietnguyenit/frame-inspect/callconv"
)

type CallResult struct {
	Name     string `json:"name" yaml:"name"`
	Kind     string `json:"kind" yaml:"kind"`
	Want     int32  `json:"want" yaml:"want"`
	Got      int32  `json:"got" yaml:"got"`
	Skipped  string `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Listing  string `json:"listing,omitempty" yaml:"listing,omitempty"`
	Verified bool   `json:"verified" yaml:"verified"`
}

type CallconvReport struct {
	RunID   string       `json:"run_id" yaml:"run_id"`
	Results []CallResult `json:"results" yaml:"results"`
}

func callconvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "callconv",
		Short: "Call frameless native and eBPF functions that return through registers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := runCallconv()
			if err != nil {
				return err
			}
			if FlagOutput != outputTable {
				return encode(cmd.OutOrStdout(), FlagOutput, rep)
			}
			w := cmd.OutOrStdout()
			heading(cmd, "Calling convention")
			table := newTable(w, []string{"NAME", "KIND", "WANT", "GOT", "OK"})
			for _, r := range rep.Results {
				ok := strconv.FormatBool(r.Verified)
				got := strconv.Itoa(int(r.Got))
				if r.Skipped != "" {
					ok, got = "skipped", "-"
				}
				if err := table.Append([]string{r.Name, r.Kind, strconv.Itoa(int(r.Want)), got, ok}); err != nil {
					return err
				}
			}
			if err := table.Render(); err != nil {
				return err
			}
			for _, r := range rep.Results {
				if r.Listing == "" {
					continue
				}
				heading(cmd, "%s", r.Name)
				fmt.Fprint(w, r.Listing)
			}
			return nil
		},
	}
}

func runCallconv() (*CallconvReport, error) {
	rep := &CallconvReport{RunID: run.ID}
	rep.Results = append(rep.Results,
		nativeResult("return_42", 42, callconv.Return42()),
		nativeResult("add_two", 42, callconv.AddTwo(20, 22)),
	)

	programs := []struct {
		name  string
		want  int32
		insns asm.Instructions
	}{
		{"return_42", 42, callconv.Return42Program()},
		{"add_two", 42, callconv.AddTwoProgram(20, 22)},
	}
	for _, p := range programs {
		res := CallResult{Name: p.name, Kind: "ebpf", Want: p.want, Listing: listing(p.insns)}
		ret, err := callconv.Run(p.name, p.insns)
		switch {
		case errors.Is(err, callconv.ErrBPFUnavailable):
			slog.Warn("Skipping eBPF test run", "prog", p.name, "err", err)
			res.Skipped = err.Error()
		case err != nil:
			return nil, err
		default:
			res.Got = int32(ret)
			res.Verified = res.Got == res.Want
		}
		rep.Results = append(rep.Results, res)
	}
	return rep, nil
}

func nativeResult(name string, want, got int32) CallResult {
	return CallResult{Name: name, Kind: "native", Want: want, Got: got, Verified: got == want}
}

func listing(insns asm.Instructions) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%v", insns)
	return sb.String()
}
