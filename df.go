//go:build linux

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"gopkg.in/yaml.v3"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

// Row is one captured frame.
type Row struct {
	Goroutine int       `json:"goroutine" yaml:"goroutine"`
	Tid       Tid       `json:"tid" yaml:"tid"`
	Depth     int       `json:"depth" yaml:"depth"`
	FP        Addr      `json:"fp" yaml:"fp"`
	SavedFP   Addr      `json:"saved_fp" yaml:"saved_fp"`
	RetAddr   Addr      `json:"ret_addr" yaml:"ret_addr"`
	Size      FrameSize `json:"size" yaml:"size"`
	Func      string    `json:"func" yaml:"func"`
}

type Header string

var frameHeaders = []Header{"G", "TID", "DEPTH", "FP", "SAVED FP", "RET ADDR", "SIZE", "RETURNS INTO"}

type DF struct {
	Headers []Header
	Rows    []Row
}

func (df *DF) InitHeader(headers []Header) {
	df.Headers = headers
}

func (df *DF) Insert(r Row) {
	df.Rows = append(df.Rows, r)
}

func newTable(w io.Writer, headers []string) *tablewriter.Table {
	table := tablewriter.NewTable(w, tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
		Settings: tw.Settings{Separators: tw.Separators{BetweenRows: tw.Off}},
	})))
	table.Header(headers)
	return table
}

func (df *DF) PrintTable(w io.Writer) error {
	headers := make([]string, len(df.Headers))
	for i, h := range df.Headers {
		headers[i] = string(h)
	}
	table := newTable(w, headers)
	for _, r := range df.Rows {
		row := []string{
			strconv.Itoa(r.Goroutine),
			strconv.Itoa(int(r.Tid)),
			strconv.Itoa(r.Depth),
			r.FP.String(),
			r.SavedFP.String(),
			r.RetAddr.String(),
			r.Size.HumanSize(),
			r.Func,
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// Agg summarises the frames captured by one goroutine.
type Agg struct {
	frames int
	total  FrameSize
	tids   map[string]struct{}
	funcs  map[string]struct{}
}

type Grouped struct {
	Group map[int]*Agg
	order []int
}

func (df *DF) GroupByGoroutine() *Grouped {
	grouped := &Grouped{Group: make(map[int]*Agg)}
	for _, r := range df.Rows {
		if _, ok := grouped.Group[r.Goroutine]; !ok {
			grouped.Group[r.Goroutine] = &Agg{
				tids:  make(map[string]struct{}),
				funcs: make(map[string]struct{}),
			}
			grouped.order = append(grouped.order, r.Goroutine)
		}
		g := grouped.Group[r.Goroutine]

		g.frames++
		g.total += r.Size
		g.tids[strconv.Itoa(int(r.Tid))] = struct{}{}
		g.funcs[r.Func] = struct{}{}
	}
	return grouped
}

func (g *Grouped) PrintTable(w io.Writer) error {
	table := newTable(w, []string{"G", "TID", "FRAMES", "STACK USED", "DISTINCT FUNCS"})
	for _, id := range g.order {
		agg := g.Group[id]
		row := []string{
			strconv.Itoa(id),
			strings.Join(setToSlice(agg.tids), ","),
			strconv.Itoa(agg.frames),
			agg.total.HumanSize(),
			strconv.Itoa(len(agg.funcs)),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// encode writes v as JSON or YAML.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// printKV renders two-column key/value rows.
func printKV(w io.Writer, rows [][2]string) error {
	table := newTable(w, []string{"FIELD", "VALUE"})
	for _, r := range rows {
		if err := table.Append([]string{r[0], r[1]}); err != nil {
			return err
		}
	}
	return table.Render()
}
