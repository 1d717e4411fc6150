package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/purpl3F0x/typst/internal/workload"
)

// Output formats of the bench report.
const (
	formatTable = "table"
	formatYAML  = "yaml"
	formatJSON  = "json"
)

const percent = 100

// ErrUnknownFormat is returned for an unsupported --format value.
var ErrUnknownFormat = errors.New("unknown output format")

func validateFormat(format string) error {
	switch format {
	case formatTable, formatYAML, formatJSON:
		return nil
	default:
		return fmt.Errorf("%w: %q (want table, yaml or json)", ErrUnknownFormat, format)
	}
}

// benchReport is the serialized form of a workload report.
type benchReport struct {
	Workers      int           `json:"workers"        yaml:"workers"`
	Values       int           `json:"values"         yaml:"values"`
	Repeat       int           `json:"repeat"         yaml:"repeat"`
	UniqueRatio  float64       `json:"unique_ratio"   yaml:"unique_ratio"`
	ElapsedMS    float64       `json:"elapsed_ms"     yaml:"elapsed_ms"`
	Ops          int64         `json:"ops"            yaml:"ops"`
	OpsPerSecond float64       `json:"ops_per_second" yaml:"ops_per_second"`
	Interned     int64         `json:"interned"       yaml:"interned"`
	Unique       int64         `json:"unique"         yaml:"unique"`
	Resolved     int64         `json:"resolved"       yaml:"resolved"`
	Exhausted    int64         `json:"exhausted"      yaml:"exhausted"`
	Tables       []tableReport `json:"tables"         yaml:"tables"`
}

type tableReport struct {
	Name        string  `json:"name"        yaml:"name"`
	Width       string  `json:"width"       yaml:"width"`
	Entries     int     `json:"entries"     yaml:"entries"`
	Capacity    int     `json:"capacity"    yaml:"capacity"`
	Hits        int64   `json:"hits"        yaml:"hits"`
	Misses      int64   `json:"misses"      yaml:"misses"`
	Unique      int64   `json:"unique"      yaml:"unique"`
	HitRate     float64 `json:"hit_rate"    yaml:"hit_rate"`
	Utilization float64 `json:"utilization" yaml:"utilization"`
}

func newBenchReport(r workload.Report) benchReport {
	out := benchReport{
		Workers:      r.Config.Workers,
		Values:       r.Config.Values,
		Repeat:       r.Config.Repeat,
		UniqueRatio:  r.Config.UniqueRatio,
		ElapsedMS:    float64(r.Elapsed) / float64(time.Millisecond),
		Ops:          r.Ops(),
		OpsPerSecond: r.OpsPerSecond(),
		Interned:     r.Interned,
		Unique:       r.Unique,
		Resolved:     r.Resolved,
		Exhausted:    r.Exhausted,
		Tables:       make([]tableReport, 0, len(r.Tables)),
	}

	for _, st := range r.Tables {
		out.Tables = append(out.Tables, tableReport{
			Name:        st.Name,
			Width:       st.Width.String(),
			Entries:     st.Entries,
			Capacity:    st.Capacity,
			Hits:        st.Hits,
			Misses:      st.Misses,
			Unique:      st.Unique,
			HitRate:     st.HitRate(),
			Utilization: st.Utilization(),
		})
	}

	return out
}

func writeReport(w io.Writer, format string, r workload.Report) error {
	report := newBenchReport(r)

	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		err := enc.Encode(report)
		if err != nil {
			return fmt.Errorf("encode json report: %w", err)
		}

		return nil
	case formatYAML:
		data, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("encode yaml report: %w", err)
		}

		_, err = w.Write(data)
		if err != nil {
			return fmt.Errorf("write report: %w", err)
		}

		return nil
	default:
		_, err := fmt.Fprintln(w, renderTable(report))
		if err != nil {
			return fmt.Errorf("write report: %w", err)
		}

		return nil
	}
}

func renderTable(report benchReport) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle(fmt.Sprintf("%d workers x %s values x %d passes, %.0f%% unique",
		report.Workers, humanize.Comma(int64(report.Values)), report.Repeat, report.UniqueRatio*percent))

	tbl.AppendHeader(table.Row{"Table", "Width", "Entries", "Capacity", "Used", "Hits", "Misses", "Unique", "Hit rate"})

	for _, t := range report.Tables {
		tbl.AppendRow(table.Row{
			t.Name,
			t.Width,
			humanize.Comma(int64(t.Entries)),
			humanize.Comma(int64(t.Capacity)),
			formatPercent(t.Utilization),
			humanize.Comma(t.Hits),
			humanize.Comma(t.Misses),
			humanize.Comma(t.Unique),
			formatPercent(t.HitRate),
		})
	}

	footer := fmt.Sprintf("%s ops in %s (%s)",
		humanize.Comma(report.Ops),
		time.Duration(report.ElapsedMS*float64(time.Millisecond)).Round(time.Millisecond),
		humanize.SIWithDigits(report.OpsPerSecond, 2, "ops/s"))
	if report.Exhausted > 0 {
		footer += fmt.Sprintf(", %s refused: table full", humanize.Comma(report.Exhausted))
	}

	tbl.AppendFooter(table.Row{footer})

	return tbl.Render()
}

func formatPercent(ratio float64) string {
	return humanize.FormatFloat("#,###.##", ratio*percent) + "%"
}
