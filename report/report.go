// Package report renders batch summaries and blob headers as tables.
package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"tiff2lerc/contracts"
)

// column is a table header plus the alignment of its cells.
type column struct {
	name    string
	numeric bool
}

func label(name string) column { return column{name: name} }
func num(name string) column   { return column{name: name, numeric: true} }

var (
	summaryColumns = []column{
		num("Files"), num("Converted"), num("Failed"), num("Directories"),
		num("Read"), num("Written"), num("Ratio"), num("Elapsed"),
	}
	failureColumns = []column{label("Path"), label("Stage"), label("Kind"), label("Error")}
	blobColumns    = []column{
		label("Path"), num("Version"), label("Type"), num("Size"), num("Depth"), num("Bands"),
		num("Valid"), num("Min"), num("Max"), num("MaxZError"), num("Blob"),
	}
)

// render draws rows under cols. Short rows are padded, headers keep their
// case.
func render(cols []column, rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault

	header := make(table.Row, len(cols))
	configs := make([]table.ColumnConfig, len(cols))
	for i, c := range cols {
		header[i] = c.name
		configs[i] = table.ColumnConfig{Number: i + 1, AlignHeader: text.AlignLeft, Align: text.AlignLeft}
		if c.numeric {
			configs[i].Align = text.AlignRight
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(cols))
		for i := range r {
			r[i] = ""
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}
	return tw.Render() + "\n"
}

// Ratio is output bytes over input bytes, 0 when nothing was read.
func Ratio(in, out int64) float64 {
	if in <= 0 {
		return 0
	}
	return float64(out) / float64(in)
}

func bytesLabel(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

// Batch renders the totals of a directory run, followed by one row per
// failed file when there are any.
func Batch(r contracts.BatchReport, elapsed time.Duration) string {
	out := render(summaryColumns, [][]string{{
		strconv.Itoa(r.Total()),
		strconv.Itoa(len(r.Converted)),
		strconv.Itoa(len(r.Failed)),
		strconv.Itoa(r.Directories),
		bytesLabel(r.BytesIn),
		bytesLabel(r.BytesOut),
		fmt.Sprintf("%.2f", Ratio(r.BytesIn, r.BytesOut)),
		elapsed.Round(time.Millisecond).String(),
	}})
	if len(r.Failed) == 0 {
		return out
	}

	rows := make([][]string, 0, len(r.Failed))
	for _, f := range r.Failed {
		msg := ""
		if f.Err != nil {
			msg = f.Err.Error()
		}
		rows = append(rows, []string{f.Path, f.Stage, f.Kind, msg})
	}
	return out + "\n" + render(failureColumns, rows)
}

// BlobEntry is one file passed to the info command.
type BlobEntry struct {
	Path string
	Info contracts.BlobInfo
	Err  error
}

// BlobInfo renders LERC header fields, one row per blob.
func BlobInfo(entries []BlobEntry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		if e.Err != nil {
			rows = append(rows, []string{e.Path, "error: " + e.Err.Error()})
			continue
		}
		i := e.Info
		rows = append(rows, []string{
			e.Path,
			strconv.Itoa(i.Version),
			i.DataType.String(),
			fmt.Sprintf("%dx%d", i.Cols, i.Rows),
			strconv.Itoa(i.Depth),
			strconv.Itoa(i.Bands),
			strconv.Itoa(i.ValidPixels),
			strconv.FormatFloat(i.ZMin, 'g', -1, 64),
			strconv.FormatFloat(i.ZMax, 'g', -1, 64),
			strconv.FormatFloat(i.MaxZError, 'g', -1, 64),
			bytesLabel(int64(i.BlobSize)),
		})
	}
	return render(blobColumns, rows)
}
