package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/DengYangGong/YT-AISpider/internal/worker"
	"github.com/DengYangGong/YT-AISpider/internal/ytdlp"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// printSummary writes one row per batch input to stdout unless --quiet.
func printSummary(cmd *cobra.Command, results []worker.FileResult) {
	if quiet || len(results) == 0 {
		return
	}

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		status := "ok"
		switch {
		case r.Skipped:
			status = "missing"
		case r.Err != nil:
			status = "failed"
		}
		rows = append(rows, []string{
			filepath.Base(r.Input),
			status,
			countOrDash(r.Stats.Parsed),
			countOrDash(r.Stats.Cues),
			countOrDash(r.Translated),
			countOrDash(r.Fallbacks),
			outputNames(r.Outputs),
		})
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Input", "Status", "Blocks", "Cues", "Translated", "Fallback", "Outputs"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
	))
}

func countOrDash(n int) string {
	if n == 0 {
		return "-"
	}
	return strconv.Itoa(n)
}

func outputNames(o worker.Outputs) string {
	var names []string
	for _, p := range []string{o.Processed, o.Text, o.Bilingual, o.Target} {
		if p != "" {
			names = append(names, filepath.Base(p))
		}
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, "\n")
}

func printInfo(cmd *cobra.Command, info *ytdlp.VideoInfo) {
	rows := [][]string{
		{"Title", info.Title},
		{"Uploader", info.Uploader},
		{"Duration", info.Length().String()},
		{"Views", humanize.Comma(info.ViewCount)},
	}
	if info.UploadDate != "" {
		rows = append(rows, []string{"Uploaded", info.UploadDate})
	}
	if info.WebpageURL != "" {
		rows = append(rows, []string{"URL", info.WebpageURL})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
}

func printFiles(cmd *cobra.Command, files []ytdlp.MediaFile) {
	if len(files) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no downloads found")
		return
	}
	rows := make([][]string, 0, len(files))
	for _, f := range files {
		lang := f.Lang
		if lang == "" {
			lang = "-"
		}
		rows = append(rows, []string{
			filepath.Base(f.Path),
			lang,
			humanize.Bytes(uint64(f.Size)),
			humanize.Time(f.ModTime),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"File", "Lang", "Size", "Modified"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
	))
}
