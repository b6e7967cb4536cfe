package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/zenzer0s/crawlbase"
	"github.com/zenzer0s/crawlbase/internal/domain"
)

const historyTimeLayout = "2006-01-02 15:04:05"

// printResult writes metadata to stderr and the body to stdout, so the body
// can be piped. Screenshots print the file path instead of base64 data.
func (a *app) printResult(cmd *cobra.Command, res *crawlbase.Result) error {
	if a.jsonOutput {
		return writeJSON(cmd.OutOrStdout(), res)
	}
	renderMetadata(cmd.ErrOrStderr(), res)

	out := res.Body
	if res.ScreenshotPath != "" {
		out = res.ScreenshotPath
	}
	if out == "" {
		return nil
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderMetadata(w io.Writer, res *crawlbase.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRow(table.Row{"endpoint", res.Variant})
	t.AppendRow(table.Row{"status", res.StatusCode})

	optional := []struct {
		name, value string
	}{
		{"original_status", res.OriginalStatus},
		{"crawlbase_status", res.CrawlbaseStatus},
		{"url", res.URL},
		{"screenshot_url", res.ScreenshotURL},
		{"screenshot_path", res.ScreenshotPath},
	}
	for _, f := range optional {
		if f.value != "" {
			t.AppendRow(table.Row{f.name, f.value})
		}
	}
	if res.RemainingRequests > 0 {
		t.AppendRow(table.Row{"remaining_requests", res.RemainingRequests})
	}
	if res.Variant == crawlbase.Screenshots.Name {
		t.AppendRow(table.Row{"success", strconv.FormatBool(res.Success)})
	}
	if len(res.MissingMetadata) > 0 {
		t.AppendRow(table.Row{"missing", strings.Join(res.MissingMetadata, ", ")})
	}
	t.Render()
}

func renderHistory(w io.Writer, records []domain.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No calls recorded yet.")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"When", "Endpoint", "Target", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, WidthMax: 60, WidthMaxEnforcer: text.Trim},
	})
	for _, r := range records {
		t.AppendRow(table.Row{r.Timestamp.Local().Format(historyTimeLayout), r.Variant, r.Target, r.Status()})
	}
	t.Render()
}
