// # internal/ui/report/report_test.go
package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"relight/internal/core/ports"
	"relight/internal/engine/highlight"
	"relight/internal/shared/position"
)

func sampleResult() ports.HighlightResult {
	return ports.HighlightResult{
		Path:    "/project/src/main.rs",
		Feature: highlight.FeatureReferences,
		Ranges: []ports.HighlightRange{
			{Start: 8, End: 13, From: position.LineCol{Line: 2, Col: 9}, To: position.LineCol{Line: 2, Col: 14}, Category: "write", Text: "total"},
			{Start: 30, End: 35, From: position.LineCol{Line: 3, Col: 16}, To: position.LineCol{Line: 3, Col: 21}, Category: "read", Text: "total"},
		},
	}
}

func TestGenerateSARIF_EmptyResults(t *testing.T) {
	data, err := GenerateSARIF("", "", ports.HighlightResult{Feature: highlight.FeatureNone})
	if err != nil {
		t.Fatalf("GenerateSARIF returned error: %v", err)
	}
	var report sarifReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if report.Schema != sarifSchema {
		t.Errorf("$schema = %q, want %q", report.Schema, sarifSchema)
	}
	if report.Version != sarifVersion {
		t.Errorf("version = %q, want %q", report.Version, sarifVersion)
	}
	if len(report.Runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(report.Runs))
	}
	if len(report.Runs[0].Results) != 0 || len(report.Runs[0].Tool.Driver.Rules) != 0 {
		t.Errorf("expected no rules or results, got %+v", report.Runs[0])
	}
}

func TestGenerateSARIF_References(t *testing.T) {
	data, err := GenerateSARIF("/project", "v1.2.3", sampleResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var report sarifReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	run := report.Runs[0]
	if run.Tool.Driver.Name != "relight" || run.Tool.Driver.Version != "v1.2.3" {
		t.Errorf("driver = %+v", run.Tool.Driver)
	}
	if len(run.Tool.Driver.Rules) != 1 || run.Tool.Driver.Rules[0].ID != ruleIDReference {
		t.Fatalf("rules = %+v, want only %s", run.Tool.Driver.Rules, ruleIDReference)
	}
	if len(run.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(run.Results))
	}

	r := run.Results[0]
	if r.RuleID != ruleIDReference || r.Level != "note" {
		t.Errorf("result = %+v", r)
	}
	if !strings.Contains(r.Message.Text, `"total"`) || !strings.Contains(r.Message.Text, "(write)") {
		t.Errorf("message %q lacks token or category", r.Message.Text)
	}
	if r.Properties["category"] != "write" {
		t.Errorf("category property = %q", r.Properties["category"])
	}
	loc := r.Locations[0].PhysicalLocation
	if loc.ArtifactLocation.URI != "src/main.rs" {
		t.Errorf("uri = %q, want src/main.rs", loc.ArtifactLocation.URI)
	}
	want := sarifRegion{StartLine: 2, StartColumn: 9, EndLine: 2, EndColumn: 14, CharOffset: 8, CharLength: 5}
	if *loc.Region != want {
		t.Errorf("region = %+v, want %+v", *loc.Region, want)
	}
}

func TestGenerateSARIF_NoCategory(t *testing.T) {
	res := ports.HighlightResult{
		Path:    "lib.rs",
		Feature: highlight.FeatureExitPoints,
		Ranges:  []ports.HighlightRange{{Start: 0, End: 2, Text: "fn"}},
	}
	data, err := GenerateSARIF("/elsewhere", "", res)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var report sarifReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	r := report.Runs[0].Results[0]
	if r.RuleID != ruleIDExitPoint {
		t.Errorf("ruleId = %q, want %q", r.RuleID, ruleIDExitPoint)
	}
	if r.Properties != nil {
		t.Errorf("expected no properties, got %v", r.Properties)
	}
	if uri := r.Locations[0].PhysicalLocation.ArtifactLocation.URI; uri != "lib.rs" {
		t.Errorf("relative path should pass through, got %q", uri)
	}
}

func TestWriteSARIF_TrailingNewline(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSARIF(&buf, "", "", sampleResult()); err != nil {
		t.Fatalf("WriteSARIF: %v", err)
	}
	if !strings.HasSuffix(buf.String(), "}\n") {
		t.Errorf("expected document terminated by newline")
	}
}

func TestGenerateTSV(t *testing.T) {
	res := sampleResult()
	res.Ranges[1].Text = "a\tb\nc"

	lines := strings.Split(strings.TrimSuffix(GenerateTSV(res), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d: %q", len(lines), lines)
	}
	if !strings.HasPrefix(lines[0], "Feature\tFile\tStart") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if want := "references\t/project/src/main.rs\t8\t13\t2\t9\t2\t14\twrite\ttotal"; lines[1] != want {
		t.Errorf("row = %q, want %q", lines[1], want)
	}
	if !strings.HasSuffix(lines[2], "\tread\ta\\tb\\nc") {
		t.Errorf("text not escaped: %q", lines[2])
	}
}

func TestWriteTSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTSV(&buf, ports.HighlightResult{Feature: highlight.FeatureNone}); err != nil {
		t.Fatalf("WriteTSV: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("expected header only, got %q", buf.String())
	}
}
