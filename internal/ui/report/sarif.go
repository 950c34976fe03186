// # internal/ui/report/sarif.go
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"relight/internal/core/ports"
	"relight/internal/engine/highlight"
)

// SARIF v2.1.0 schema – see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"

	ruleIDReference      = "RL001"
	ruleIDExitPoint      = "RL002"
	ruleIDBreakPoint     = "RL003"
	ruleIDClosureCapture = "RL004"
	ruleIDYieldPoint     = "RL005"
)

type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID     string            `json:"ruleId"`
	Level      string            `json:"level"`
	Message    sarifMessage      `json:"message"`
	Locations  []sarifLocation   `json:"locations,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId,omitempty"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
	EndLine     int `json:"endLine"`
	EndColumn   int `json:"endColumn"`
	CharOffset  int `json:"charOffset"`
	CharLength  int `json:"charLength"`
}

var sarifRules = map[highlight.Feature]sarifRule{
	highlight.FeatureReferences: {
		ID:               ruleIDReference,
		Name:             "Reference",
		ShortDescription: sarifMessage{Text: "A reference to the definition under the cursor."},
	},
	highlight.FeatureExitPoints: {
		ID:               ruleIDExitPoint,
		Name:             "ExitPoint",
		ShortDescription: sarifMessage{Text: "A point where the enclosing function or closure returns."},
	},
	highlight.FeatureBreakPoints: {
		ID:               ruleIDBreakPoint,
		Name:             "BreakPoint",
		ShortDescription: sarifMessage{Text: "A break or continue targeting the loop or labeled block."},
	},
	highlight.FeatureClosureCaptures: {
		ID:               ruleIDClosureCapture,
		Name:             "ClosureCapture",
		ShortDescription: sarifMessage{Text: "A variable captured by the closure."},
	},
	highlight.FeatureYieldPoints: {
		ID:               ruleIDYieldPoint,
		Name:             "YieldPoint",
		ShortDescription: sarifMessage{Text: "An await or yield inside the async context."},
	},
}

// GenerateSARIF builds a SARIF v2.1.0 document with one note per highlighted
// range. The file URI is made relative to root when the path is absolute.
func GenerateSARIF(root, toolVersion string, res ports.HighlightResult) ([]byte, error) {
	rules := make([]sarifRule, 0, 1)
	results := make([]sarifResult, 0, len(res.Ranges))

	if rule, ok := sarifRules[res.Feature]; ok {
		rule.DefaultConfig = sarifRuleDefaultConfig{Level: "note"}
		rules = append(rules, rule)

		uri := relativeURI(root, res.Path)
		for _, r := range res.Ranges {
			msg := fmt.Sprintf("%s %q", rule.Name, r.Text)
			if r.Category != "" {
				msg += fmt.Sprintf(" (%s)", r.Category)
			}
			result := sarifResult{
				RuleID:  rule.ID,
				Level:   "note",
				Message: sarifMessage{Text: msg},
				Locations: []sarifLocation{{
					PhysicalLocation: sarifPhysicalLocation{
						ArtifactLocation: sarifArtifactLocation{URI: uri, URIBaseID: "%SRCROOT%"},
						Region: &sarifRegion{
							StartLine:   r.From.Line,
							StartColumn: r.From.Col,
							EndLine:     r.To.Line,
							EndColumn:   r.To.Col,
							CharOffset:  r.Start,
							CharLength:  r.End - r.Start,
						},
					},
				}},
			}
			if r.Category != "" {
				result.Properties = map[string]string{"category": r.Category}
			}
			results = append(results, result)
		}
	}

	report := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool: sarifTool{
				Driver: sarifDriver{
					Name:    "relight",
					Version: toolVersion,
					Rules:   rules,
				},
			},
			Results: results,
		}},
	}
	return json.MarshalIndent(report, "", "  ")
}

// WriteSARIF writes GenerateSARIF's document to w.
func WriteSARIF(w io.Writer, root, toolVersion string, res ports.HighlightResult) error {
	data, err := GenerateSARIF(root, toolVersion, res)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// relativeURI converts an absolute file path to a forward-slash relative URI
// anchored at root. Otherwise the path is returned with forward slashes.
func relativeURI(root, filePath string) string {
	if root != "" && filepath.IsAbs(filePath) {
		if rel, err := filepath.Rel(root, filePath); err == nil {
			filePath = rel
		}
	}
	return filepath.ToSlash(filePath)
}
