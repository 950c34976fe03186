// # internal/ui/report/tsv.go
package report

import (
	"fmt"
	"io"
	"strings"

	"relight/internal/core/ports"
)

var tsvEscaper = strings.NewReplacer("\\", "\\\\", "\t", "\\t", "\n", "\\n", "\r", "\\r")

// GenerateTSV renders one row per range. Range text is escaped so each
// range stays on one line.
func GenerateTSV(res ports.HighlightResult) string {
	var buf strings.Builder

	buf.WriteString("Feature\tFile\tStart\tEnd\tLine\tColumn\tEndLine\tEndColumn\tCategory\tText\n")
	for _, r := range res.Ranges {
		buf.WriteString(fmt.Sprintf("%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%s\t%s\n",
			res.Feature,
			res.Path,
			r.Start,
			r.End,
			r.From.Line,
			r.From.Col,
			r.To.Line,
			r.To.Col,
			r.Category,
			tsvEscaper.Replace(r.Text),
		))
	}

	return buf.String()
}

func WriteTSV(w io.Writer, res ports.HighlightResult) error {
	_, err := io.WriteString(w, GenerateTSV(res))
	return err
}
