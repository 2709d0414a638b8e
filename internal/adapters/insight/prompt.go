package insight

import (
	"fmt"
	"strings"

	"github.com/okian/ballot/internal/domain/model"
)

// Fallback texts shown in place of an analysis.
const (
	FallbackError = "Error connecting to AI analysis service."
	FallbackEmpty = "Unable to generate analysis at this time."
)

// FormatTallies renders one "<name> (<office>): <votes> votes" line per
// candidate, in roster order.
func FormatTallies(candidates []model.Candidate) string {
	lines := make([]string, len(candidates))
	for i, c := range candidates {
		lines[i] = fmt.Sprintf("%s (%s): %d votes", c.Name, c.Office, c.Votes)
	}
	return strings.Join(lines, "\n")
}

const promptTemplate = `
As an expert political analyst for a local association, analyze the following real-time election results:

%s

Provide:
1. A summary of current leaders for each position.
2. An analysis of the margin of victory in key positions (like President).
3. A professional prediction of the outcome if trends continue.
4. Two sentences of "community commentary" on what these results might suggest about the association's mood.

Format the response as a clear, structured markdown report.
`

// BuildPrompt wraps the tallies in the analyst instructions.
func BuildPrompt(candidates []model.Candidate) string {
	return fmt.Sprintf(promptTemplate, FormatTallies(candidates))
}
