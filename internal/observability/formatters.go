// Package observability renders JD service results for terminal output.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/jd-admin/internal/form"
	"github.com/jonathan/jd-admin/internal/ranking"
	"github.com/jonathan/jd-admin/internal/types"
)

const (
	boxWidth       = 60
	maxItemsToShow = 5
	// lowConfidence marks extraction scores worth a second look
	lowConfidence = 0.6
)

// Printer writes human-readable views of records, extractions and rankings.
type Printer struct {
	out io.Writer
}

func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, ending in "..." when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// printBox frames body under a title. Lines wider than the box are cut.
//
//nolint:errcheck // terminal output
func (p *Printer) printBox(title, body string) {
	const inner = boxWidth - 4
	rule := strings.Repeat("─", boxWidth-2)
	row := func(text string) { fmt.Fprintf(p.out, "│ %-*s │\n", inner, truncate(text, inner)) }

	fmt.Fprintf(p.out, "┌%s┐\n", rule)
	row(title)
	fmt.Fprintf(p.out, "├%s┤\n", rule)
	for _, line := range strings.Split(body, "\n") {
		row(line)
	}
	fmt.Fprintf(p.out, "└%s┘\n", rule)
}

func writeList(sb *strings.Builder, label string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(label + ":\n")
	for _, item := range items[:min(len(items), limit)] {
		fmt.Fprintf(sb, "  • %s\n", item)
	}
	if len(items) > limit {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-limit)
	}
}

func writeFields(sb *strings.Builder, f types.JDFields) {
	fmt.Fprintf(sb, "Title:     %s\n", f.Title)
	fmt.Fprintf(sb, "Level:     %s\n", f.Level)
	fmt.Fprintf(sb, "Location:  %s\n", f.Location)
	fmt.Fprintf(sb, "Team size: %d\n", f.TeamSize)
	if f.Budget != "" {
		fmt.Fprintf(sb, "Budget:    %s\n", f.Budget)
	}
	sb.WriteString("\n")
	writeList(sb, "Mandatory skills", f.MandatorySkills, maxItemsToShow)
	writeList(sb, "Nice-to-have", f.NiceToHaveSkills, 3)
	writeList(sb, "Inclusion criteria", f.InclusionCriteria, 3)
	writeList(sb, "Exclusion criteria", f.ExclusionCriteria, 3)
}

// PrintRecord outputs one JD record with its fields and generated text.
func (p *Printer) PrintRecord(record *types.JDRecord) {
	if record == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "ID:        %s\n", record.JDID)
	fmt.Fprintf(&sb, "Status:    %s\n", record.Status)
	if record.UpdatedAt != "" {
		fmt.Fprintf(&sb, "Updated:   %s\n", record.UpdatedAt)
	}
	writeFields(&sb, record.Fields)
	if record.JDText != "" {
		sb.WriteString("\n")
		sb.WriteString(record.JDText)
	}
	if len(record.Versions) > 0 {
		fmt.Fprintf(&sb, "\n\n%d versions, latest: %s", len(record.Versions), record.Versions[len(record.Versions)-1].Action)
	}

	p.printBox("JOB DESCRIPTION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRecords outputs one line per JD.
func (p *Printer) PrintRecords(records []types.JDRecord) {
	if len(records) == 0 {
		p.printBox("JOB DESCRIPTIONS", "No job descriptions yet.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Total: %d\n\n", len(records))
	for i, r := range records {
		fmt.Fprintf(&sb, "%-10s %-8s %s", r.JDID, r.Status, r.Fields.Title)
		if i < len(records)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("JOB DESCRIPTIONS", sb.String())
}

// PrintStatus outputs the result of an approve or reject call.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintStatus(resp *types.StatusResponse) {
	if resp == nil {
		return
	}
	fmt.Fprintf(p.out, "%s is now %s\n", resp.JDID, resp.Status)
}

// PrintTemplates outputs the template names with the fields each pre-fills.
func (p *Printer) PrintTemplates(templates types.Templates) {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for i, name := range names {
		var draft form.Draft
		draft.ApplyTemplate(templates[name])
		var set []string
		for _, key := range form.Fields {
			if draft.Get(key) != "" {
				set = append(set, key)
			}
		}
		fmt.Fprintf(&sb, "%s\n  [%s]", name, strings.Join(set, ", "))
		if i < len(names)-1 {
			sb.WriteString("\n")
		}
	}
	if len(names) == 0 {
		sb.WriteString("No templates available.")
	}

	p.printBox("JD TEMPLATES", sb.String())
}

// PrintExtraction outputs extracted fields with per-field confidence.
func (p *Printer) PrintExtraction(result *types.ExtractionResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	if result.FileName != "" {
		fmt.Fprintf(&sb, "Source:    %s (%.1f KB)\n", result.FileName, float64(result.FileSize)/1024)
	}
	if result.Error != "" {
		fmt.Fprintf(&sb, "⚠ basic extraction: %s\n", result.Error)
	}
	writeFields(&sb, result.Fields)

	if len(result.ConfidenceScores) > 0 {
		keys := make([]string, 0, len(result.ConfidenceScores))
		for k := range result.ConfidenceScores {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString("\nConfidence:\n")
		for _, k := range keys {
			score := result.ConfidenceScores[k]
			marker := ""
			if score < lowConfidence {
				marker = "  ⚠ low"
			}
			fmt.Fprintf(&sb, "  %-20s %3.0f%%%s\n", k, score*100, marker)
		}
	}

	p.printBox("EXTRACTED FIELDS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRanking outputs ranked resumes with match levels.
func (p *Printer) PrintRanking(resp *types.RankingResponse) {
	if resp == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "JD: %s\n", resp.JDID)
	if resp.Note != "" {
		fmt.Fprintf(&sb, "%s\n", resp.Note)
	}
	sb.WriteString("\n")

	if len(resp.Results) == 0 {
		sb.WriteString("No resumes ranked.")
	}
	for i, r := range resp.Results {
		name := r.ResumeName
		if r.CandidateName != "" {
			name += " (" + r.CandidateName + ")"
		}
		fmt.Fprintf(&sb, "#%d  %s\n", r.Rank, name)
		fmt.Fprintf(&sb, "    Score: %s  %s\n", ranking.Percent(r.Score), ranking.Classify(r.Score))
		if len(r.MatchedKeywords) > 0 {
			fmt.Fprintf(&sb, "    Keywords: %s\n", truncate(strings.Join(r.MatchedKeywords, ", "), 40))
		}
		if i < len(resp.Results)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("RESUME RANKING", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCandidates outputs the candidate screening table.
func (p *Printer) PrintCandidates(candidates []types.Candidate) {
	if len(candidates) == 0 {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Screened %d candidates:\n\n", len(candidates))
	for i, c := range candidates {
		fmt.Fprintf(&sb, "%s  %-6s %3d%%  %s\n", c.UCID, c.ScreeningDecision, c.FitScore, c.CandidateName)
		if len(c.KeySkills) > 0 {
			fmt.Fprintf(&sb, "  [%s]\n", truncate(strings.Join(c.KeySkills, ", "), 40))
		}
		if i < len(candidates)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("CANDIDATES", strings.TrimSuffix(sb.String(), "\n"))
}
