package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/daydaylx/gamex-sub000/comparison"
)

// ExportService renders comparison reports for download.
type ExportService interface {
	RenderMarkdown(result *comparison.CompareResult) string
}

type exportService struct{}

// NewExportService creates a new instance of ExportService.
func NewExportService() ExportService {
	return &exportService{}
}

// RenderMarkdown renders result as a Markdown document. Free text written by either
// partner (notes, conditions, text answers) is never included.
func (s *exportService) RenderMarkdown(result *comparison.CompareResult) string {
	var b strings.Builder
	if result == nil {
		return ""
	}

	title := result.Meta.TemplateName
	if title == "" {
		title = result.Meta.TemplateID
	}
	fmt.Fprintf(&b, "# Comparison report: %s\n\n", title)
	if result.Meta.TemplateVersion != "" {
		fmt.Fprintf(&b, "Template version %s. ", result.Meta.TemplateVersion)
	}
	fmt.Fprintf(&b, "%d questions, %d scenarios.\n\n", result.Meta.QuestionCount, result.Meta.ScenarioCount)

	b.WriteString("## Overview\n\n| Bucket | Items |\n|---|---|\n")
	for _, bucket := range comparison.Buckets {
		fmt.Fprintf(&b, "| %s | %d |\n", bucket, result.Summary.Counts[bucket])
	}
	b.WriteString("\n")

	if flags := sortedFlags(result.Summary.Flags); len(flags) > 0 {
		b.WriteString("## Flags\n\n")
		for _, f := range flags {
			fmt.Fprintf(&b, "- %s: %d\n", f, result.Summary.Flags[f])
		}
		b.WriteString("\n")
	}

	b.WriteString("## Action plan\n\n")
	if len(result.ActionPlan) == 0 {
		b.WriteString("No shared, comfortable topics yet.\n\n")
	}
	for i, it := range result.ActionPlan {
		fmt.Fprintf(&b, "%d. **%s** (%s)", i+1, itemTitle(it), it.ModuleName)
		if len(it.ConversationPrompts) > 0 {
			fmt.Fprintf(&b, ": %s", it.ConversationPrompts[0])
		}
		b.WriteString("\n")
	}
	if len(result.ActionPlan) > 0 {
		b.WriteString("\n")
	}

	for _, bucket := range comparison.Buckets {
		var section []comparison.CompareItem
		for _, it := range result.Items {
			if it.Bucket == bucket {
				section = append(section, it)
			}
		}
		if len(section) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", bucket)
		for _, it := range section {
			writeItem(&b, it)
		}
	}
	return b.String()
}

func writeItem(b *strings.Builder, it comparison.CompareItem) {
	fmt.Fprintf(b, "### %s\n\n", itemTitle(it))
	fmt.Fprintf(b, "- Module: %s\n", it.ModuleName)
	fmt.Fprintf(b, "- Risk: %s\n", it.RiskLevel)
	fmt.Fprintf(b, "- A: %s\n", answerSummary(it.A))
	fmt.Fprintf(b, "- B: %s\n", answerSummary(it.B))
	if len(it.Flags) > 0 {
		flags := make([]string, len(it.Flags))
		for i, f := range it.Flags {
			flags[i] = string(f)
		}
		fmt.Fprintf(b, "- Flags: %s\n", strings.Join(flags, ", "))
	}
	for _, p := range it.ConversationPrompts {
		fmt.Fprintf(b, "  - %s\n", p)
	}
	b.WriteString("\n")
}

func itemTitle(it comparison.CompareItem) string {
	if it.Label != "" {
		return it.Label
	}
	return it.QuestionID
}

// answerKeys are the structured fields safe to print, in display order.
var answerKeys = []string{
	"status", "dom_status", "sub_status", "active_status", "passive_status",
	"interest", "comfort", "value", "values", "choice",
}

func answerSummary(a comparison.Answer) string {
	var parts []string
	for _, key := range answerKeys {
		v, ok := a[key]
		if !ok || v == nil {
			continue
		}
		switch list := v.(type) {
		case []any:
			strs := make([]string, 0, len(list))
			for _, x := range list {
				strs = append(strs, fmt.Sprint(x))
			}
			parts = append(parts, fmt.Sprintf("%s=[%s]", key, strings.Join(strs, ", ")))
		default:
			parts = append(parts, fmt.Sprintf("%s=%v", key, v))
		}
	}
	if len(parts) == 0 {
		return "no answer"
	}
	return strings.Join(parts, ", ")
}

func sortedFlags(counts map[comparison.Flag]int) []comparison.Flag {
	var out []comparison.Flag
	for f, n := range counts {
		if n > 0 {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
