package report

import (
	"fmt"
	"strings"
)

// Markdown renders the report as a standalone markdown document.
func (r *Report) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Manuscript Assessment Report\n\n")
	fmt.Fprintf(&b, "- **File:** %s\n", orNA(r.Filename))
	fmt.Fprintf(&b, "- **Request:** %s\n", orNA(r.RequestID))
	fmt.Fprintf(&b, "- **Status:** %s\n", orNA(string(r.Status)))
	fmt.Fprintf(&b, "- **Uploaded:** %s\n", orNA(r.UploadedAt))

	if c := r.Classification; c != nil {
		b.WriteString("\n## Classification\n\n")
		fmt.Fprintf(&b, "- **Determination:** %s\n", orNA(c.Determination))
		if c.SourceCitation != "" {
			fmt.Fprintf(&b, "- **Citation:** %s\n", c.SourceCitation)
		}
		if c.Justification != "" {
			fmt.Fprintf(&b, "\n%s\n", c.Justification)
		}
	}

	if n := r.Novelty; n != nil {
		b.WriteString("\n## Novelty Assessment\n")
		if n.Synopsis != "" {
			fmt.Fprintf(&b, "\n%s\n", n.Synopsis)
		}
		if n.SearchQuery != "" {
			fmt.Fprintf(&b, "\nSearch query: `%s`\n", n.SearchQuery)
		}

		if len(n.References) > 0 {
			fmt.Fprintf(&b, "\n### Prior art (%d references)\n\n", len(n.References))
			for _, ref := range n.References {
				line := "- " + ref.Title
				if ref.Year != "" {
					line += fmt.Sprintf(" (%s)", ref.Year)
				}
				if ref.Source != "" {
					line += " — " + ref.Source
				}
				if ref.URL != "" {
					line += "\n  <" + ref.URL + ">"
				}
				b.WriteString(line + "\n")
			}
		}

		if len(n.Assessments) > 0 {
			b.WriteString("\n### Reference comparisons\n")
			for _, a := range n.Assessments {
				fmt.Fprintf(&b, "\n**%s**", orNA(a.Citation))
				if a.Determination != "" {
					fmt.Fprintf(&b, " — %s", a.Determination)
				}
				b.WriteString("\n")
				if a.CSS != "" || a.EWSS != "" {
					fmt.Fprintf(&b, "Scores: CSS=%s EWSS=%s\n", orNA(a.CSS), orNA(a.EWSS))
				}
				if a.Synopsis != "" {
					fmt.Fprintf(&b, "\n%s\n", a.Synopsis)
				}
			}
		}
	}

	if r.Final != "" {
		b.WriteString("\n## Final Report\n\n")
		b.WriteString(r.Final)
		b.WriteString("\n")
	}

	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}
