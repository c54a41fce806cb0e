// Package report assembles the final manuscript report from a completed
// request record and exports it as markdown.
package report

import (
	"strings"

	"amie/internal/intake"
	"amie/internal/jsonutil"
	"amie/internal/pipeline"
)

// Report is the assembled result of a processed manuscript.
type Report struct {
	RequestID  string
	Filename   string
	Status     pipeline.Status
	UploadedAt string

	Classification *Classification
	Novelty        *Novelty
	Final          string
}

// Classification is the IDCA agent's output.
type Classification struct {
	Determination  string `json:"status_determination"`
	Justification  string `json:"justification"`
	SourceCitation string `json:"source_citation"`
}

// Novelty is the NAA agent's output.
type Novelty struct {
	Synopsis       string
	SearchQuery    string
	SourceCitation string
	References     []Reference
	Assessments    []Assessment
}

// Reference is one prior-art result from the novelty search.
type Reference struct {
	Title  string
	Year   string
	URL    string
	Source string
}

// Assessment is one reference-manuscript comparison.
type Assessment struct {
	Filename      string
	Citation      string
	Synopsis      string
	Determination string
	CSS           string
	EWSS          string
}

// FromRecord parses the agent outputs out of a request record. Outputs that
// are missing or unparseable are left nil rather than failing the report:
// a partially processed record still renders whatever it has.
func FromRecord(rec *intake.Record) *Report {
	r := &Report{
		RequestID:  rec.RequestID,
		Filename:   rec.Filename,
		Status:     pipeline.Status(rec.Status),
		UploadedAt: rec.UploadedAt,
		Final:      strings.TrimSpace(rec.AAOutput),
	}

	if rec.IDCAOutput != "" {
		var c Classification
		if err := jsonutil.UnmarshalWithContext([]byte(rec.IDCAOutput), &c, "idca output"); err == nil {
			r.Classification = &c
		}
	}

	if rec.NAAOutput != "" {
		if n := parseNovelty([]byte(rec.NAAOutput)); n != nil {
			r.Novelty = n
		}
	}

	return r
}

// parseNovelty extracts the NAA document defensively: the backend has
// changed field shapes over time (years as numbers or strings, references
// occasionally bare URLs), so everything goes through jsonutil.
func parseNovelty(data []byte) *Novelty {
	var doc map[string]interface{}
	if err := jsonutil.UnmarshalWithContext(data, &doc, "naa output"); err != nil {
		return nil
	}

	n := &Novelty{
		Synopsis:       jsonutil.GetString(doc, "ss_synopsis"),
		SearchQuery:    jsonutil.GetString(doc, "ucs"),
		SourceCitation: jsonutil.GetString(doc, "source_citation"),
	}

	for _, ref := range jsonutil.GetMaps(doc, "lor") {
		n.References = append(n.References, Reference{
			Title:  jsonutil.GetStringOr(ref, "title", "Untitled"),
			Year:   jsonutil.ToString(ref["year"]),
			URL:    jsonutil.GetString(ref, "url"),
			Source: jsonutil.GetString(ref, "source"),
		})
	}

	for _, a := range jsonutil.GetMaps(doc, "assessments") {
		score := jsonutil.GetMap(a, "sos_score")
		n.Assessments = append(n.Assessments, Assessment{
			Filename:      jsonutil.GetString(a, "filename"),
			Citation:      jsonutil.GetString(a, "reference_citation"),
			Synopsis:      jsonutil.GetString(a, "rs_synopsis"),
			Determination: jsonutil.GetString(a, "status_determination"),
			CSS:           jsonutil.ToString(score["CSS"]),
			EWSS:          jsonutil.ToString(score["EWSS"]),
		})
	}

	return n
}
