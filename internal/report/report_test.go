package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amie/internal/intake"
	"amie/internal/pipeline"
)

func sampleRecord() *intake.Record {
	return &intake.Record{
		RequestID:  "req-42",
		Filename:   "turbine.pdf",
		Status:     "completed",
		UploadedAt: "2026-03-01T08:00:00",
		IDCAOutput: `{
			"status_determination": "Present",
			"justification": "The manuscript discloses the claimed mechanism.",
			"source_citation": "Doe, J. (2026). Turbine blades. Journal of Things."
		}`,
		NAAOutput: `{
			"ss_synopsis": "The manuscript describes a cooled turbine blade.",
			"ucs": "(\"turbine blade\" AND cooling)",
			"source_citation": "Doe, J. (2026).",
			"lor": [
				{"title": "Cooling ducts in blades", "year": 2019, "url": "https://example.org/1", "source": "OpenAlex"},
				{"title": "Blade geometry", "year": "n.d.", "url": "https://example.org/2", "source": "PatentsView"}
			],
			"assessments": [
				{
					"filename": "rm1.pdf",
					"reference_citation": "Smith (2019). Cooling ducts.",
					"rs_synopsis": "Describes duct cooling.",
					"status_determination": "Not Novel",
					"sos_score": {"CSS": 4, "EWSS": 7}
				}
			]
		}`,
		AAOutput: "Overall the manuscript is judged novel in aspect B.",
	}
}

func TestFromRecord(t *testing.T) {
	r := FromRecord(sampleRecord())

	assert.Equal(t, "req-42", r.RequestID)
	assert.Equal(t, pipeline.StatusCompleted, r.Status)

	require.NotNil(t, r.Classification)
	assert.Equal(t, "Present", r.Classification.Determination)

	require.NotNil(t, r.Novelty)
	assert.Equal(t, "(\"turbine blade\" AND cooling)", r.Novelty.SearchQuery)
	require.Len(t, r.Novelty.References, 2)
	assert.Equal(t, "2019", r.Novelty.References[0].Year, "numeric year renders as integer")
	assert.Equal(t, "n.d.", r.Novelty.References[1].Year)

	require.Len(t, r.Novelty.Assessments, 1)
	assert.Equal(t, "4", r.Novelty.Assessments[0].CSS)
	assert.Equal(t, "7", r.Novelty.Assessments[0].EWSS)

	assert.Equal(t, "Overall the manuscript is judged novel in aspect B.", r.Final)
}

func TestFromRecord_PartialAndBrokenOutputs(t *testing.T) {
	rec := &intake.Record{
		RequestID:  "req-7",
		Status:     "classified",
		IDCAOutput: `{broken json`,
	}
	r := FromRecord(rec)
	assert.Nil(t, r.Classification, "unparseable output is dropped, not fatal")
	assert.Nil(t, r.Novelty)
	assert.Empty(t, r.Final)

	// Rendering a sparse report still succeeds.
	md := r.Markdown()
	assert.Contains(t, md, "req-7")
	assert.NotContains(t, md, "## Classification")
}

func TestMarkdown(t *testing.T) {
	md := FromRecord(sampleRecord()).Markdown()

	assert.Contains(t, md, "# Manuscript Assessment Report")
	assert.Contains(t, md, "**Determination:** Present")
	assert.Contains(t, md, "Prior art (2 references)")
	assert.Contains(t, md, "Cooling ducts in blades (2019)")
	assert.Contains(t, md, "Scores: CSS=4 EWSS=7")
	assert.Contains(t, md, "## Final Report")
}

func TestWriterSave(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(filepath.Join(dir, "reports"))

	path, err := w.Save(FromRecord(sampleRecord()))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "reports", "amie-report-req-42.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Manuscript Assessment Report")

	// No temp file left behind.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
