package mockapi

// Canned agent outputs attached to completed requests, shaped like the
// real backend's table entities so report parsing sees realistic input.

const sampleIDCAOutput = `{
  "status_determination": "Present",
  "justification": "The manuscript explicitly discloses the claimed cooling geometry in section 3.",
  "source_citation": "Voss, K., & Imrie, T. (2026). Transpiration cooling in radial turbines. Journal of Propulsion, 41(2), 118-131."
}`

const sampleNAAOutput = `{
  "ss_synopsis": "The manuscript presents a radial turbine blade with graded transpiration cooling channels and reports a 14% efficiency gain over film cooling.",
  "ucs": "(\"transpiration cooling\" AND \"radial turbine\") AND (graded OR variable) AND channels",
  "source_citation": "Voss, K., & Imrie, T. (2026).",
  "lor": [
    {"title": "Film cooling of turbine blades: a review", "year": 2018, "url": "https://example.org/openalex/W1", "source": "OpenAlex"},
    {"title": "Porous transpiration cooling structure", "year": 2021, "url": "https://example.org/patents/US1", "source": "PatentsView", "patent_number": "US-1234567-B2"},
    {"title": "Graded porosity media for heat exchange", "year": 2023, "url": "https://example.org/ss/P9", "source": "SemanticScholar"}
  ],
  "assessments": [
    {
      "filename": "rm1.pdf",
      "reference_citation": "Hale, R. (2021). Porous transpiration cooling structure. US-1234567-B2.",
      "rs_synopsis": "Discloses uniform-porosity transpiration cooling for axial blades.",
      "status_determination": "Novel",
      "sos_score": {"CSS": 2, "EWSS": 5}
    },
    {
      "filename": "rm2.pdf",
      "reference_citation": "Okafor, D. (2023). Graded porosity media for heat exchange.",
      "rs_synopsis": "Describes graded porosity in static heat exchangers, not rotating blades.",
      "status_determination": "Novel",
      "sos_score": {"CSS": 3, "EWSS": 6}
    }
  ]
}`

const sampleAAOutput = `AGGREGATED ASSESSMENT

Classification: the claimed subject matter is Present in the manuscript.

Novelty: none of the retrieved references combine graded transpiration
channels with a radial turbine geometry. The closest art (US-1234567-B2)
uses uniform porosity on axial blades. The manuscript is assessed as novel
with moderate confidence.

Recommendation: proceed to full review.`

func fillOutputs(req *request) {
	req.IDCAOutput = sampleIDCAOutput
	req.NAAOutput = sampleNAAOutput
	req.AAOutput = sampleAAOutput
}
