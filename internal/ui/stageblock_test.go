package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"amie/internal/pipeline"
)

func TestStageBlock_Render(t *testing.T) {
	b := NewStageBlock()

	out := b.Render(pipeline.Stage{Name: "Classification", State: pipeline.StateActive}, 42.5, 30*time.Second, 80)
	assert.Contains(t, out, "Classification")
	assert.Contains(t, out, "42.5%")
	assert.Contains(t, out, "30s")

	out = b.Render(pipeline.Stage{Name: "Ingestion", State: pipeline.StateDone}, 100, 0, 80)
	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "100.0%")

	out = b.Render(pipeline.Stage{Name: "Aggregation", State: pipeline.StateFailed}, 0, 0, 80)
	assert.Contains(t, out, "✗")
}

func TestStageBlock_NarrowWidthDoesNotPanic(t *testing.T) {
	b := NewStageBlock()
	for _, width := range []int{0, 10, 25, 200} {
		out := b.Render(pipeline.Stage{Name: "Novelty Assessment", State: pipeline.StateQueued}, 0, 0, width)
		assert.NotEmpty(t, out)
	}
}
