package html

import (
	"testing"
	"time"

	"github.com/kubev2v/vcenter-toolkit/internal/report/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	doc := &types.Document{
		Title:       "Security Audit",
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Sections: []types.Section{
			{
				Title:   "Results",
				Headers: []string{"Object", "Status"},
				Rows:    [][]string{{"esx01", "pass"}},
			},
		},
	}

	out, err := NewRenderer().Render(doc)
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "<title>Security Audit</title>")
	assert.Contains(t, html, "<th>Object</th>")
	assert.Contains(t, html, "<td>esx01</td>")
}

func TestRenderEscapesValues(t *testing.T) {
	doc := &types.Document{
		Title: "Report",
		Sections: []types.Section{
			{Rows: [][]string{{"<script>alert(1)</script>"}}},
		},
	}

	out, err := NewRenderer().Render(doc)
	require.NoError(t, err)

	assert.NotContains(t, string(out), "<script>alert")
}
