package xlsx

import (
	"bytes"
	"testing"
	"time"

	"github.com/kubev2v/vcenter-toolkit/internal/report/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestRender(t *testing.T) {
	doc := &types.Document{
		Title:       "Capacity Report",
		GeneratedAt: time.Now(),
		Sections: []types.Section{
			{
				Title:   "Hosts",
				Headers: []string{"Host", "Ratio"},
				Rows:    [][]string{{"esx01", "2.0"}},
			},
			{
				Title:   "Clusters",
				Headers: []string{"Cluster", "Ratio"},
				Rows:    [][]string{{"cluster01", "1.5"}},
			},
		},
	}

	out, err := NewRenderer().Render(doc)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Hosts", "Clusters"}, f.GetSheetList())

	value, err := f.GetCellValue("Hosts", "A2")
	require.NoError(t, err)
	assert.Equal(t, "esx01", value)

	value, err = f.GetCellValue("Clusters", "B1")
	require.NoError(t, err)
	assert.Equal(t, "Ratio", value)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Sheet3", sheetName("  ", 2))
	assert.Equal(t, "a-b", sheetName("a/b", 0))
	assert.Len(t, sheetName("this title is much longer than excel allows for sheets", 0), 31)
}
