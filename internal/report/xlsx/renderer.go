package xlsx

import (
	"fmt"
	"strings"

	"github.com/kubev2v/vcenter-toolkit/internal/report/types"
	"github.com/xuri/excelize/v2"
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) SupportedFormat() types.Format {
	return types.FormatXLSX
}

// Render writes one worksheet per document section.
func (r *Renderer) Render(doc *types.Document) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	for i, section := range doc.Sections {
		sheet := sheetName(section.Title, i)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, err
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, err
			}
		}

		row := 1
		if len(section.Headers) > 0 {
			if err := setRow(f, sheet, row, section.Headers); err != nil {
				return nil, err
			}
			row++
		}
		for _, dataRow := range section.Rows {
			if err := setRow(f, sheet, row, dataRow); err != nil {
				return nil, err
			}
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

// sheetName trims section titles to Excel's 31-character sheet name limit.
func sheetName(title string, index int) string {
	name := strings.TrimSpace(title)
	if name == "" {
		name = fmt.Sprintf("Sheet%d", index+1)
	}
	for _, c := range `:\/?*[]` {
		name = strings.ReplaceAll(name, string(c), "-")
	}
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}
