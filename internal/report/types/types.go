// Package types defines the tabular document shape shared by all report
// renderers.
package types

import "time"

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatCSV   Format = "csv"
	FormatHTML  Format = "html"
	FormatXLSX  Format = "xlsx"
)

// Section is one titled table within a document.
type Section struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Document is the renderer-independent form every command report is folded
// into before formatting.
type Document struct {
	Title       string
	GeneratedAt time.Time
	Sections    []Section
}

// Renderer turns a document into one output format. Binary formats (xlsx)
// return raw bytes; text formats return UTF-8.
type Renderer interface {
	SupportedFormat() Format
	Render(doc *Document) ([]byte, error)
}
