package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/kubev2v/vcenter-toolkit/internal/report/csv"
	"github.com/kubev2v/vcenter-toolkit/internal/report/html"
	"github.com/kubev2v/vcenter-toolkit/internal/report/types"
	"github.com/kubev2v/vcenter-toolkit/internal/report/xlsx"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"
	"sigs.k8s.io/yaml"
)

const (
	tableFormat = string(types.FormatTable)
	jsonFormat  = string(types.FormatJSON)
	yamlFormat  = string(types.FormatYAML)
	csvFormat   = string(types.FormatCSV)
	htmlFormat  = string(types.FormatHTML)
	xlsxFormat  = string(types.FormatXLSX)
)

var legalOutputTypes = []string{tableFormat, jsonFormat, yamlFormat, csvFormat, htmlFormat, xlsxFormat}

func bindOutputFlags(fs *pflag.FlagSet, output, file *string) {
	fs.StringVarP(output, "output", "o", *output,
		fmt.Sprintf("Output format. One of: (%s).", strings.Join(legalOutputTypes, ", ")))
	fs.StringVarP(file, "file", "f", *file, "Write the report to a file instead of stdout")
}

func validateOutputFormat(output string) error {
	if !funk.Contains(legalOutputTypes, output) {
		return fmt.Errorf("output format must be one of (%s)", strings.Join(legalOutputTypes, ", "))
	}
	return nil
}

// writeReport renders and writes a command report. The structured formats
// (json, yaml) marshal the typed report; the tabular ones (table, csv, html,
// xlsx) render the document form.
func writeReport(report interface{}, doc *types.Document, format, file string) error {
	var out []byte
	var err error

	switch format {
	case jsonFormat:
		out, err = json.MarshalIndent(report, "", "  ")
		if err == nil {
			out = append(out, '\n')
		}
	case yamlFormat:
		out, err = yaml.Marshal(report)
	case tableFormat:
		out = renderTable(doc)
	case csvFormat:
		out, err = csv.NewRenderer().Render(doc)
	case htmlFormat:
		out, err = html.NewRenderer().Render(doc)
	case xlsxFormat:
		if file == "" {
			return fmt.Errorf("xlsx output requires --file")
		}
		out, err = xlsx.NewRenderer().Render(doc)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
	if err != nil {
		return err
	}

	if file != "" {
		return os.WriteFile(file, out, 0o644)
	}
	_, err = os.Stdout.Write(out)
	return err
}

func renderTable(doc *types.Document) []byte {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 8, 2, ' ', 0)

	for i, section := range doc.Sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if section.Title != "" {
			fmt.Fprintln(w, strings.ToUpper(section.Title))
		}
		if len(section.Headers) > 0 {
			fmt.Fprintln(w, strings.Join(section.Headers, "\t"))
		}
		for _, row := range section.Rows {
			fmt.Fprintln(w, strings.Join(row, "\t"))
		}
	}
	_ = w.Flush()
	return buf.Bytes()
}
