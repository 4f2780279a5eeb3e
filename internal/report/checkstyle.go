package report

import (
	"io"
	"strconv"

	"github.com/beevik/etree"
)

// CheckstyleReporter writes issues in the checkstyle XML format understood
// by CI annotation tools.
type CheckstyleReporter struct{}

// Report implements Reporter. Files appear in order of their first issue.
func (r *CheckstyleReporter) Report(w io.Writer, issues []Issue) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("checkstyle")
	root.CreateAttr("version", "4.3")

	files := map[string]*etree.Element{}
	for _, is := range issues {
		file, ok := files[is.Path]
		if !ok {
			file = root.CreateElement("file")
			file.CreateAttr("name", is.Path)
			files[is.Path] = file
		}

		line, col := is.Position()
		e := file.CreateElement("error")
		e.CreateAttr("line", strconv.Itoa(line))
		e.CreateAttr("column", strconv.Itoa(col))
		e.CreateAttr("severity", severityLabel(is.Severity))
		e.CreateAttr("message", is.Summary())
		e.CreateAttr("source", "mdlint."+is.Diagnostic.Rule)
	}

	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}
