package export

import (
	"html/template"
	"io"
	"time"
)

var printTmpl = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 24px; }
h1 { font-size: 18px; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #444; padding: 6px 8px; font-size: 12px; text-align: left; }
th { background: #eee; }
footer { margin-top: 16px; font-size: 10px; color: #666; }
</style>
</head>
<body onload="window.print()">
<h1>{{.Title}}</h1>
<table>
<thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
<footer>Generated {{.Generated}} &middot; {{len .Rows}} records</footer>
</body>
</html>
`))

// RenderHTML writes a self-printing table view of the matrix.
func RenderHTML(w io.Writer, m Matrix, title string) error {
	return printTmpl.Execute(w, struct {
		Title     string
		Headers   []string
		Rows      [][]string
		Generated string
	}{
		Title:     title,
		Headers:   m.Headers,
		Rows:      m.Rows,
		Generated: time.Now().Format("02-01-2006 15:04"),
	})
}
