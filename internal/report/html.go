package report

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdownConverter = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

const htmlPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Benchmark report</title>
<style>
body { font-family: sans-serif; margin: 2em auto; max-width: 72em; }
table { border-collapse: collapse; margin: 1em 0; }
th, td { border: 1px solid #ccc; padding: 0.3em 0.7em; text-align: right; }
th:first-child, td:first-child { text-align: left; }
</style>
</head>
<body>
%s</body>
</html>
`

// HTML converts a rendered markdown report into a standalone HTML page.
func HTML(markdown string) ([]byte, error) {
	var body bytes.Buffer
	if err := markdownConverter.Convert([]byte(markdown), &body); err != nil {
		return nil, fmt.Errorf("rendering HTML report: %w", err)
	}
	return []byte(fmt.Sprintf(htmlPage, body.String())), nil
}
