package web

import "html/template"

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    html, body { margin: 0; height: 100%; background: #000; }
    #video { width: 100%; height: 100%; }
    #menu { position: fixed; top: 1em; left: 1em; color: #eee; font: 14px monospace; white-space: pre; }
  </style>
</head>
<body>
  <video id="video" src="/video" controls autoplay>
    {{- if .Subtitles}}
    <track kind="subtitles" src="/subtitles" label="Subtitles" default>
    {{- end}}
  </video>
  <div id="menu"></div>
  <script src="/static/commands.js"></script>
</body>
</html>
`

var indexTemplate = template.Must(template.New("index_page").Parse(indexHTML))

type indexPage struct {
	Title     string
	Subtitles bool
}
