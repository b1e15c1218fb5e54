package http

import "html/template"

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

// indexHTML reloads itself every five minutes; each load re-fetches both feeds.
const indexHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <meta http-equiv="refresh" content="300">
  <title>European Earthquakes (INGV)</title>
  <style>
    body {
      margin: 0;
      padding: 24px 32px;
      font-family: "Segoe UI", "Helvetica Neue", Arial, sans-serif;
      color: #1b1b1b;
      background: #fafafa;
    }
    h1 { margin: 0 0 8px; font-size: 22px; }
    .meta { font-size: 13px; color: #555; margin: 4px 0; }
    .note { font-size: 13px; color: #8a4b00; margin: 4px 0; }
    img { max-width: 100%; height: auto; margin-top: 16px; border: 1px solid #e1e1e1; background: #fff; }
    footer { margin-top: 24px; font-size: 12px; color: #777; }
  </style>
</head>
<body>
  <h1>European Earthquakes (INGV)</h1>
  <p class="meta">Data source: <a href="{{.SourceURL}}">{{.SourceTitle}}</a></p>
  {{- if .Fallback}}
  <p class="note">The regional feed returned no events; showing the USGS global weekly feed instead.</p>
  {{- end}}
  <p class="meta">Fetched locally at: {{.FetchedAt}} ({{.EventCount}} events)</p>
  <img src="{{.ImageSrc}}" alt="Earthquake magnitude charts" />
  <footer>Source code: <a href="{{.ProjectURL}}">{{.ProjectURL}}</a></footer>
</body>
</html>
`
