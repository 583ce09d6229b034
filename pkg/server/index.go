package server

import (
	"html/template"
	"net/http"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>cardfan preview</title>
<style>
body { background: #1c1c1e; color: #f2f2f7; font: 14px -apple-system, sans-serif; text-align: center; }
input[type=range] { width: {{.Width}}px; }
</style>
</head>
<body>
<img id="frame" src="/frame.svg?page=0" width="{{.Width}}" height="{{.Height}}" alt="fan">
<p><input id="offset" type="range" min="0" max="{{.MaxOffset}}" step="any" value="0"></p>
<p id="info">page 0</p>
<script>
const slider = document.getElementById("offset");
slider.addEventListener("input", () => {
  const off = parseFloat(slider.value);
  document.getElementById("frame").src = "/frame.svg?offset=" + off;
  document.getElementById("info").textContent = "page " + (off / {{.PageWidth}}).toFixed(2);
});
</script>
</body>
</html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	geo := s.deck.Geometry()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = indexTemplate.Execute(w, map[string]any{
		"Width":     s.deck.Fan.ViewWidth,
		"Height":    s.deck.Fan.ViewHeight,
		"MaxOffset": geo.MaxOffset(),
		"PageWidth": geo.PageWidth,
	})
}
