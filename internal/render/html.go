package render

import (
	"html/template"
	"io"

	"bjj-foundation/internal/catalog"
)

// Selector is one filter dropdown on the HTML page.
type Selector struct {
	Key      string
	Label    string
	Options  []catalog.Option
	Selected string
}

type View struct {
	Page      Page
	Query     string
	Selectors []Selector
}

var selectorLabels = []struct {
	key   string
	label string
}{
	{"category", "All Categories"},
	{"guard", "All Guards"},
	{"pass", "All Passes"},
	{"sweep", "All Sweeps"},
	{"position", "All Positions"},
	{"submission", "All Submissions"},
	{"takedown", "All Takedowns"},
	{"channel", "All Channels"},
	{"athlete", "All Athletes"},
}

// NewView pairs a page with the selectors for idx, marking the values set in state.
func NewView(page Page, idx catalog.FacetIndex, state catalog.FilterState) View {
	state = state.Normalize()
	v := View{Page: page, Query: state.SearchQuery}
	for _, sl := range selectorLabels {
		v.Selectors = append(v.Selectors, Selector{
			Key:      sl.key,
			Label:    sl.label,
			Options:  idx.Options(sl.key),
			Selected: selectedValue(state, sl.key),
		})
	}
	return v
}

func selectedValue(state catalog.FilterState, key string) string {
	switch key {
	case "channel":
		return state.Channel
	case "athlete":
		return state.Athlete
	}
	if ff, ok := catalog.LookupFacetFilter(key); ok {
		return ff.Value(&state)
	}
	return ""
}

var pageTemplates = template.Must(template.New("root").Parse(pageTpl))

func WriteHTML(w io.Writer, v View) error {
	return pageTemplates.ExecuteTemplate(w, "page", v)
}

func WriteErrorHTML(w io.Writer, message string) error {
	return pageTemplates.ExecuteTemplate(w, "error", message)
}

const pageTpl = `{{define "head"}}<!doctype html>
<html lang="en">
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1" />
<title>BJJ Foundation</title>
<style>
body{font-family:system-ui,-apple-system,Segoe UI,Roboto;max-width:1200px;margin:0 auto;padding:1rem;background:#111;color:#eee}
form{display:flex;flex-wrap:wrap;gap:8px;margin-bottom:1rem}
input,select,button{padding:6px;border-radius:6px;border:1px solid #444;background:#222;color:#eee}
.grid{display:grid;grid-template-columns:repeat(auto-fill,minmax(260px,1fr));gap:16px}
.video-card{background:#1b1b1b;border-radius:8px;overflow:hidden}
.video-card a{color:inherit;text-decoration:none}
.video-thumbnail{position:relative}
.video-thumbnail img{width:100%;display:block}
.language-flag{position:absolute;top:6px;right:6px}
.video-content{padding:8px}
.tag{display:inline-block;font-size:12px;padding:2px 6px;margin:2px;border-radius:10px;background:#333}
.results-hint,.results-count{margin:12px 0;color:#aaa}
.error{color:#e55;text-align:center}
</style>
{{end}}
{{define "page"}}{{template "head"}}
<h1>🥋 BJJ Foundation</h1>
<form method="get" action="/">
  <input type="search" name="q" value="{{.Query}}" placeholder="Search techniques..." />
  {{range .Selectors}}<select name="{{.Key}}">
    <option value="">{{.Label}}</option>
    {{$sel := .Selected}}{{range .Options}}<option value="{{.Value}}"{{if eq .Value $sel}} selected{{end}}>{{.Label}}</option>
    {{end}}</select>
  {{end}}<button type="submit">Filter</button>
  <a href="/">Reset</a>
</form>
<div class="results-count">{{.Page.Summary}}</div>
{{if not .Page.Cards}}<div class="no-results">No videos match your filters.</div>{{end}}
<div class="grid">
{{range .Page.Cards}}<div class="video-card"><a href="{{.Link}}" target="_blank" rel="noopener">
  <div class="video-thumbnail"><img src="{{.ThumbnailURL}}" alt="{{.Title}}" loading="lazy" />{{if .Flag}}<div class="language-flag">{{.Flag}}</div>{{end}}</div>
  <div class="video-content">
    <h3 class="video-title">{{.Title}}</h3>
    {{if .Views}}<div class="video-views">👁️ {{.Views}} views</div>{{end}}
    <div class="video-tags">{{range .Chips}}<span class="tag {{.Class}}">{{.Label}}</span>{{end}}</div>
  </div>
</a></div>
{{end}}</div>
{{if .Page.Hint}}<div class="results-hint">{{.Page.Hint}}</div>{{end}}
</html>
{{end}}
{{define "error"}}{{template "head"}}
<div class="error"><h3>⚠️ Error</h3><p>{{.}}</p></div>
</html>
{{end}}`
