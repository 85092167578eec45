package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/sidimo/electomap/internal/domain"
	"github.com/sidimo/electomap/internal/pkg/logger"
)

// HTMLRenderer emits a self-contained interactive page: a Leaflet map,
// a candidate dropdown and hover tooltips. The selection-change rule
// (per-candidate min/max rescale, null regions in the no-data color) is
// mirrored client-side so the saved file stays interactive without a
// server.
type HTMLRenderer struct{}

func NewHTML() *HTMLRenderer {
	return &HTMLRenderer{}
}

type htmlData struct {
	ID             string
	Title          string
	TitlePrefix    string
	Width          int
	Height         int
	Active         string
	Candidates     []string
	CandidatesJSON template.JS
	Palette        template.JS
	GeoJSON        template.JS
	NoDataColor    string
}

func (r *HTMLRenderer) Render(_ context.Context, view *View) (*Widget, error) {
	// ConfigStd escapes < and > inside JSON strings; the blobs land in a
	// script element via template.JS, so a candidate or region name must
	// not be able to close it.
	paletteJSON, err := sonic.ConfigStd.Marshal(view.Scale.Palette)
	if err != nil {
		return nil, fmt.Errorf("marshal palette: %w", err)
	}
	candidates := view.Candidates
	if candidates == nil {
		candidates = []string{}
	}
	candidatesJSON, err := sonic.ConfigStd.Marshal(candidates)
	if err != nil {
		return nil, fmt.Errorf("marshal candidates: %w", err)
	}

	data := htmlData{
		ID:             uuid.NewString(),
		Title:          view.Title,
		TitlePrefix:    view.TitlePrefix,
		Width:          view.Width,
		Height:         view.Height,
		Active:         view.Active,
		Candidates:     candidates,
		CandidatesJSON: template.JS(candidatesJSON),
		Palette:        template.JS(paletteJSON),
		GeoJSON:        template.JS(view.GeoJSON),
		NoDataColor:    domain.NoDataColor,
	}

	var buf bytes.Buffer
	if err := widgetTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute widget template: %w", err)
	}

	return &Widget{ID: data.ID, HTML: buf.Bytes()}, nil
}

// Refresh is a no-op: the emitted page recomputes scale bounds in the
// browser on every dropdown change.
func (r *HTMLRenderer) Refresh(ctx context.Context, view *View) error {
	logger.Debugf(ctx, "html widget refresh for candidate %q handled client-side", view.Active)
	return nil
}

var widgetTemplate = template.Must(template.New("widget").Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="utf-8"/>
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css"/>
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>
  .electomap-widget { font-family: sans-serif; }
  .electomap-widget select { margin: 6px 0; }
</style>
</head>
<body>
<div class="electomap-widget" id="electomap-{{.ID}}">
  <h3 id="electomap-title-{{.ID}}">{{.Title}}</h3>
  <label>Choisir un candidat :
    <select id="electomap-select-{{.ID}}">
      {{- range .Candidates}}
      <option value="{{.}}"{{if eq . $.Active}} selected{{end}}>{{.}}</option>
      {{- end}}
    </select>
  </label>
  <div id="electomap-map-{{.ID}}" style="width:{{.Width}}px;height:{{.Height}}px"></div>
</div>
<script>
(function() {
  var data = {{.GeoJSON}};
  var palette = {{.Palette}};
  var candidates = {{.CandidatesJSON}};
  var active = {{.Active}};
  var titlePrefix = {{.TitlePrefix}};
  var noDataColor = {{.NoDataColor}};

  var map = L.map("electomap-map-{{.ID}}");
  L.tileLayer("https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png", {
    attribution: "&copy; OpenStreetMap contributors",
    opacity: 0.6
  }).addTo(map);

  function bounds(name) {
    var lo = null, hi = null;
    data.features.forEach(function(f) {
      var v = f.properties[name];
      if (v === null || v === undefined) { return; }
      if (lo === null || v < lo) { lo = v; }
      if (hi === null || v > hi) { hi = v; }
    });
    return [lo, hi];
  }

  function colorFor(v, lo, hi) {
    if (v === null || v === undefined) { return noDataColor; }
    if (lo === null || hi <= lo) { return palette[0]; }
    var pos = (v - lo) / (hi - lo);
    if (pos < 0) { pos = 0; }
    if (pos > 1) { pos = 1; }
    return palette[Math.floor(pos * (palette.length - 1))];
  }

  function share(f) {
    var v = f.properties[active];
    if (v === null || v === undefined) { return null; }
    var total = 0;
    candidates.forEach(function(c) {
      var cv = f.properties[c];
      if (cv !== null && cv !== undefined) { total += cv; }
    });
    if (total === 0) { return null; }
    return (100 * v / total).toFixed(1) + " %";
  }

  function tooltip(f) {
    var v = f.properties[active];
    var votes = (v === null || v === undefined) ? "pas de données" : v.toLocaleString("fr-FR");
    var html = "<b>" + f.properties["region"] + "</b><br/>Candidat : " + active + "<br/>Voix : " + votes;
    var s = share(f);
    if (s !== null) { html += "<br/>Part : " + s; }
    return html;
  }

  var range = bounds(active);
  var layer = L.geoJSON(data, {
    style: function(f) {
      return {
        color: "#000000",
        weight: 0.5,
        fillOpacity: 0.7,
        fillColor: colorFor(f.properties[active], range[0], range[1])
      };
    },
    onEachFeature: function(f, l) {
      l.bindTooltip(tooltip(f), { sticky: true });
    }
  }).addTo(map);
  if (data.features.length > 0) {
    map.fitBounds(layer.getBounds());
  } else {
    map.setView([20.0, -10.5], 5);
  }

  var select = document.getElementById("electomap-select-{{.ID}}");
  select.addEventListener("change", function() {
    active = select.value;
    range = bounds(active);
    layer.eachLayer(function(l) {
      l.setStyle({ fillColor: colorFor(l.feature.properties[active], range[0], range[1]) });
      l.unbindTooltip();
      l.bindTooltip(tooltip(l.feature), { sticky: true });
    });
    document.getElementById("electomap-title-{{.ID}}").textContent = titlePrefix + " : " + active;
  });
})();
</script>
</body>
</html>
`))
