package accident

import (
	"embed"
	"html/template"
)

//go:embed templates/map.html
var templateFS embed.FS

var mapTemplate = template.Must(template.ParseFS(templateFS, "templates/map.html"))

type mapView struct {
	AccidentID string
	Name       string
	Status     Status
	Hospital   string
	Lat        float64
	Lon        float64
	MapURL     string
}
