// Package globe describes the clickable world map regions. Picking a region
// starts a new adventure about it.
package globe

import "strings"

// ViewBox is the SVG coordinate space the region paths are drawn in
const ViewBox = "0 0 800 400"

// Region is one clickable area of the map
type Region struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
}

var regions = []Region{
	{ID: "north-america", Name: "North America", Path: "M180 80 L220 70 L260 100 L240 180 L180 180 L150 140 Z"},
	{ID: "south-america", Name: "South America", Path: "M250 200 L300 220 L280 320 L240 300 L230 240 Z"},
	{ID: "europe", Name: "Europe", Path: "M400 80 L460 70 L480 120 L440 130 L410 110 Z"},
	{ID: "africa", Name: "Africa", Path: "M410 140 L480 150 L520 220 L480 300 L420 280 L390 200 Z"},
	{ID: "asia", Name: "Asia", Path: "M480 60 L650 60 L750 140 L700 240 L550 220 L500 130 Z"},
	{ID: "australia", Name: "Australia", Path: "M650 260 L720 270 L730 320 L660 330 Z"},
}

// Regions returns every region in drawing order
func Regions() []Region {
	return append([]Region(nil), regions...)
}

// Lookup finds a region by id, ignoring case
func Lookup(id string) (Region, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, r := range regions {
		if r.ID == id {
			return r, true
		}
	}
	return Region{}, false
}

// Topic is the adventure topic requested when the region is picked
func (r Region) Topic() string {
	return r.Name
}
