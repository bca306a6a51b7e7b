// Package metric holds the static metric key table and the per-key
// exponentially smoothed state fed by the ingest loop.
package metric

import "fmt"

// Key names one smoothed quantity. The set of valid keys is fixed at
// compile time; see Defs.
type Key string

const (
	BSP Key = "BSP" // boat speed through water
	HDG Key = "HDG" // true heading
	SOG Key = "SOG" // speed over ground
	COG Key = "COG" // course over ground
	AWA Key = "AWA" // apparent wind angle
	AWS Key = "AWS" // apparent wind speed
	TWA Key = "TWA" // true wind angle
	TWS Key = "TWS" // true wind speed
	TWD Key = "TWD" // true wind direction
	DPT Key = "DPT" // depth below transducer
	VMG Key = "VMG" // velocity made good
)

// Def describes how one key is labelled and rendered.
type Def struct {
	Label  string
	Unit   string
	Format string // printf verb for the numeric part
}

// Defs is the process-wide metric table. It never changes at runtime.
var Defs = map[Key]Def{
	BSP: {Label: "Boat Speed", Unit: "kn", Format: "%.1f"},
	HDG: {Label: "Heading", Unit: "°T", Format: "%03.0f"},
	SOG: {Label: "SOG", Unit: "kn", Format: "%.1f"},
	COG: {Label: "COG", Unit: "°T", Format: "%03.0f"},
	AWA: {Label: "App Wind Angle", Unit: "°", Format: "%.0f"},
	AWS: {Label: "App Wind Speed", Unit: "kn", Format: "%.1f"},
	TWA: {Label: "True Wind Angle", Unit: "°", Format: "%.0f"},
	TWS: {Label: "True Wind Speed", Unit: "kn", Format: "%.1f"},
	TWD: {Label: "True Wind Dir", Unit: "°T", Format: "%03.0f"},
	DPT: {Label: "Depth", Unit: "m", Format: "%.1f"},
	VMG: {Label: "VMG", Unit: "kn", Format: "%.1f"},
}

// Format renders a smoothed value the way the dashboard and the push
// boundary expect it: formatted number followed by the unit suffix.
func Format(key Key, v float64) string {
	def, ok := Defs[key]
	if !ok {
		return fmt.Sprintf("%.2f", v)
	}
	return fmt.Sprintf(def.Format, v) + def.Unit
}
