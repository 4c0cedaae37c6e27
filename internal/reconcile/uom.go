package reconcile

import "strings"

// uomMap translates the unit spellings found in legacy exports to the
// canonical unit names used on item masters. Anything unknown collapses
// to "Other" rather than failing the row.
var uomMap = map[string]string{
	"mtül":  "Mtul",
	"adet":  "Adet",
	"m²":    "Square Meter",
	"kg":    "Kilogram",
	"litre": "Litre",
	"kutu":  "Box",
	"tane":  "Tane",
}

// CanonicalUnit maps a free-text unit label to its canonical name.
func CanonicalUnit(label string) string {
	if uom, ok := uomMap[strings.ToLower(strings.TrimSpace(label))]; ok {
		return uom
	}
	return "Other"
}
