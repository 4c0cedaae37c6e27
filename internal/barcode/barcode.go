// Package barcode renders the fixed-width labels printed for shop-floor
// part occurrences. The layout is what the factory scanners were
// programmed against, so every byte position is load-bearing.
package barcode

import "fmt"

const (
	// KANAT and KASA profiles are cut shorter than the nominal
	// measurement by this many millimeters.
	modelAdjustment = 6

	padLength         = 2
	measurementLength = 4
)

// Part carries the legacy fields a label is derived from.
type Part struct {
	ArabaNo  int64
	YerNo    int64
	StokKodu string
	RC       string
	Model    string
	Olcu     float64
	Eksen    float64
}

// Encode renders the label:
//
//	K<araba:2><yer:2><stok kodu>   <rc><olcu:4>00<eksen:4>00
//
// The vehicle number pads with a trailing zero, the slot number with a
// leading zero. Measurements are truncated to whole millimeters, padded
// to four digits, and adjusted down for KANAT and KASA models.
func Encode(p Part) string {
	return fmt.Sprintf("K%s%s%s   %s%s00%s00",
		padTrailing(p.ArabaNo),
		padLeading(p.YerNo),
		p.StokKodu,
		p.RC,
		measurement(p.Olcu, p.Model),
		measurement(p.Eksen, p.Model))
}

func padTrailing(v int64) string {
	s := fmt.Sprintf("%d", v)
	if len(s) < padLength {
		return s + "0"
	}
	return s
}

func padLeading(v int64) string {
	s := fmt.Sprintf("%d", v)
	if len(s) < padLength {
		return "0" + s
	}
	return s
}

func measurement(v float64, model string) string {
	if model == "KANAT" || model == "KASA" {
		v -= modelAdjustment
	}
	if v < 0 {
		v = 0
	}
	return fmt.Sprintf("%0*d", measurementLength, int(v))
}
