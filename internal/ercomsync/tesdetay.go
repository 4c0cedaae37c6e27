package ercomsync

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ozerpan/ercom-sync/internal/barcode"
	"github.com/ozerpan/ercom-sync/internal/ercom"
	"github.com/ozerpan/ercom-sync/internal/store"
)

// SyncTesDetay mirrors the newest shop-floor part occurrences into the
// traceability table. Rows are append-only and keyed by the legacy
// sequence counter: a counter that is already stored is skipped, so the
// derived barcode never changes after first sync. A row whose cutting
// run has no machine mapping is stored with an empty machine name.
func (s *Syncer) SyncTesDetay(ctx context.Context, log *slog.Logger) (int, error) {
	rows, err := s.source.ListTesDetay(ctx, s.tesDetayLimit)
	if err != nil {
		return 0, err
	}

	synced := 0
	for _, row := range rows {
		exists, err := s.store.TesDetayExists(ctx, row.Sayac)
		if err != nil {
			return synced, err
		}
		if exists {
			continue
		}

		machineName := ""
		machineNo, err := s.source.MachineNumber(ctx, row.OtoNo)
		switch {
		case errors.Is(err, ercom.ErrNotFound):
			log.Warn("no machine mapping for run", "oto_no", row.OtoNo, "sayac", row.Sayac)
		case err != nil:
			return synced, err
		default:
			machineName = ercom.MachineName(machineNo)
		}

		td := newTesDetay(row)
		td.MakinaNo = machineName
		td.Barkod = barcode.Encode(barcode.Part{
			ArabaNo:  row.ArabaNo,
			YerNo:    row.YerNo,
			StokKodu: row.StokKodu,
			RC:       row.RC,
			Model:    row.Model,
			Olcu:     row.Olcu,
			Eksen:    row.Eksen,
		})

		if err := s.store.CreateTesDetay(ctx, td); err != nil {
			return synced, err
		}
		log.Info("record synchronized", "sayac", row.Sayac)
		synced++
	}

	log.Info("tes detay sync completed", "synced", synced)
	return synced, nil
}

func newTesDetay(row ercom.TesDetayRow) store.TesDetay {
	return store.TesDetay{
		Sayac:      row.Sayac,
		OtoNo:      row.OtoNo,
		SiparisNo:  row.SiparisNo,
		CariKod:    row.CariKod,
		PozNo:      row.PozNo,
		StokKodu:   row.StokKodu,
		Model:      row.Model,
		Olcu:       row.Olcu,
		Eksen:      row.Eksen,
		Yukseklik:  row.Yukseklik,
		Pozisyon:   row.Pozisyon,
		Adet:       row.Adet,
		MontajYeri: row.MontajYeri,
		KasaNo:     row.KasaNo,
		YerNo:      row.YerNo,
		KanatNo:    row.KanatNo,
		ArabaNo:    row.ArabaNo,
		RC:         row.RC,
		ProgramNo:  row.ProgramNo,
		Islem:      row.Islem,
		BayiAdi:    row.BayiAdi,
		Aciklama:   row.Aciklama,
	}
}
