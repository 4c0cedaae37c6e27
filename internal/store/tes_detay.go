package store

import (
	"context"
	"fmt"
)

// TesDetay is one shop-floor part occurrence mirrored from the legacy
// production table. Rows are append-only: once a sequence counter is
// stored it is never rewritten, so the derived barcode stays stable.
type TesDetay struct {
	Sayac      int64
	OtoNo      string
	SiparisNo  string
	CariKod    string
	PozNo      string
	StokKodu   string
	Model      string
	Olcu       float64
	Eksen      float64
	Yukseklik  float64
	Pozisyon   string
	Adet       float64
	MontajYeri string
	KasaNo     string
	YerNo      int64
	KanatNo    string
	ArabaNo    int64
	RC         string
	ProgramNo  string
	Islem      string
	BayiAdi    string
	Aciklama   string
	MakinaNo   string
	Barkod     string
}

func (s *Store) TesDetayExists(ctx context.Context, sayac int64) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tes_detay WHERE sayac = $1)`, sayac).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check tes detay %d: %w", sayac, err)
	}
	return exists, nil
}

func (s *Store) CreateTesDetay(ctx context.Context, td TesDetay) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tes_detay (sayac, oto_no, siparis_no, cari_kod, poz_no, stok_kodu, model,
			olcu, eksen, yukseklik, pozisyon, adet, montaj_yeri, kasa_no, yer_no, kanat_no,
			araba_no, rc, program_no, islem, bayi_adi, aciklama, makina_no, barkod)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24)`,
		td.Sayac, td.OtoNo, td.SiparisNo, td.CariKod, td.PozNo, td.StokKodu, td.Model,
		td.Olcu, td.Eksen, td.Yukseklik, td.Pozisyon, td.Adet, td.MontajYeri, td.KasaNo,
		td.YerNo, td.KanatNo, td.ArabaNo, td.RC, td.ProgramNo, td.Islem, td.BayiAdi,
		td.Aciklama, td.MakinaNo, td.Barkod)
	if err != nil {
		return fmt.Errorf("insert tes detay %d: %w", td.Sayac, err)
	}
	return nil
}
