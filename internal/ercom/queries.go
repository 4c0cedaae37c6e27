package ercom

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a lookup matches no legacy row.
var ErrNotFound = errors.New("ercom: not found")

// Order is a sales order header from dbsiparis.
type Order struct {
	SiparisNo  string
	CariKod    string
	CariUnvan  string
	SipTarihi  *time.Time
	SevkTarihi *time.Time
}

// GetOrder fetches the order header for an order number. When the legacy
// table holds several rows for the same number the first one wins.
func (c *Client) GetOrder(ctx context.Context, orderNo string) (Order, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT SIPARISNO, CARIKOD, CARIUNVAN, SIPTARIHI, SEVKTARIHI
		FROM dbsiparis WHERE SIPARISNO = ? LIMIT 1`, orderNo)

	var o Order
	var cariKod, cariUnvan sql.NullString
	var sip, sevk sql.NullTime
	err := row.Scan(&o.SiparisNo, &cariKod, &cariUnvan, &sip, &sevk)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, fmt.Errorf("query dbsiparis %s: %w", orderNo, err)
	}
	o.CariKod = cariKod.String
	o.CariUnvan = cariUnvan.String
	if sip.Valid {
		o.SipTarihi = &sip.Time
	}
	if sevk.Valid {
		o.SevkTarihi = &sevk.Time
	}
	return o, nil
}

// Position is one ordered product line from dbpoz.
type Position struct {
	PozID     int64
	Sayac     int64
	SiparisNo string
	PozNo     int64
	Genislik  float64
	Yukseklik float64
	Adet      float64
	Seri      string
	Renk      string
	Tutar     float64
	Aciklama  string
	Notlar    string
}

const pozColumns = `PozID, SAYAC, SIPARISNO, POZNO, GENISLIK, YUKSEKLIK, ADET,
	SERI, RENK, TUTAR, ACIKLAMA, NOTLAR`

func scanPositions(rows *sql.Rows) ([]Position, error) {
	var out []Position
	for rows.Next() {
		var p Position
		var seri, renk, aciklama, notlar sql.NullString
		var genislik, yukseklik, adet, tutar sql.NullFloat64
		err := rows.Scan(&p.PozID, &p.Sayac, &p.SiparisNo, &p.PozNo,
			&genislik, &yukseklik, &adet, &seri, &renk, &tutar, &aciklama, &notlar)
		if err != nil {
			return nil, fmt.Errorf("scan dbpoz row: %w", err)
		}
		p.Genislik = genislik.Float64
		p.Yukseklik = yukseklik.Float64
		p.Adet = adet.Float64
		p.Tutar = tutar.Float64
		p.Seri = seri.String
		p.Renk = renk.String
		p.Aciklama = aciklama.String
		p.Notlar = notlar.String
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListPositions returns every position of one order.
func (c *Client) ListPositions(ctx context.Context, orderNo string) ([]Position, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT `+pozColumns+` FROM dbpoz WHERE SIPARISNO = ?`, orderNo)
	if err != nil {
		return nil, fmt.Errorf("query dbpoz for %s: %w", orderNo, err)
	}
	defer rows.Close()
	return scanPositions(rows)
}

// ListPositionsRecent returns the newest positions across all orders,
// newest first. The seed sync walks this window.
func (c *Client) ListPositionsRecent(ctx context.Context, limit int) ([]Position, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT `+pozColumns+` FROM dbpoz ORDER BY PozID DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent dbpoz: %w", err)
	}
	defer rows.Close()
	return scanPositions(rows)
}

// MachineNumber looks up which machine an optimization run was cut on.
func (c *Client) MachineNumber(ctx context.Context, otoNo string) (int, error) {
	row := c.db.QueryRowContext(ctx, `SELECT MAKINA FROM dbtes WHERE OTONO = ? LIMIT 1`, otoNo)
	var machine sql.NullInt64
	if err := row.Scan(&machine); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("query dbtes %s: %w", otoNo, err)
	}
	return int(machine.Int64), nil
}

// TesDetayRow is one part occurrence from dbtesdetay.
type TesDetayRow struct {
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
}

// ListTesDetay returns the newest part occurrences, newest run first.
func (c *Client) ListTesDetay(ctx context.Context, limit int) ([]TesDetayRow, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT SAYAC, OTONO, SIPARISNO, CARIKOD, POZNO, STOKKODU, MODEL,
		       OLCU, EKSEN, YUKSEKLIK, POZISYON, ADET, MONTAJYERI, KASANO,
		       YERNO, KANATNO, ARABANO, RC, PROGRAMNO, ISLEM, BAYIADI, ACIKLAMA
		FROM dbtesdetay ORDER BY OTONO DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query dbtesdetay: %w", err)
	}
	defer rows.Close()

	var out []TesDetayRow
	for rows.Next() {
		var (
			td TesDetayRow

			otoNo, siparisNo, cariKod, pozNo, stokKodu, model sql.NullString
			pozisyon, montajYeri, kasaNo, kanatNo, rc         sql.NullString
			programNo, islem, bayiAdi, aciklama               sql.NullString
			olcu, eksen, yukseklik, adet                      sql.NullFloat64
			yerNo, arabaNo                                    sql.NullInt64
		)
		err := rows.Scan(&td.Sayac, &otoNo, &siparisNo, &cariKod, &pozNo, &stokKodu, &model,
			&olcu, &eksen, &yukseklik, &pozisyon, &adet, &montajYeri, &kasaNo,
			&yerNo, &kanatNo, &arabaNo, &rc, &programNo, &islem, &bayiAdi, &aciklama)
		if err != nil {
			return nil, fmt.Errorf("scan dbtesdetay row: %w", err)
		}
		td.OtoNo, td.SiparisNo, td.CariKod = otoNo.String, siparisNo.String, cariKod.String
		td.PozNo, td.StokKodu, td.Model = pozNo.String, stokKodu.String, model.String
		td.Olcu, td.Eksen, td.Yukseklik, td.Adet = olcu.Float64, eksen.Float64, yukseklik.Float64, adet.Float64
		td.Pozisyon, td.MontajYeri, td.KasaNo = pozisyon.String, montajYeri.String, kasaNo.String
		td.YerNo, td.ArabaNo = yerNo.Int64, arabaNo.Int64
		td.KanatNo, td.RC, td.ProgramNo, td.Islem = kanatNo.String, rc.String, programNo.String, islem.String
		td.BayiAdi, td.Aciklama = bayiAdi.String, aciklama.String
		out = append(out, td)
	}
	return out, rows.Err()
}

// CariRow is a dealer account from dbcari.
type CariRow struct {
	Kod       string
	Adi       string
	Grup      string
	Notlar    string
	VDairesi  string
	VergiNo   string
	Adres1    string
	Adres2    string
	Sehir     string
	PostaKodu string
	Email     string
	Telefon1  string
	Telefon2  string
	Faks      string
}

// ListCustomers returns every dealer account.
func (c *Client) ListCustomers(ctx context.Context) ([]CariRow, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT KOD, ADI, GRUP, NOTLAR, VDAIRESI, VERGINO, ADRES1, ADRES2,
		       SEHIR, POSTAKODU, EMAIL, TELEFON1, TELEFON2, FAKS
		FROM dbcari`)
	if err != nil {
		return nil, fmt.Errorf("query dbcari: %w", err)
	}
	defer rows.Close()

	var out []CariRow
	for rows.Next() {
		var cols [14]sql.NullString
		dests := make([]any, len(cols))
		for i := range cols {
			dests[i] = &cols[i]
		}
		if err := rows.Scan(dests...); err != nil {
			return nil, fmt.Errorf("scan dbcari row: %w", err)
		}
		out = append(out, CariRow{
			Kod: cols[0].String, Adi: cols[1].String, Grup: cols[2].String,
			Notlar: cols[3].String, VDairesi: cols[4].String, VergiNo: cols[5].String,
			Adres1: cols[6].String, Adres2: cols[7].String, Sehir: cols[8].String,
			PostaKodu: cols[9].String, Email: cols[10].String, Telefon1: cols[11].String,
			Telefon2: cols[12].String, Faks: cols[13].String,
		})
	}
	return out, rows.Err()
}
