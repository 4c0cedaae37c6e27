package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Defaults carries the company-level parameters a reconciliation pass
// needs. They are passed explicitly into every pass so runs are
// reproducible without ambient state.
type Defaults struct {
	Company          string
	CompanyAbbr      string
	BuyingPriceList  string
	RawMaterialGroup string
	TaxAccountName   string
	TaxAccountNumber string
	TaxRate          decimal.Decimal
	TaxCurrency      string
}

// TaxParentAccount returns the ledger parent under which the tax account
// is created, e.g. "391 - HESAPLANAN KDV - OZ".
func (d Defaults) TaxParentAccount() string {
	return fmt.Sprintf("391 - HESAPLANAN KDV - %s", d.CompanyAbbr)
}

type Config struct {
	Addr               string
	DatabaseURL        string
	ErcomDSN           string
	LogDir             string
	Env                string
	UploadMaxFileBytes int64
	ItemSyncLimit      int
	TesDetaySyncLimit  int
	ReadHeaderTimeout  time.Duration
	WriteTimeout       time.Duration
	Defaults           Defaults
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Addr:               getEnv("API_ADDR", ":8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		ErcomDSN:           os.Getenv("ERCOM_DSN"),
		LogDir:             getEnv("SYNC_LOG_DIR", "./logs"),
		Env:                getEnv("APP_ENV", "dev"),
		UploadMaxFileBytes: int64(getEnvInt("UPLOAD_MAX_FILE_MB", 25)) * 1024 * 1024,
		ItemSyncLimit:      getEnvInt("ITEM_SYNC_LIMIT", 3000),
		TesDetaySyncLimit:  getEnvInt("TESDETAY_SYNC_LIMIT", 100),
		ReadHeaderTimeout:  time.Duration(getEnvInt("API_READ_HEADER_TIMEOUT_SEC", 5)) * time.Second,
		WriteTimeout:       time.Duration(getEnvInt("API_WRITE_TIMEOUT_SEC", 300)) * time.Second,
		Defaults: Defaults{
			Company:          getEnv("DEFAULT_COMPANY", "Ozerpan"),
			CompanyAbbr:      getEnv("DEFAULT_COMPANY_ABBR", "OZ"),
			BuyingPriceList:  getEnv("BUYING_PRICE_LIST", "Standard Selling"),
			RawMaterialGroup: getEnv("RAW_MATERIAL_GROUP", "Raw Material"),
			TaxAccountName:   getEnv("TAX_ACCOUNT_NAME", "ERCOM HESAPLANAN KDV 20"),
			TaxAccountNumber: getEnv("TAX_ACCOUNT_NUMBER", "391.99"),
			TaxRate:          decimal.NewFromInt(int64(getEnvInt("TAX_RATE", 20))),
			TaxCurrency:      getEnv("TAX_CURRENCY", "TRY"),
		},
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.ErcomDSN == "" {
		return Config{}, fmt.Errorf("ERCOM_DSN is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}
