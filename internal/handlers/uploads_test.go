package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ozerpan/ercom-sync/internal/reconcile"
)

func TestParseUploadName(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		category string
		wantErr  bool
	}{
		{"S2401_mly.xlsx", "S2401", "mly", false},
		{"OPT77_opt.xls", "OPT77", "opt", false},
		{"OPT77_OPT1.xlsx", "OPT77", "opt1", false},
		{"S2401_mly.csv", "", "", true},
		{"S2401.xlsx", "", "", true},
		{"_mly.xlsx", "", "", true},
	}
	for _, tt := range tests {
		code, category, err := parseUploadName(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("parseUploadName(%q): expected error, got %q/%q", tt.name, code, category)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parseUploadName(%q): %v", tt.name, err)
		}
		if code != tt.code || category != tt.category {
			t.Fatalf("parseUploadName(%q) = %q/%q, want %q/%q", tt.name, code, category, tt.code, tt.category)
		}
	}
}

func TestPassErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&reconcile.OrderNotFoundError{OrderNo: "S2401"}, http.StatusNotFound},
		{&reconcile.BOMNotFoundError{ItemCode: "S2401-1"}, http.StatusNotFound},
		{&reconcile.MachineNotFoundError{OptNo: "77"}, http.StatusNotFound},
		{fmt.Errorf("open file: %w", &reconcile.FileFormatError{Reason: "not a workbook"}), http.StatusBadRequest},
		{&reconcile.MissingColumnError{Column: "Stok Kodu", Sheet: "Sheet1"}, http.StatusBadRequest},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := passErrorStatus(tt.err); got != tt.want {
			t.Fatalf("passErrorStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestGetHealth(t *testing.T) {
	s := &Server{}
	rec := httptest.NewRecorder()
	s.GetHealth(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestPostUploadsRejectsNonMultipart(t *testing.T) {
	s := &Server{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	s.PostUploads(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid_content_type") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestPostUploadsRejectsBadFilename(t *testing.T) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "siparis.txt")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("not a workbook")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	s := &Server{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	s.PostUploads(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid_filename") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestPostUploadsRejectsMissingFilePart(t *testing.T) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("note", "no file here"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	s := &Server{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	s.PostUploads(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "missing_file") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
