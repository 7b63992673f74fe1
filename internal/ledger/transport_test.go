package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDirectTransportParsesSuccessResponse(t *testing.T) {
	var gotAction string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Action string          `json:"action"`
			Data   json.RawMessage `json:"data"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request failed: %v", err)
		}
		gotAction = payload.Action
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	}))
	defer server.Close()

	transports := NewHTTPTransports(server.URL, 5*time.Second)
	if err := transports[0].Send(context.Background(), testRecord()); err != nil {
		t.Fatalf("direct send failed: %v", err)
	}
	if gotAction != "addSale" {
		t.Fatalf("expected action addSale, got %q", gotAction)
	}
}

func TestDirectTransportRejectedByLedger(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": "duplicate id"})
	}))
	defer server.Close()

	transports := NewHTTPTransports(server.URL, 5*time.Second)
	err := transports[0].Send(context.Background(), testRecord())
	if !errors.Is(err, ErrLedgerRejected) {
		t.Fatalf("expected ErrLedgerRejected, got %v", err)
	}
}

func TestDirectTransportNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	transports := NewHTTPTransports(server.URL, 5*time.Second)
	err := transports[0].Send(context.Background(), testRecord())
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
}

func TestDegradedTransportIgnoresResponse(t *testing.T) {
	// 远端返回 5xx，发后即忘传输仍视为已提交
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	transports := NewHTTPTransports(server.URL, 5*time.Second)
	if err := transports[1].Send(context.Background(), testRecord()); err != nil {
		t.Fatalf("degraded send failed: %v", err)
	}
}

func TestFormTransportEncodesRecordAsFields(t *testing.T) {
	var form map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form failed: %v", err)
		}
		form = r.PostForm
	}))
	defer server.Close()

	transports := NewHTTPTransports(server.URL, 5*time.Second)
	record := testRecord()
	if err := transports[2].Send(context.Background(), record); err != nil {
		t.Fatalf("form send failed: %v", err)
	}

	// 接收端无需解析 JSON 即可重建记录
	checks := map[string]string{
		"action":            "addSale",
		"id":                record.ID,
		"total":             "98000",
		"item_count":        "1",
		"item_0_name":       "Groundnut Oil 25L",
		"item_0_quantity":   "2",
		"item_0_unit_price": "48000",
	}
	for key, want := range checks {
		values, ok := form[key]
		if !ok || len(values) == 0 {
			t.Fatalf("missing form field %q", key)
		}
		if values[0] != want {
			t.Fatalf("form field %q = %q, want %q", key, values[0], want)
		}
	}
}

func TestTransportsFailFastOnUnreachableEndpoint(t *testing.T) {
	transports := NewHTTPTransports("http://127.0.0.1:1", 500*time.Millisecond)
	for _, transport := range transports {
		if err := transport.Send(context.Background(), testRecord()); !errors.Is(err, ErrRequestFailed) {
			t.Fatalf("transport %s: expected ErrRequestFailed, got %v", transport.Kind(), err)
		}
	}
}
