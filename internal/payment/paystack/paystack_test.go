package paystack

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestInitializeTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/initialize" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test_abc" {
			t.Errorf("unexpected authorization header: %s", got)
		}
		var payload map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": true,
			"data": map[string]interface{}{
				"authorization_url": "https://checkout.paystack.com/abc123",
				"access_code":       "abc123",
				"reference":         payload["reference"],
			},
		})
	}))
	defer server.Close()

	client, err := NewClient(Config{SecretKey: "sk_test_abc", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	result, err := client.InitializeTransaction(context.Background(), InitializeInput{
		Email:      "customer@example.com",
		AmountKobo: 9800000,
		Reference:  "LGR17255312345670001",
	})
	if err != nil {
		t.Fatalf("InitializeTransaction failed: %v", err)
	}
	if result.AuthorizationURL == "" || result.Reference != "LGR17255312345670001" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestInitializeTransactionReferenceMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": true,
			"data":   map[string]interface{}{"reference": "OTHER"},
		})
	}))
	defer server.Close()

	client, _ := NewClient(Config{SecretKey: "sk_test_abc", BaseURL: server.URL})
	_, err := client.InitializeTransaction(context.Background(), InitializeInput{
		Email: "customer@example.com", AmountKobo: 100, Reference: "LGR1",
	})
	if !errors.Is(err, ErrResponseInvalid) {
		t.Fatalf("expected ErrResponseInvalid, got %v", err)
	}
}

func TestVerifyTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/verify/LGR1" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": true,
			"data": map[string]interface{}{
				"reference": "LGR1",
				"status":    "success",
				"amount":    9800000,
				"channel":   "card",
			},
		})
	}))
	defer server.Close()

	client, _ := NewClient(Config{SecretKey: "sk_test_abc", BaseURL: server.URL})
	result, err := client.VerifyTransaction(context.Background(), "LGR1")
	if err != nil {
		t.Fatalf("VerifyTransaction failed: %v", err)
	}
	if result.AmountKobo != 9800000 || result.Channel != "card" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestVerifyTransactionNotSuccessful(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": true,
			"data":   map[string]interface{}{"reference": "LGR1", "status": "abandoned"},
		})
	}))
	defer server.Close()

	client, _ := NewClient(Config{SecretKey: "sk_test_abc", BaseURL: server.URL})
	result, err := client.VerifyTransaction(context.Background(), "LGR1")
	if !errors.Is(err, ErrTransactionNotOK) {
		t.Fatalf("expected ErrTransactionNotOK, got %v", err)
	}
	if result == nil || result.Status != "abandoned" {
		t.Fatalf("expected abandoned result alongside error, got %+v", result)
	}
}

func TestNewClientRequiresSecret(t *testing.T) {
	if _, err := NewClient(Config{}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid, got %v", err)
	}
}
