package payments

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestByName(t *testing.T) {
	for _, name := range []string{GatewayBkash, GatewaySSLCommerz} {
		gw, err := ByName(name)
		if err != nil {
			t.Fatalf("ByName(%q) returned error: %v", name, err)
		}
		if gw.Name() != name {
			t.Errorf("gateway name = %q, want %q", gw.Name(), name)
		}
	}
	if _, err := ByName("stripe"); err == nil {
		t.Error("expected an error for an unknown gateway name")
	}
}

func TestBkashCreateSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tokenized/checkout/token/grant":
			json.NewEncoder(w).Encode(map[string]string{"id_token": "token-1"})
		case "/tokenized/checkout/create":
			if r.Header.Get("Authorization") != "token-1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{
				"paymentID":  "TR0011abc",
				"bkashURL":   "https://sandbox.pay/TR0011abc",
				"statusCode": "0000",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()
	t.Setenv("BKASH_API_BASE_URL", server.URL)

	session, err := NewBkashGateway().CreateSession(900, "KW-20260829-7QX2MB", "https://example.com/cb")
	if err != nil {
		t.Fatalf("CreateSession returned error: %v", err)
	}
	if session.SessionID != "TR0011abc" {
		t.Errorf("session id = %q, want TR0011abc", session.SessionID)
	}
	if session.RedirectURL != "https://sandbox.pay/TR0011abc" {
		t.Errorf("redirect url = %q", session.RedirectURL)
	}
}

func TestBkashVerify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tokenized/checkout/token/grant":
			json.NewEncoder(w).Encode(map[string]string{"id_token": "token-1"})
		case "/tokenized/checkout/payment/status":
			json.NewEncoder(w).Encode(map[string]string{
				"paymentID":         "TR0011abc",
				"trxID":             "8FJ4K2L1",
				"transactionStatus": "Completed",
				"amount":            "900.00",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()
	t.Setenv("BKASH_API_BASE_URL", server.URL)

	result, err := NewBkashGateway().Verify("TR0011abc")
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !result.Paid {
		t.Error("expected a Completed transaction to report Paid")
	}
	if result.Amount != 900 {
		t.Errorf("amount = %v, want 900", result.Amount)
	}
}

func TestBkashVerifyStatusFinality(t *testing.T) {
	cases := []struct {
		status    string
		wantPaid  bool
		wantFinal bool
	}{
		{"Completed", true, true},
		{"Initiated", false, false},
		{"Cancelled", false, true},
		{"Failed", false, true},
	}

	for _, tc := range cases {
		t.Run(tc.status, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/tokenized/checkout/token/grant":
					json.NewEncoder(w).Encode(map[string]string{"id_token": "token-1"})
				case "/tokenized/checkout/payment/status":
					json.NewEncoder(w).Encode(map[string]string{
						"paymentID":             "TR0011abc",
						"transactionStatus":     tc.status,
						"amount":                "900.00",
						"merchantInvoiceNumber": "KW-20260829-7QX2MB",
					})
				default:
					w.WriteHeader(http.StatusNotFound)
				}
			}))
			defer server.Close()
			t.Setenv("BKASH_API_BASE_URL", server.URL)

			result, err := NewBkashGateway().Verify("TR0011abc")
			if err != nil {
				t.Fatalf("Verify returned error: %v", err)
			}
			if result.Paid != tc.wantPaid {
				t.Errorf("Paid = %v, want %v", result.Paid, tc.wantPaid)
			}
			if result.Final != tc.wantFinal {
				t.Errorf("Final = %v, want %v", result.Final, tc.wantFinal)
			}
			if result.Reference != "KW-20260829-7QX2MB" {
				t.Errorf("Reference = %q, want the merchant invoice number", result.Reference)
			}
		})
	}
}

func TestBkashCreateSessionFailureCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tokenized/checkout/token/grant":
			json.NewEncoder(w).Encode(map[string]string{"id_token": "token-1"})
		default:
			json.NewEncoder(w).Encode(map[string]string{
				"statusCode":    "2023",
				"statusMessage": "Insufficient balance",
			})
		}
	}))
	defer server.Close()
	t.Setenv("BKASH_API_BASE_URL", server.URL)

	if _, err := NewBkashGateway().CreateSession(900, "ref", "https://example.com/cb"); err == nil {
		t.Error("expected a non-0000 status code to fail")
	}
}

func TestSSLCommerzCreateSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.FormValue("tran_id") != "KW-20260829-7QX2MB" || r.FormValue("currency") != "BDT" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"status":         "SUCCESS",
			"sessionkey":     "sess-77",
			"GatewayPageURL": "https://sandbox.sslcz/pay/sess-77",
		})
	}))
	defer server.Close()
	t.Setenv("SSLCOMMERZ_API_BASE_URL", server.URL)
	t.Setenv("SSLCOMMERZ_STORE_ID", "teststore")
	t.Setenv("SSLCOMMERZ_STORE_PASSWD", "secret")

	session, err := NewSSLCommerzGateway().CreateSession(900, "KW-20260829-7QX2MB", "https://example.com/cb")
	if err != nil {
		t.Fatalf("CreateSession returned error: %v", err)
	}
	if session.SessionID != "sess-77" {
		t.Errorf("session id = %q, want sess-77", session.SessionID)
	}
}

func TestSSLCommerzVerify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("val_id") != "val-99" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"status":  "VALID",
			"val_id":  "val-99",
			"tran_id": "KW-20260829-7QX2MB",
			"amount":  "900.00",
		})
	}))
	defer server.Close()
	t.Setenv("SSLCOMMERZ_API_BASE_URL", server.URL)
	t.Setenv("SSLCOMMERZ_STORE_ID", "teststore")
	t.Setenv("SSLCOMMERZ_STORE_PASSWD", "secret")

	result, err := NewSSLCommerzGateway().Verify("val-99")
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !result.Paid {
		t.Error("expected a VALID validation to report Paid")
	}
	if !result.Final {
		t.Error("expected VALID to be a terminal status")
	}
	if result.Reference != "KW-20260829-7QX2MB" {
		t.Errorf("Reference = %q, want the tran_id", result.Reference)
	}
}

func TestRateLimitedRetryAfter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()
	t.Setenv("SSLCOMMERZ_API_BASE_URL", server.URL)
	t.Setenv("SSLCOMMERZ_STORE_ID", "teststore")
	t.Setenv("SSLCOMMERZ_STORE_PASSWD", "secret")

	_, err := NewSSLCommerzGateway().Verify("val-99")
	var rl *RateLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("expected RateLimitError, got %v", err)
	}
	if rl.RetryAfter != 30*time.Second {
		t.Errorf("retry after = %v, want 30s", rl.RetryAfter)
	}
}
