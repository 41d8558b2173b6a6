package payments

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	config "github.com/asifzaman/kaajwala/configs"
)

type BkashGateway struct{}

func NewBkashGateway() *BkashGateway {
	return &BkashGateway{}
}

func (g *BkashGateway) Name() string {
	return GatewayBkash
}

type bkashTokenResponse struct {
	IDToken string `json:"id_token"`
}

type bkashCreateResponse struct {
	PaymentID  string `json:"paymentID"`
	BkashURL   string `json:"bkashURL"`
	StatusCode string `json:"statusCode"`
	StatusMsg  string `json:"statusMessage"`
}

type bkashStatusResponse struct {
	PaymentID         string `json:"paymentID"`
	TrxID             string `json:"trxID"`
	TransactionStatus string `json:"transactionStatus"`
	Amount            string `json:"amount"`
	MerchantInvoice   string `json:"merchantInvoiceNumber"`
}

// bkashFinalStatuses are the transaction statuses bKash never moves a
// payment out of. "Initiated" means the payer is still mid-flow.
var bkashFinalStatuses = map[string]bool{
	"Completed": true,
	"Cancelled": true,
	"Failed":    true,
	"Expired":   true,
}

func bkashGrantToken() (string, error) {
	apiBase := config.Config("BKASH_API_BASE_URL")

	payload := map[string]string{
		"app_key":    config.Config("BKASH_APP_KEY"),
		"app_secret": config.Config("BKASH_APP_SECRET"),
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequest("POST", fmt.Sprintf("%s/tokenized/checkout/token/grant", apiBase), bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("username", config.Config("BKASH_USERNAME"))
	req.Header.Set("password", config.Config("BKASH_PASSWORD"))

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := rateLimited(resp); err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bKash token grant returned status %d", resp.StatusCode)
	}

	var tokenResp bkashTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", err
	}
	if tokenResp.IDToken == "" {
		return "", fmt.Errorf("bKash token grant returned an empty token")
	}
	return tokenResp.IDToken, nil
}

func (g *BkashGateway) CreateSession(amount float64, reference, callbackURL string) (*Session, error) {
	token, err := bkashGrantToken()
	if err != nil {
		return nil, fmt.Errorf("failed to get bKash token: %w", err)
	}

	apiBase := config.Config("BKASH_API_BASE_URL")
	payload := map[string]string{
		"mode":                  "0011",
		"payerReference":        reference,
		"callbackURL":           callbackURL,
		"amount":                fmt.Sprintf("%.2f", amount),
		"currency":              "BDT",
		"intent":                "sale",
		"merchantInvoiceNumber": reference,
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequest("POST", fmt.Sprintf("%s/tokenized/checkout/create", apiBase), bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)
	req.Header.Set("X-APP-Key", config.Config("BKASH_APP_KEY"))

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send bKash create request: %w", err)
	}
	defer resp.Body.Close()

	if err := rateLimited(resp); err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bKash create returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var created bkashCreateResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, err
	}
	if created.StatusCode != "0000" {
		return nil, fmt.Errorf("bKash create failed: %s", created.StatusMsg)
	}

	return &Session{SessionID: created.PaymentID, RedirectURL: created.BkashURL}, nil
}

func (g *BkashGateway) Verify(externalID string) (*VerifyResult, error) {
	token, err := bkashGrantToken()
	if err != nil {
		return nil, fmt.Errorf("failed to get bKash token: %w", err)
	}

	apiBase := config.Config("BKASH_API_BASE_URL")
	body, _ := json.Marshal(map[string]string{"paymentID": externalID})

	req, err := http.NewRequest("POST", fmt.Sprintf("%s/tokenized/checkout/payment/status", apiBase), bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)
	req.Header.Set("X-APP-Key", config.Config("BKASH_APP_KEY"))

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send bKash status request: %w", err)
	}
	defer resp.Body.Close()

	if err := rateLimited(resp); err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bKash status returned status %d", resp.StatusCode)
	}

	var status bkashStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, err
	}

	var amount float64
	fmt.Sscanf(status.Amount, "%f", &amount)

	return &VerifyResult{
		ExternalID: status.PaymentID,
		Reference:  status.MerchantInvoice,
		Amount:     amount,
		Status:     status.TransactionStatus,
		Paid:       status.TransactionStatus == "Completed",
		Final:      bkashFinalStatuses[status.TransactionStatus],
	}, nil
}
