package payments

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	config "github.com/asifzaman/kaajwala/configs"
)

type SSLCommerzGateway struct{}

func NewSSLCommerzGateway() *SSLCommerzGateway {
	return &SSLCommerzGateway{}
}

func (g *SSLCommerzGateway) Name() string {
	return GatewaySSLCommerz
}

type sslcommerzSessionResponse struct {
	Status         string `json:"status"`
	SessionKey     string `json:"sessionkey"`
	GatewayPageURL string `json:"GatewayPageURL"`
	FailedReason   string `json:"failedreason"`
}

type sslcommerzValidationResponse struct {
	Status  string `json:"status"`
	TranID  string `json:"tran_id"`
	ValID   string `json:"val_id"`
	Amount  string `json:"amount"`
	RiskLvl string `json:"risk_level"`
}

// sslcommerzFinalStatuses per the validator API; "PENDING" and
// "UNATTEMPTED" can still turn into VALID.
var sslcommerzFinalStatuses = map[string]bool{
	"VALID":     true,
	"VALIDATED": true,
	"FAILED":    true,
	"CANCELLED": true,
	"EXPIRED":   true,
}

func (g *SSLCommerzGateway) CreateSession(amount float64, reference, callbackURL string) (*Session, error) {
	apiBase := config.Config("SSLCOMMERZ_API_BASE_URL")

	form := url.Values{}
	form.Set("store_id", config.Config("SSLCOMMERZ_STORE_ID"))
	form.Set("store_passwd", config.Config("SSLCOMMERZ_STORE_PASSWD"))
	form.Set("total_amount", fmt.Sprintf("%.2f", amount))
	form.Set("currency", "BDT")
	form.Set("tran_id", reference)
	form.Set("success_url", callbackURL)
	form.Set("fail_url", callbackURL)
	form.Set("cancel_url", callbackURL)
	form.Set("product_category", "service")

	req, err := http.NewRequest("POST", fmt.Sprintf("%s/gwprocess/v4/api.php", apiBase), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send SSLCommerz session request: %w", err)
	}
	defer resp.Body.Close()

	if err := rateLimited(resp); err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("SSLCommerz returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var session sslcommerzSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, err
	}
	if session.Status != "SUCCESS" {
		return nil, fmt.Errorf("SSLCommerz session failed: %s", session.FailedReason)
	}

	return &Session{SessionID: session.SessionKey, RedirectURL: session.GatewayPageURL}, nil
}

func (g *SSLCommerzGateway) Verify(externalID string) (*VerifyResult, error) {
	apiBase := config.Config("SSLCOMMERZ_API_BASE_URL")

	query := url.Values{}
	query.Set("val_id", externalID)
	query.Set("store_id", config.Config("SSLCOMMERZ_STORE_ID"))
	query.Set("store_passwd", config.Config("SSLCOMMERZ_STORE_PASSWD"))
	query.Set("format", "json")

	resp, err := httpClient.Get(fmt.Sprintf("%s/validator/api/validationserverAPI.php?%s", apiBase, query.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to send SSLCommerz validation request: %w", err)
	}
	defer resp.Body.Close()

	if err := rateLimited(resp); err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("SSLCommerz validator returned status %d", resp.StatusCode)
	}

	var validation sslcommerzValidationResponse
	if err := json.NewDecoder(resp.Body).Decode(&validation); err != nil {
		return nil, err
	}

	var amount float64
	fmt.Sscanf(validation.Amount, "%f", &amount)

	return &VerifyResult{
		ExternalID: validation.ValID,
		Reference:  validation.TranID,
		Amount:     amount,
		Status:     validation.Status,
		Paid:       validation.Status == "VALID" || validation.Status == "VALIDATED",
		Final:      sslcommerzFinalStatuses[validation.Status],
	}, nil
}
