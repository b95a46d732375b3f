package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

var ErrPaymentRejected = errors.New("payment rejected by processor")

// MercadoPagoService talks to the Mercado Pago payments REST API.
type MercadoPagoService struct {
	BaseURL         string
	Token           string
	NotificationURL string
	Client          *http.Client
}

func NewMercadoPagoService(baseURL, token, notificationURL string) *MercadoPagoService {
	return &MercadoPagoService{
		BaseURL:         baseURL,
		Token:           token,
		NotificationURL: notificationURL,
		Client:          &http.Client{Timeout: 15 * time.Second},
	}
}

type MPPayer struct {
	Email          string            `json:"email"`
	FirstName      string            `json:"first_name"`
	LastName       string            `json:"last_name"`
	Identification map[string]string `json:"identification,omitempty"`
}

type MPPaymentRequest struct {
	// TransactionAmount is in reais; the processor does not take centavos.
	TransactionAmount float64        `json:"transaction_amount"`
	Description       string         `json:"description"`
	PaymentMethodID   string         `json:"payment_method_id"`
	Payer             MPPayer        `json:"payer"`
	ExternalReference string         `json:"external_reference"`
	NotificationURL   string         `json:"notification_url,omitempty"`
	Installments      int            `json:"installments,omitempty"`
	Metadata          map[string]any `json:"metadata,omitempty"`
}

type MPPayment struct {
	ID                 int64           `json:"id"`
	Status             string          `json:"status"`
	StatusDetail       string          `json:"status_detail"`
	TransactionAmount  float64         `json:"transaction_amount"`
	ExternalReference  string          `json:"external_reference"`
	DateCreated        string          `json:"date_created"`
	PointOfInteraction json.RawMessage `json:"point_of_interaction,omitempty"`
}

type mpError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func isCardMethod(method string) bool {
	switch method {
	case "visa", "master", "elo", "hipercard":
		return true
	}
	return false
}

// CreatePayment posts a new payment. Card methods get a single installment,
// mirroring the storefront's no-installments policy.
func (s *MercadoPagoService) CreatePayment(ctx context.Context, req MPPaymentRequest) (*MPPayment, error) {
	if s.Token == "" {
		return nil, errors.New("mercado pago access token not configured")
	}

	if isCardMethod(req.PaymentMethodID) {
		req.Installments = 1
	}
	if req.NotificationURL == "" && s.NotificationURL != "" {
		req.NotificationURL = s.NotificationURL + "/webhooks/mercadopago"
	}
	if req.Payer.Identification == nil {
		req.Payer.Identification = map[string]string{"type": "CPF", "number": "00000000000"}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/v1/payments", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.Token)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Idempotency-Key", uuid.NewString())

	res, err := s.Client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("mercado pago request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var apiErr mpError
		_ = json.NewDecoder(res.Body).Decode(&apiErr)
		if apiErr.Message == "" {
			apiErr.Message = "payment processing failed"
		}
		return nil, fmt.Errorf("mercado pago: %s (status %d)", apiErr.Message, res.StatusCode)
	}

	var payment MPPayment
	if err := json.NewDecoder(res.Body).Decode(&payment); err != nil {
		return nil, fmt.Errorf("decode mercado pago response: %w", err)
	}
	return &payment, nil
}

// GetPayment fetches a payment by id, used by the webhook to confirm
// status transitions straight from the source.
func (s *MercadoPagoService) GetPayment(ctx context.Context, id string) (*MPPayment, error) {
	if s.Token == "" {
		return nil, errors.New("mercado pago access token not configured")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/v1/payments/"+id, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.Token)
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := s.Client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("mercado pago request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mercado pago: payment %s lookup failed (status %d)", id, res.StatusCode)
	}

	var payment MPPayment
	if err := json.NewDecoder(res.Body).Decode(&payment); err != nil {
		return nil, fmt.Errorf("decode mercado pago response: %w", err)
	}
	return &payment, nil
}
