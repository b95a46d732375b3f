package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePaymentSendsRequest(t *testing.T) {
	var got MPPaymentRequest
	var gotAuth, gotIdem string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/payments", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotIdem = r.Header.Get("X-Idempotency-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(MPPayment{ID: 12345, Status: "approved", StatusDetail: "accredited"})
	}))
	defer srv.Close()

	svc := NewMercadoPagoService(srv.URL, "TEST-TOKEN", "https://loja.example.com")
	payment, err := svc.CreatePayment(context.Background(), MPPaymentRequest{
		TransactionAmount: 160.00,
		Description:       "Pedido abc - Modinha Boutique",
		PaymentMethodID:   "visa",
		Payer:             MPPayer{Email: "ana@example.com", FirstName: "Ana", LastName: "Souza"},
		ExternalReference: "abc",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(12345), payment.ID)
	assert.Equal(t, "approved", payment.Status)

	assert.Equal(t, "Bearer TEST-TOKEN", gotAuth)
	assert.NotEmpty(t, gotIdem)
	assert.Equal(t, 160.00, got.TransactionAmount)
	assert.Equal(t, 1, got.Installments) // cards always single installment
	assert.Equal(t, "https://loja.example.com/webhooks/mercadopago", got.NotificationURL)
	assert.Equal(t, "CPF", got.Payer.Identification["type"])
}

func TestCreatePaymentPixSkipsInstallments(t *testing.T) {
	var got MPPaymentRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(MPPayment{ID: 1, Status: "pending"})
	}))
	defer srv.Close()

	svc := NewMercadoPagoService(srv.URL, "TEST-TOKEN", "")
	_, err := svc.CreatePayment(context.Background(), MPPaymentRequest{
		TransactionAmount: 89.90,
		PaymentMethodID:   "pix",
		Payer:             MPPayer{Email: "ana@example.com"},
	})
	require.NoError(t, err)
	assert.Zero(t, got.Installments)
}

func TestCreatePaymentAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"message": "invalid payment_method_id", "status": 400})
	}))
	defer srv.Close()

	svc := NewMercadoPagoService(srv.URL, "TEST-TOKEN", "")
	_, err := svc.CreatePayment(context.Background(), MPPaymentRequest{
		TransactionAmount: 10,
		PaymentMethodID:   "nope",
		Payer:             MPPayer{Email: "ana@example.com"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid payment_method_id")
}

func TestCreatePaymentRequiresToken(t *testing.T) {
	svc := NewMercadoPagoService("https://api.mercadopago.com", "", "")
	_, err := svc.CreatePayment(context.Background(), MPPaymentRequest{})
	assert.Error(t, err)
}

func TestGetPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/payments/987", r.URL.Path)
		require.Equal(t, "Bearer TEST-TOKEN", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(MPPayment{ID: 987, Status: "approved", ExternalReference: "ref-1"})
	}))
	defer srv.Close()

	svc := NewMercadoPagoService(srv.URL, "TEST-TOKEN", "")
	payment, err := svc.GetPayment(context.Background(), "987")
	require.NoError(t, err)
	assert.Equal(t, "approved", payment.Status)
	assert.Equal(t, "ref-1", payment.ExternalReference)
}

func TestGetPaymentNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	svc := NewMercadoPagoService(srv.URL, "TEST-TOKEN", "")
	_, err := svc.GetPayment(context.Background(), "missing")
	assert.Error(t, err)
}
