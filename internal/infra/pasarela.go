package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// CargoPayload is sent to the external payment gateway to capture a charge.
// Referencia carries our folio/charge id so the gateway's webhooks and our
// records can be reconciled later.
type CargoPayload struct {
	Monto       float64 `json:"monto"`
	Moneda      string  `json:"moneda"`
	Referencia  string  `json:"referencia"`
	Descripcion string  `json:"descripcion"`
	// TokenPago is the one-time token from the gateway's client widget.
	// Empty for subscription charges, where the gateway bills the stored
	// payment method of the referenced customer.
	TokenPago string  `json:"token_pago,omitempty"`
	ClienteID *string `json:"cliente_id,omitempty"`
}

// CargoResponse is the gateway's answer after attempting a charge.
type CargoResponse struct {
	CargoID   string `json:"cargo_id"`
	Resultado string `json:"resultado"` // "aprobado" | "rechazado"
	Mensaje   string `json:"mensaje"`
}

// PasarelaClient talks to the external payment gateway over HTTP JSON.
// Payment processing is an external collaborator: this backend only submits
// charges and records the outcome, never touches card data.
type PasarelaClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewPasarelaClient(baseURL, apiKey string) *PasarelaClient {
	return &PasarelaClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Cobrar sends a POST /cargos to the gateway and returns its typed response.
func (c *PasarelaClient) Cobrar(ctx context.Context, payload CargoPayload) (*CargoResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("pasarela: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/cargos", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("pasarela: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pasarela: gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pasarela: gateway returned %d", resp.StatusCode)
	}

	var result CargoResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("pasarela: decode response: %w", err)
	}
	return &result, nil
}
