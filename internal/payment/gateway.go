package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Gateway is the capability boundary to a payment processor. Charge returns
// whether the charge was approved; the error is reserved for transport-level
// failures, a declined card is (false, nil).
type Gateway interface {
	Charge(ctx context.Context, cardNumber string) (bool, error)
}

// Config selects and parameterizes a gateway implementation.
type Config struct {
	Provider string        // "simulator" or "external"
	Delay    time.Duration // simulator only: artificial processing latency
	URL      string        // external only: processor endpoint
}

// New builds a Gateway from configuration.
func New(cfg Config) (Gateway, error) {
	switch cfg.Provider {
	case "simulator", "":
		return &Simulator{Delay: cfg.Delay}, nil
	case "external":
		if cfg.URL == "" {
			return nil, fmt.Errorf("external payment gateway requires a URL")
		}
		return &External{URL: cfg.URL, Client: &http.Client{Timeout: 30 * time.Second}}, nil
	default:
		return nil, fmt.Errorf("unknown payment provider %q", cfg.Provider)
	}
}

// Simulator is a deterministic stand-in for a real processor. It blocks for
// Delay to emulate network latency, then approves card numbers that are all
// digits, do not start with 0, and are even. Tests inject a zero delay.
type Simulator struct {
	Delay time.Duration
}

// Charge applies the simulator rule after the configured delay.
func (s *Simulator) Charge(ctx context.Context, cardNumber string) (bool, error) {
	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}

	if cardNumber == "" || cardNumber[0] == '0' {
		return false, nil
	}
	for _, c := range cardNumber {
		if c < '0' || c > '9' {
			return false, nil
		}
	}
	last := cardNumber[len(cardNumber)-1]
	return (last-'0')%2 == 0, nil
}

// External forwards the charge to a real processor endpoint. Placeholder for
// a future integration; the wire contract is a JSON POST returning
// {"approved": bool}.
type External struct {
	URL    string
	Client *http.Client
}

type chargeRequest struct {
	CardNumber string `json:"card_number"`
}

type chargeResponse struct {
	Approved bool `json:"approved"`
}

// Charge posts the card number to the processor and reads the verdict.
func (e *External) Charge(ctx context.Context, cardNumber string) (bool, error) {
	body, err := json.Marshal(chargeRequest{CardNumber: cardNumber})
	if err != nil {
		return false, fmt.Errorf("failed to marshal charge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.URL, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("failed to build charge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.Client.Do(req)
	if err != nil {
		return false, fmt.Errorf("payment processor request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("payment processor returned status %d", resp.StatusCode)
	}

	var verdict chargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		return false, fmt.Errorf("failed to decode processor response: %w", err)
	}
	return verdict.Approved, nil
}
