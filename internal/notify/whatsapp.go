package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hostel-management-backend/internal/config"
)

// CurfewAlert is the fixed payload contract for a guardian curfew message.
type CurfewAlert struct {
	Phone       string `json:"phone"`
	Template    string `json:"template"`
	StudentName string `json:"studentName"`
	HostelName  string `json:"hostelName"`
	Date        string `json:"date"`
	CheckInTime string `json:"checkInTime"`
}

// CurfewTemplate names the provider-side message template for late check-ins.
const CurfewTemplate = "late_checkin_alert"

// WhatsAppClient posts template messages to the WhatsApp gateway. Missing
// credentials make every send fail with ErrNotConfigured.
type WhatsAppClient struct {
	cfg    config.WhatsAppConfig
	client *http.Client
}

func NewWhatsAppClient(cfg config.WhatsAppConfig) *WhatsAppClient {
	return &WhatsAppClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// NormalizePhone strips separators and ensures a leading country prefix so the
// gateway accepts the number. Numbers already in international form pass
// through unchanged.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	if strings.HasPrefix(phone, "+") {
		return digits
	}
	// Ten-digit local numbers get the default country code.
	if len(digits) == 10 {
		return "91" + digits
	}
	return digits
}

// SendCurfewAlert delivers one late check-in template message. A single
// attempt, no retries.
func (c *WhatsAppClient) SendCurfewAlert(ctx context.Context, alert CurfewAlert) error {
	if c.cfg.APIURL == "" || c.cfg.APIKey == "" {
		return ErrNotConfigured
	}

	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshal whatsapp payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build whatsapp request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("whatsapp gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
