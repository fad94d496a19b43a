package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/studio-portal/internal/application/billing"
	"github.com/jhoicas/studio-portal/internal/domain"
)

var _ billing.WebhookVerifier = (*StripeVerifier)(nil)

// SignatureHeader cabecera con la firma del webhook.
const SignatureHeader = "Stripe-Signature"

const defaultTolerance = 300 * time.Second

var errEmptySecret = errors.New("stripe: webhook secret vacío")

// StripeVerifier verifica el esquema v1 de Stripe: HMAC-SHA256 de "t.body"
// con el secreto del endpoint, dentro de una ventana de tolerancia.
type StripeVerifier struct {
	secret    []byte
	tolerance time.Duration
	now       func() time.Time
}

// NewStripeVerifier construye el verificador. toleranceSeconds <= 0 usa 300.
func NewStripeVerifier(secret string, toleranceSeconds int) *StripeVerifier {
	tol := time.Duration(toleranceSeconds) * time.Second
	if tol <= 0 {
		tol = defaultTolerance
	}
	return &StripeVerifier{secret: []byte(strings.TrimSpace(secret)), tolerance: tol, now: time.Now}
}

// WithClock fija el reloj (tests).
func (v *StripeVerifier) WithClock(now func() time.Time) *StripeVerifier {
	v.now = now
	return v
}

type stripeEvent struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Created int64  `json:"created"`
	Data    struct {
		Object struct {
			ID            string            `json:"id"`
			PaymentIntent string            `json:"payment_intent"`
			Metadata      map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// Verify valida la firma y decodifica el evento.
func (v *StripeVerifier) Verify(payload []byte, header string) (*billing.PaymentEvent, error) {
	if len(v.secret) == 0 {
		return nil, errEmptySecret
	}
	ts, sigs := parseSignatureHeader(header)
	if ts == "" || len(sigs) == 0 {
		return nil, fmt.Errorf("stripe: cabecera de firma incompleta: %w", domain.ErrUnauthorized)
	}
	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil || unix <= 0 {
		return nil, fmt.Errorf("stripe: timestamp inválido: %w", domain.ErrUnauthorized)
	}
	skew := v.now().Sub(time.Unix(unix, 0))
	if skew < 0 {
		skew = -skew
	}
	if skew > v.tolerance {
		return nil, fmt.Errorf("stripe: firma fuera de tolerancia: %w", domain.ErrUnauthorized)
	}

	expected := sign(v.secret, ts, payload)
	valid := false
	for _, s := range sigs {
		got, err := hex.DecodeString(s)
		if err != nil {
			continue
		}
		if hmac.Equal(expected, got) {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("stripe: firma no coincide: %w", domain.ErrUnauthorized)
	}

	var evt stripeEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return nil, domain.NewValidationError("body", "evento JSON inválido")
	}
	obj := evt.Data.Object
	paymentID := obj.PaymentIntent
	if paymentID == "" {
		paymentID = obj.ID
	}
	return &billing.PaymentEvent{
		ID:        evt.ID,
		Type:      evt.Type,
		InvoiceID: strings.TrimSpace(obj.Metadata["invoice_id"]),
		PaymentID: paymentID,
		Created:   time.Unix(evt.Created, 0).UTC(),
	}, nil
}

// SignatureFor arma una cabecera válida; la usan los tests y las herramientas locales.
func SignatureFor(secret string, at time.Time, payload []byte) string {
	ts := strconv.FormatInt(at.Unix(), 10)
	return "t=" + ts + ",v1=" + hex.EncodeToString(sign([]byte(secret), ts, payload))
}

func sign(secret []byte, ts string, payload []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(ts))
	mac.Write([]byte{'.'})
	mac.Write(payload)
	return mac.Sum(nil)
}

func parseSignatureHeader(header string) (string, []string) {
	var ts string
	var v1 []string
	for _, part := range strings.Split(header, ",") {
		k, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(k) {
		case "t":
			if ts == "" {
				ts = strings.TrimSpace(val)
			}
		case "v1":
			if val = strings.TrimSpace(val); val != "" {
				v1 = append(v1, val)
			}
		}
	}
	return ts, v1
}
