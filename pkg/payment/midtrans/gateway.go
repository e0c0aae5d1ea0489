package midtrans

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"ai-imagegen-be/pkg/payment"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

// Currency is the only currency Snap charges in.
const Currency = "IDR"

type Config struct {
	ServerKey    string
	IsProduction bool
	FinishURL    string
}

type MidtransGateway struct {
	serverKey string
	finishURL string
	snap      snap.Client
	core      coreapi.Client
}

func NewMidtransGateway(cfg Config) *MidtransGateway {
	env := midtrans.Sandbox
	if cfg.IsProduction {
		env = midtrans.Production
	}
	g := &MidtransGateway{
		serverKey: cfg.ServerKey,
		finishURL: cfg.FinishURL,
	}
	g.snap.New(cfg.ServerKey, env)
	g.core.New(cfg.ServerKey, env)
	return g
}

func (g *MidtransGateway) CreateOrder(ctx context.Context, req payment.OrderRequest) (*payment.Order, error) {
	if !strings.EqualFold(req.Currency, Currency) {
		return nil, fmt.Errorf("%w: %q", payment.ErrUnsupportedCurrency, req.Currency)
	}

	// Midtrans charges in whole currency units.
	gross := req.AmountMinor / 100

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.CorrelationId,
			GrossAmt: gross,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    req.CorrelationId,
				Price: gross,
				Qty:   1,
				Name:  req.ItemName,
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}
	if req.CustomerEmail != "" {
		snapReq.CustomerDetail = &midtrans.CustomerDetails{
			FName: req.CustomerName,
			Email: req.CustomerEmail,
		}
	}
	if g.finishURL != "" {
		snapReq.Callbacks = &snap.Callbacks{Finish: g.finishURL}
	}

	resp, midErr := g.snap.CreateTransaction(snapReq)
	if midErr != nil {
		return nil, fmt.Errorf("%w: %s", payment.ErrGatewayUnavailable, midErr.GetMessage())
	}

	return &payment.Order{
		OrderId:     req.CorrelationId,
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
		Raw: map[string]interface{}{
			"token":        resp.Token,
			"redirect_url": resp.RedirectURL,
			"gross_amount": gross,
			"currency":     req.Currency,
		},
	}, nil
}

func (g *MidtransGateway) FetchOrder(ctx context.Context, orderId string) (*payment.OrderStatus, error) {
	resp, midErr := g.core.CheckTransaction(orderId)
	if midErr != nil {
		if midErr.StatusCode == http.StatusNotFound {
			return nil, payment.ErrOrderNotFound
		}
		return nil, fmt.Errorf("%w: %s", payment.ErrGatewayUnavailable, midErr.GetMessage())
	}
	if resp.StatusCode == "404" {
		return nil, payment.ErrOrderNotFound
	}

	return &payment.OrderStatus{
		OrderId:       resp.OrderID,
		CorrelationId: resp.OrderID,
		State:         MapTransactionStatus(resp.TransactionStatus, resp.FraudStatus),
		GatewayStatus: resp.TransactionStatus,
		GrossAmount:   resp.GrossAmount,
	}, nil
}

// VerifyNotification checks SHA512(order_id + status_code + gross_amount + server_key).
func (g *MidtransGateway) VerifyNotification(n payment.Notification) bool {
	if g.serverKey == "" || n.SignatureKey == "" {
		return false
	}
	expected := Signature(n.OrderId, n.StatusCode, n.GrossAmount, g.serverKey)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(n.SignatureKey)) == 1
}

func Signature(orderId, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderId + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func MapTransactionStatus(status, fraudStatus string) payment.OrderState {
	switch status {
	case "settlement":
		return payment.OrderPaid
	case "capture":
		if fraudStatus == "challenge" {
			return payment.OrderCreated
		}
		return payment.OrderPaid
	case "deny", "cancel", "expire", "failure":
		return payment.OrderFailed
	default:
		return payment.OrderCreated
	}
}
