package service

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

/* =========================================================
   Gateway
========================================================= */

type CustomerInput struct {
	Name  string
	Email string
	Phone string
}

type Checkout struct {
	Token       string
	RedirectURL string
}

// Gateway opens a hosted checkout for one order.
type Gateway interface {
	CreateCheckout(orderID string, amount int64, cust CustomerInput) (Checkout, error)
}

type MidtransGateway struct {
	client snap.Client
}

// NewMidtransGateway: useProduction=false targets the Sandbox.
func NewMidtransGateway(serverKey string, useProduction bool) *MidtransGateway {
	g := &MidtransGateway{}
	if useProduction {
		g.client.New(serverKey, midtrans.Production)
	} else {
		g.client.New(serverKey, midtrans.Sandbox)
	}
	return g
}

func (g *MidtransGateway) CreateCheckout(orderID string, amount int64, cust CustomerInput) (Checkout, error) {
	if amount <= 0 {
		return Checkout{}, errors.New("invalid amount")
	}
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: cust.Name,
			Email: cust.Email,
			Phone: cust.Phone,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:       orderID,
			Price:    amount,
			Qty:      1,
			Name:     "School fee",
			Category: "FEE",
		}},
	}

	resp, mErr := g.client.CreateTransaction(req)
	if mErr != nil {
		return Checkout{}, mErr
	}
	return Checkout{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

/* =========================================================
   Notification signature
========================================================= */

// NotificationSignature = hex(sha512(order_id + status_code + gross_amount + server_key)).
func NotificationSignature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func VerifyNotificationSignature(orderID, statusCode, grossAmount, serverKey, signature string) bool {
	if serverKey == "" || signature == "" {
		return false
	}
	want := NotificationSignature(orderID, statusCode, grossAmount, serverKey)
	return subtle.ConstantTimeCompare([]byte(want), []byte(strings.ToLower(signature))) == 1
}
