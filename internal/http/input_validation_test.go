package handlers_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestCheckoutUsesServerPrices(t *testing.T) {
	env := newEnv(t)
	resp, body := env.do(t, "POST", "/checkout-session",
		`{"items":[{"productId":"new-oil-filter","quantity":2,"price":1}],"shipping":{"city":"Київ","phone":" +380 "}}`)
	if resp.StatusCode != http.StatusOK || body["url"] != "https://pay.example/cs_test" {
		t.Fatalf("want 200 with url, got %d %v", resp.StatusCode, body)
	}
	req := env.gateway.last
	if len(req.LineItems) != 1 || req.LineItems[0].UnitAmount != 450 || req.LineItems[0].Quantity != 2 {
		t.Fatalf("unexpected line items %+v", req.LineItems)
	}
	if req.Metadata["shipping_city"] != "Київ" || req.Metadata["shipping_phone"] != "+380" {
		t.Fatalf("unexpected metadata %v", req.Metadata)
	}
}

func TestCheckoutAcceptsNonStringShippingFields(t *testing.T) {
	env := newEnv(t)
	resp, body := env.do(t, "POST", "/checkout-session",
		`{"items":[{"productId":"new-oil-filter","quantity":1},7],"shipping":{"phone":380501234567,"fullName":null,"comment":{"x":1}}}`)
	if resp.StatusCode != http.StatusOK || body["url"] == nil {
		t.Fatalf("want 200 with url, got %d %v", resp.StatusCode, body)
	}
	md := env.gateway.last.Metadata
	if md["shipping_phone"] != "380501234567" {
		t.Fatalf("numeric phone should be kept as text, got %v", md)
	}
	if _, ok := md["shipping_full_name"]; ok {
		t.Fatalf("null field should be left out: %v", md)
	}
	if len(env.gateway.last.LineItems) != 1 {
		t.Fatalf("non-object item should be dropped: %+v", env.gateway.last.LineItems)
	}
}

func TestCheckoutCoercesQuantity(t *testing.T) {
	env := newEnv(t)
	resp, _ := env.do(t, "POST", "/checkout-session",
		`{"items":[{"productId":"used-ecu","quantity":-3},{"productId":"used-starter","quantity":2.7},{"productId":"used-turbo","quantity":"abc"}]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	got := []int64{}
	for _, li := range env.gateway.last.LineItems {
		got = append(got, li.Quantity)
	}
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 1 {
		t.Fatalf("unexpected quantities %v", got)
	}
}

func TestCheckoutRejectsBadCarts(t *testing.T) {
	env := newEnv(t)
	admin := env.login(t)
	resp, _ := env.do(t, "PUT", "/catalog", `{"overrides":[{"id":"used-turbo","inStock":false},{"id":"used-ecu","stockQty":1}]}`, admin)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("override setup failed: %d", resp.StatusCode)
	}

	cases := []struct {
		name, payload, reason string
	}{
		{"out of stock", `{"items":[{"productId":"new-oil-filter","quantity":1},{"productId":"used-turbo","quantity":1}]}`, "out_of_stock"},
		{"unknown", `{"items":[{"productId":"nope","quantity":1}]}`, "unknown_product"},
		{"insufficient", `{"items":[{"productId":"used-ecu","quantity":2}]}`, "insufficient_stock"},
		{"empty", `{"items":[]}`, "empty_basket"},
		{"missing items", `{}`, "empty_basket"},
		{"items not an array", `{"items":"x"}`, "empty_basket"},
		{"items without objects", `{"items":[1,"a",null]}`, "empty_basket"},
		{"body not an object", `[{"productId":"new-oil-filter","quantity":1}]`, "empty_basket"},
		{"quantity over max", `{"items":[{"productId":"new-oil-filter","quantity":1500}]}`, "quantity_too_large"},
		{"bad json", `{"items":`, "bad_json"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := env.do(t, "POST", "/checkout-session", tc.payload)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("want 400, got %d", resp.StatusCode)
			}
			if body["reason"] != tc.reason {
				t.Fatalf("want reason %s, got %v", tc.reason, body)
			}
		})
	}
	if env.gateway.calls != 0 {
		t.Fatalf("payment provider must not be called for rejected carts, got %d calls", env.gateway.calls)
	}
}

func TestCheckoutNotConfigured(t *testing.T) {
	env := newEnv(t, withoutGateway())
	resp, body := env.do(t, "POST", "/checkout-session", `{"items":[{"productId":"used-ecu","quantity":1}]}`)
	if resp.StatusCode != http.StatusNotImplemented || body["code"] != "NOT_CONFIGURED" {
		t.Fatalf("want 501 not configured, got %d %v", resp.StatusCode, body)
	}
}

func TestCheckoutUpstreamFailureHidesDetail(t *testing.T) {
	env := newEnv(t)
	env.gateway.err = errors.New("stripe: invalid api key sk_live_123")
	resp, body := env.do(t, "POST", "/checkout-session", `{"items":[{"productId":"used-ecu","quantity":1}]}`)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("want 502, got %d", resp.StatusCode)
	}
	if msg, _ := body["error"].(string); strings.Contains(msg, "sk_live") || msg != "upstream error" {
		t.Fatalf("upstream detail leaked: %v", body)
	}
}
