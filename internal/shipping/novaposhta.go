// Package shipping talks to the Nova Poshta JSON API.
package shipping

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"kalaur/internal/domain"
	"kalaur/internal/validate"
)

const (
	DefaultURL = "https://api.novaposhta.ua/v2.0/json/"

	refMax           = 64
	namePartMax      = 120
	warehouseNameMax = 160
)

type request struct {
	APIKey           string            `json:"apiKey"`
	ModelName        string            `json:"modelName"`
	CalledMethod     string            `json:"calledMethod"`
	MethodProperties map[string]string `json:"methodProperties"`
}

type response struct {
	Success bool              `json:"success"`
	Data    []json.RawMessage `json:"data"`
	Errors  []string          `json:"errors"`
}

type city struct {
	Ref               string `json:"Ref"`
	Description       string `json:"Description"`
	AreaDescription   string `json:"AreaDescription"`
	RegionDescription string `json:"RegionDescription"`
}

type warehouse struct {
	Ref         string `json:"Ref"`
	Description string `json:"Description"`
}

// NovaPoshta is a stateless client; every call is one POST.
type NovaPoshta struct {
	apiKey  string
	url     string
	timeout time.Duration
}

// New returns nil when apiKey is empty so callers can treat the carrier as
// not configured.
func New(apiKey, url string, timeout time.Duration) *NovaPoshta {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil
	}
	if url == "" {
		url = DefaultURL
	}
	return &NovaPoshta{apiKey: apiKey, url: url, timeout: timeout}
}

func (n *NovaPoshta) call(ctx context.Context, method string, props map[string]string) ([]json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a := fiber.Post(n.url).JSON(request{
		APIKey:           n.apiKey,
		ModelName:        "AddressGeneral",
		CalledMethod:     method,
		MethodProperties: props,
	})
	if n.timeout > 0 {
		a.Timeout(n.timeout)
	}
	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("nova poshta %s: %w", method, errors.Join(errs...))
	}
	if code < 200 || code >= 300 {
		return nil, fmt.Errorf("nova poshta %s: status %d", method, code)
	}
	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("nova poshta %s: decode: %w", method, err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("nova poshta %s: %s", method, strings.Join(resp.Errors, "; "))
	}
	return resp.Data, nil
}

func (n *NovaPoshta) Cities(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	rows, err := n.call(ctx, "getCities", map[string]string{
		"FindByString": query,
		"Limit":        strconv.Itoa(limit),
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Place, 0, len(rows))
	for _, raw := range rows {
		var c city
		if json.Unmarshal(raw, &c) != nil {
			continue
		}
		parts := make([]string, 0, 3)
		for _, p := range []string{c.Description, c.RegionDescription, c.AreaDescription} {
			if p = validate.Text(p, namePartMax); p != "" {
				parts = append(parts, p)
			}
		}
		out = append(out, domain.Place{Ref: validate.Text(c.Ref, refMax), Name: strings.Join(parts, ", ")})
	}
	return out, nil
}

func (n *NovaPoshta) Warehouses(ctx context.Context, cityRef string, limit int) ([]domain.Place, error) {
	rows, err := n.call(ctx, "getWarehouses", map[string]string{
		"CityRef":  cityRef,
		"Limit":    strconv.Itoa(limit),
		"Language": "UA",
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Place, 0, len(rows))
	for _, raw := range rows {
		var w warehouse
		if json.Unmarshal(raw, &w) != nil {
			continue
		}
		out = append(out, domain.Place{
			Ref:  validate.Text(w.Ref, refMax),
			Name: validate.Text(w.Description, warehouseNameMax),
		})
	}
	return out, nil
}
