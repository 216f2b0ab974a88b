package persistence

import (
	"context"
	"fmt"

	"github.com/felixbrock/catalogview/internal/domain"
)

type ProductRepo struct {
	Client      *Client
	BaseUrl     string
	BaseHeaders []string
	// SendPage transmits the page counter as _page. The demo endpoint is
	// consumed without it by default.
	SendPage bool
}

func (r ProductRepo) List(ctx context.Context, page int) ([]domain.Product, error) {
	var params []string
	if r.SendPage {
		params = append(params, fmt.Sprintf("_page=%d", page))
	}

	records, err := request[[]domain.Product](ctx, r.Client, reqConfig{
		Method:    "GET",
		Url:       fmt.Sprintf("%s/products", r.BaseUrl),
		UrlParams: params,
		Headers:   r.BaseHeaders},
		200)

	if err != nil {
		return nil, err
	}

	return *records, nil
}
