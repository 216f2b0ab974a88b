package persistence

import (
	"context"
	"fmt"

	"github.com/felixbrock/catalogview/internal/domain"
)

type UserRepo struct {
	Client      *Client
	BaseUrl     string
	BaseHeaders []string
}

func (r UserRepo) List(ctx context.Context) ([]domain.User, error) {
	records, err := request[[]domain.User](ctx, r.Client, reqConfig{
		Method:  "GET",
		Url:     fmt.Sprintf("%s/users", r.BaseUrl),
		Headers: r.BaseHeaders},
		200)

	if err != nil {
		return nil, err
	}

	return *records, nil
}
