package persistence

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/felixbrock/catalogview/internal/app"
)

var (
	ErrTransport = errors.New("transport error")
	ErrStatus    = errors.New("unexpected response status code error")
	ErrMalformed = errors.New("malformed response body error")
)

type StatusError struct {
	Code int
	Url  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s returned %d", ErrStatus.Error(), e.Url, e.Code)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}

type reqConfig struct {
	Method    string
	Url       string
	UrlParams []string
	Headers   []string
	Body      []byte
}

func (c reqConfig) target() string {
	if len(c.UrlParams) == 0 {
		return c.Url
	}
	return fmt.Sprintf("%s?%s", c.Url, strings.Join(c.UrlParams, "&"))
}

func request[T any](ctx context.Context, client *Client, config reqConfig, expectedResCode int) (*T, error) {
	body, err := client.do(ctx, config, expectedResCode)

	if err != nil {
		return nil, err
	}

	t, err := app.ReadJSON[T](body)

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	} else if t == nil {
		return nil, fmt.Errorf("%w: empty document from %s", ErrMalformed, config.target())
	}

	return t, nil
}

func send(ctx context.Context, httpClient *http.Client, config reqConfig, expectedResCode int) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, config.Method, config.target(), bytes.NewBuffer(config.Body))

	if err != nil {
		return nil, err
	}

	for i := 0; i < len(config.Headers); i++ {
		headerKV := strings.SplitN(config.Headers[i], ":", 2)
		if len(headerKV) != 2 {
			return nil, fmt.Errorf("malformed header %q", config.Headers[i])
		}
		req.Header.Add(strings.TrimSpace(headerKV[0]), strings.TrimSpace(headerKV[1]))
	}

	resp, err := httpClient.Do(req)

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	body, err := app.Read(resp.Body, app.MaxBodyBytes)

	if resp.StatusCode != expectedResCode {
		return nil, &StatusError{Code: resp.StatusCode, Url: config.target()}
	} else if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	return body, nil
}
