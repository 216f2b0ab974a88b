package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// MaxBodyBytes bounds how much of a response body Read accepts.
const MaxBodyBytes = 8 << 20

var ErrBodyTooLarge = errors.New("body exceeds read limit error")

// Read drains and closes reader. Bodies longer than limit are rejected.
func Read(reader io.ReadCloser, limit int64) ([]byte, error) {
	defer func() {
		if err := reader.Close(); err != nil {
			slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		}
	}()

	content, err := io.ReadAll(io.LimitReader(reader, limit+1))

	if err != nil {
		return nil, err
	} else if int64(len(content)) > limit {
		return nil, ErrBodyTooLarge
	}

	return content, nil
}

// ReadJSON decodes content into a fresh T. A JSON null yields a nil result.
func ReadJSON[T any](content []byte) (*T, error) {
	var t *T
	err := json.Unmarshal(content, &t)

	if err != nil {
		return nil, err
	}

	return t, nil
}
