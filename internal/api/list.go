package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PageInfo is the pagination metadata of a Spring-style page envelope.
// It is nil for endpoints that answer with a plain array.
type PageInfo struct {
	TotalElements int64 `json:"totalElements"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

type pageEnvelope struct {
	Content       json.RawMessage `json:"content"`
	TotalElements int64           `json:"totalElements"`
	Number        int             `json:"number"`
	Size          int             `json:"size"`
}

// DecodeList normalizes the three collection shapes the backend is known to
// produce into one: a paginated envelope {content,totalElements,number,size},
// a bare array, or a bare single object. The result is always a non-nil
// slice; page metadata is present only for the envelope shape.
func DecodeList[T any](raw json.RawMessage) ([]T, *PageInfo, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil, nil
	}

	switch trimmed[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, nil, fmt.Errorf("failed to decode list: %w", err)
		}
		if items == nil {
			items = []T{}
		}
		return items, nil, nil
	case '{':
		var env pageEnvelope
		if err := json.Unmarshal(trimmed, &env); err == nil && env.Content != nil {
			var items []T
			if err := json.Unmarshal(env.Content, &items); err != nil {
				return nil, nil, fmt.Errorf("failed to decode page content: %w", err)
			}
			if items == nil {
				items = []T{}
			}
			return items, &PageInfo{
				TotalElements: env.TotalElements,
				Number:        env.Number,
				Size:          env.Size,
			}, nil
		}
		var single T
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return nil, nil, fmt.Errorf("failed to decode object: %w", err)
		}
		return []T{single}, nil, nil
	}
	return nil, nil, fmt.Errorf("unexpected response shape")
}

// DecodeOne decodes a single resource payload.
func DecodeOne[T any](raw json.RawMessage) (T, error) {
	var out T
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("failed to decode response: %w", err)
	}
	return out, nil
}
