// Copyright (c) 2025-2026 Aurevra Jewelry
// SPDX-License-Identifier: GPL-3.0-or-later

package shop

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// decodeList normalizes the two list shapes the API has shipped over time:
// a bare JSON array, or an object wrapping the array under wrapperKey
// (e.g. {"products": [...]}). Both decode to the same ordered slice.
func decodeList[T any](data []byte, wrapperKey string) ([]T, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	if trimmed[0] == '[' {
		var list []T
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("decoding list: %w", err)
		}
		return list, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("decoding wrapped list: %w", err)
	}

	raw, ok := wrapped[wrapperKey]
	if !ok {
		return nil, fmt.Errorf("response has neither a bare array nor a %q field", wrapperKey)
	}

	var list []T
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decoding %q field: %w", wrapperKey, err)
	}
	return list, nil
}

// decodeObject normalizes single-object responses that arrive either as the
// object itself or wrapped under wrapperKey (e.g. {"product": {...}}).
func decodeObject[T any](data []byte, wrapperKey string) (T, error) {
	var zero T

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return zero, fmt.Errorf("empty response body")
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return zero, fmt.Errorf("decoding object: %w", err)
	}

	// Wrapped shape takes priority when the key is present and itself an
	// object; otherwise decode the body directly.
	if raw, ok := wrapped[wrapperKey]; ok {
		inner := bytes.TrimLeft(raw, " \t\r\n")
		if len(inner) > 0 && inner[0] == '{' {
			var value T
			if err := json.Unmarshal(raw, &value); err != nil {
				return zero, fmt.Errorf("decoding %q field: %w", wrapperKey, err)
			}
			return value, nil
		}
	}

	var value T
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return zero, fmt.Errorf("decoding object: %w", err)
	}
	return value, nil
}
