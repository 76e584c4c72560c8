package internal

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/sagarc03/cfgchain"
)

// EncodeValue serializes an instance variable for the value column.
func EncodeValue(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode value: %w", err)
	}
	return string(data), nil
}

// DecodeValue parses the value column. Whole numbers come back as int and
// other numbers as float64.
func DecodeValue(s string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	return cfgchain.NormalizeJSON(v), nil
}
