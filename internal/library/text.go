package library

import (
	"bytes"
	"context"
	"os"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func extractText(_ context.Context, path string) (extracted, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return extracted{}, err
	}
	return extracted{Text: string(bytes.TrimPrefix(data, utf8BOM))}, nil
}
