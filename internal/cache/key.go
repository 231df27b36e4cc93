package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rshade/pagedview/internal/pagination"
)

// KeyParams identifies a cached page: the collection it came from and the request.
type KeyParams struct {
	Endpoint string                 `json:"endpoint"`
	Request  pagination.PageRequest `json:"request"`
}

// GenerateKey returns the SHA256 hex key for a page request against an endpoint.
// Endpoint case, trailing slashes and filter whitespace do not affect the key.
func GenerateKey(params KeyParams) (string, error) {
	canonical := KeyParams{
		Endpoint: strings.TrimRight(strings.ToLower(strings.TrimSpace(params.Endpoint)), "/"),
		Request: pagination.PageRequest{
			PageNumber: params.Request.PageNumber,
			PageSize:   params.Request.PageSize,
			Filter:     params.Request.Filter.Normalize(),
		},
	}

	data, err := json.Marshal(canonical)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cache key params: %w", err)
	}

	return hashString(string(data)), nil
}

func hashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func isHexKey(key string) bool {
	if len(key) != sha256.Size*2 {
		return false
	}
	for _, c := range key {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
