package user

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

const (
	directoryKeyPrefix  = "users:list:"
	directoryKeyPattern = directoryKeyPrefix + "*"
)

type directoryCacheKeyInput struct {
	Search       string `json:"search"`
	Availability string `json:"availability"`
	Page         int    `json:"page"`
	Limit        int    `json:"limit"`
	ExcludeID    string `json:"exclude_id"`
}

func normalizeSearchValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return s
}

// DirectoryCacheKey hashes the normalized query so equivalent queries share
// one entry.
func DirectoryCacheKey(q DirectoryQuery) string {
	avail := normalizeSearchValue(q.Availability)
	if avail == "all" {
		avail = ""
	}
	in := directoryCacheKeyInput{
		Search:       normalizeSearchValue(q.Search),
		Availability: avail,
		Page:         q.Page,
		Limit:        q.Limit,
	}
	if q.ViewerID != uuid.Nil {
		in.ExcludeID = q.ViewerID.String()
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return directoryKeyPrefix + hex.EncodeToString(sum[:])
}
