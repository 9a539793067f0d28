package utils

import (
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// ContestSlug builds a URL slug from name with a short random suffix
func ContestSlug(name string) string {
	base := slug.Make(name)
	if len(base) > 80 {
		base = strings.TrimRight(base[:80], "-")
	}
	suffix := uuid.NewString()[:8]
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
