package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// refNumber builds a human-readable reference like QTE-20260115-3F0A9B2C.
// The random token makes collisions negligible; the unique index on the
// number column makes them impossible.
func refNumber(prefix string, now time.Time) string {
	token := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("%s-%s-%s", prefix, now.UTC().Format("20060102"), token)
}
