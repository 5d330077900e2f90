package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NumberFunc produces a contract number for the given instant.
type NumberFunc func(now time.Time) string

// NewNumber returns RENT-<unix millis>-<8 upper-case hex chars>.
func NewNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("RENT-%d-%s", now.UnixMilli(), suffix)
}
