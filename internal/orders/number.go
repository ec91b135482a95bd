package orders

import (
	"crypto/rand"
	"fmt"
	"time"
)

const (
	orderNumberPrefix = "ORD"
	suffixLength      = 5
	base36            = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NewOrderNumber returns ORD-<unix millis>-<5 uppercase base36 chars>.
func NewOrderNumber(now time.Time) string {
	buf := make([]byte, suffixLength)
	// crypto/rand.Read never returns an error.
	rand.Read(buf)
	for i, b := range buf {
		buf[i] = base36[int(b)%len(base36)]
	}
	return fmt.Sprintf("%s-%d-%s", orderNumberPrefix, now.UnixMilli(), buf)
}
