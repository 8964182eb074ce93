package engine

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

const pnrAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// generatePNR draws a 3-letter + 3-digit record locator, retrying up to
// five times on collision with existing PNRs.  If every attempt
// collides it falls back to a timestamp-derived code so the call still
// terminates with a deterministic result under a stubbed random source.
func (e *Engine) generatePNR(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		var sb strings.Builder
		for i := 0; i < 3; i++ {
			sb.WriteByte(pnrAlphabet[e.randIntn(len(pnrAlphabet))])
		}
		sb.WriteString(fmt.Sprintf("%03d", e.randIntn(1000)))
		code := sb.String()

		exists, err := e.bookings.PNRExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	ts := strings.ToUpper(strconv.FormatInt(e.clock.Now().UnixNano(), 36))
	if len(ts) > 6 {
		ts = ts[len(ts)-6:]
	}
	return ts, nil
}

// paymentReference issues a simulated gateway reference.
func paymentReference() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "PAY-" + strings.ToUpper(hex.EncodeToString(buf)), nil
}
