package http

import (
	"fmt"

	"dormeal/internal/core/domain/model/kernel"

	"github.com/skip2/go-qrcode"
)

const qrSize = 256

// handoffQR renders the code the consumer shows the carrier at drop-off.
func handoffQR(orderID kernel.UUID, code string) ([]byte, error) {
	payload := fmt.Sprintf("dormeal://handoff/%s?code=%s", orderID, code)
	return qrcode.Encode(payload, qrcode.Medium, qrSize)
}
