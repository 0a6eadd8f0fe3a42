package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RedemptionToken binds a frozen point total to a single redemption right.
// A token that exists in the store is by definition unclaimed: claiming
// removes it, so there is no "used" flag to race on.
type RedemptionToken struct {
	Code      string
	Points    int
	Items     []ScannedItem
	CreatedAt time.Time
}

// QRPayload is the compact text encoding embedded in the kiosk QR code.
// The points value here is display-only; the authoritative total always
// comes from the claim response.
type QRPayload struct {
	Points int
	Code   string
}

// Encode renders the payload in the form the mobile scanner expects,
// e.g. "POINTS:35|CODE:ABCD2345WXYZ".
func (p QRPayload) Encode() string {
	return fmt.Sprintf("POINTS:%d|CODE:%s", p.Points, p.Code)
}

// ParseQRPayload parses a scanned payload string. Input comes from an
// untrusted scanner, so anything malformed is rejected outright.
func ParseQRPayload(data string) (*QRPayload, error) {
	parts := strings.Split(data, "|")
	if len(parts) != 2 {
		return nil, fmt.Errorf("malformed QR payload")
	}

	pointsPart, ok := strings.CutPrefix(parts[0], "POINTS:")
	if !ok {
		return nil, fmt.Errorf("malformed QR payload: missing POINTS field")
	}
	codePart, ok := strings.CutPrefix(parts[1], "CODE:")
	if !ok {
		return nil, fmt.Errorf("malformed QR payload: missing CODE field")
	}

	points, err := strconv.Atoi(pointsPart)
	if err != nil || points < 0 {
		return nil, fmt.Errorf("malformed QR payload: invalid points")
	}
	if codePart == "" {
		return nil, fmt.Errorf("malformed QR payload: empty code")
	}

	return &QRPayload{Points: points, Code: codePart}, nil
}
