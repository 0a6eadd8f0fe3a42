package model

import "time"

// ScannedItem is one validated item added to a kiosk session.
type ScannedItem struct {
	Label      string    `json:"item"`
	Points     int       `json:"points"`
	CapturedAt time.Time `json:"timestamp"`
}

// Session accumulates scanned items and points for a single kiosk run.
// It lives only between creation and finalize (or expiry); the store owns
// it exclusively and never hands out the live struct.
type Session struct {
	ID             string
	Points         int
	Items          []ScannedItem
	CreatedAt      time.Time
	LastActivityAt time.Time
}

// SessionView is the read-only projection returned to clients.
type SessionView struct {
	Points    int           `json:"points"`
	ItemCount int           `json:"itemCount"`
	Items     []ScannedItem `json:"items"`
	CreatedAt time.Time     `json:"created"`
}

// SessionSnapshot is the immutable hand-off produced by finalize,
// from which a redemption token is minted.
type SessionSnapshot struct {
	Points int
	Items  []ScannedItem
}
