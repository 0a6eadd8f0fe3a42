package store

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecosort/kiosk-server-go/internal/model"
)

func snapshot(points int, labels ...string) *model.SessionSnapshot {
	items := make([]model.ScannedItem, 0, len(labels))
	for _, label := range labels {
		items = append(items, model.ScannedItem{Label: label, Points: points / len(labels), CapturedAt: time.Now()})
	}
	return &model.SessionSnapshot{Points: points, Items: items}
}

func TestTokenStoreMint(t *testing.T) {
	t.Run("mints token carrying snapshot points", func(t *testing.T) {
		s := NewTokenStore(time.Hour)

		token, err := s.Mint(snapshot(35, "Plastic Bottle", "Aluminum Can"))
		require.NoError(t, err)
		assert.Equal(t, 35, token.Points)
		assert.Len(t, token.Items, 2)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("codes use the unambiguous charset", func(t *testing.T) {
		s := NewTokenStore(time.Hour)
		pattern := regexp.MustCompile(`^[A-HJ-NP-Z2-9]{12}$`)

		for i := 0; i < 50; i++ {
			token, err := s.Mint(snapshot(10, "Paper Cup"))
			require.NoError(t, err)
			assert.True(t, pattern.MatchString(token.Code), "unexpected code format: %s", token.Code)
		}
	})

	t.Run("mints distinct codes", func(t *testing.T) {
		s := NewTokenStore(time.Hour)
		codes := make(map[string]bool)

		for i := 0; i < 200; i++ {
			token, err := s.Mint(snapshot(10, "Paper Cup"))
			require.NoError(t, err)
			assert.False(t, codes[token.Code], "duplicate code: %s", token.Code)
			codes[token.Code] = true
		}
	})

	t.Run("token is detached from the snapshot", func(t *testing.T) {
		s := NewTokenStore(time.Hour)
		snap := snapshot(25, "Glass Bottle")

		token, err := s.Mint(snap)
		require.NoError(t, err)

		snap.Items[0].Points = 9999
		assert.Equal(t, 25, token.Items[0].Points)
	})
}

func TestTokenStoreClaim(t *testing.T) {
	t.Run("first claim succeeds with minted points", func(t *testing.T) {
		s := NewTokenStore(time.Hour)
		token, err := s.Mint(snapshot(35, "Plastic Bottle", "Aluminum Can"))
		require.NoError(t, err)

		claimed, ok := s.Claim(token.Code)
		require.True(t, ok)
		assert.Equal(t, 35, claimed.Points)
	})

	t.Run("second claim observes absence", func(t *testing.T) {
		s := NewTokenStore(time.Hour)
		token, err := s.Mint(snapshot(20, "Aluminum Can"))
		require.NoError(t, err)

		_, ok := s.Claim(token.Code)
		require.True(t, ok)

		_, ok = s.Claim(token.Code)
		assert.False(t, ok)
	})

	t.Run("unknown code observes absence", func(t *testing.T) {
		s := NewTokenStore(time.Hour)

		_, ok := s.Claim("NEVERMINTED99")
		assert.False(t, ok)
	})

	t.Run("exactly one of N concurrent claims succeeds", func(t *testing.T) {
		s := NewTokenStore(time.Hour)
		token, err := s.Mint(snapshot(35, "Plastic Bottle", "Aluminum Can"))
		require.NoError(t, err)

		const claimers = 50
		var wg sync.WaitGroup
		results := make(chan bool, claimers)

		for i := 0; i < claimers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, ok := s.Claim(token.Code)
				results <- ok
			}()
		}
		wg.Wait()
		close(results)

		successes := 0
		for ok := range results {
			if ok {
				successes++
			}
		}
		assert.Equal(t, 1, successes)
		assert.Equal(t, 0, s.Len())
	})

	t.Run("expired token is unclaimable before the sweep runs", func(t *testing.T) {
		s := NewTokenStore(10 * time.Millisecond)
		token, err := s.Mint(snapshot(15, "Plastic Bottle"))
		require.NoError(t, err)

		time.Sleep(20 * time.Millisecond)

		_, ok := s.Claim(token.Code)
		assert.False(t, ok)
	})
}

func TestTokenStoreDeleteExpired(t *testing.T) {
	t.Run("sweeps only stale tokens", func(t *testing.T) {
		s := NewTokenStore(30 * time.Millisecond)

		stale, err := s.Mint(snapshot(15, "Plastic Bottle"))
		require.NoError(t, err)

		time.Sleep(40 * time.Millisecond)

		fresh, err := s.Mint(snapshot(20, "Aluminum Can"))
		require.NoError(t, err)

		removed := s.DeleteExpired()
		assert.Equal(t, 1, removed)

		_, ok := s.Claim(stale.Code)
		assert.False(t, ok)
		_, ok = s.Claim(fresh.Code)
		assert.True(t, ok)
	})
}
