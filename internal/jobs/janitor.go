package jobs

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ecosort/kiosk-server-go/internal/store"
)

// Janitor periodically sweeps stale sessions and unclaimed tokens so
// abandoned kiosks and unscanned QR codes cannot grow memory without
// bound.
type Janitor struct {
	sessions *store.SessionStore
	tokens   *store.TokenStore
	interval time.Duration
	done     chan struct{}
}

func NewJanitor(sessions *store.SessionStore, tokens *store.TokenStore, interval time.Duration) *Janitor {
	return &Janitor{
		sessions: sessions,
		tokens:   tokens,
		interval: interval,
		done:     make(chan struct{}),
	}
}

func (j *Janitor) Start() {
	go j.run()
	log.Info().Dur("interval", j.interval).Msg("janitor started")
}

func (j *Janitor) Stop() {
	close(j.done)
	log.Info().Msg("janitor stopped")
}

func (j *Janitor) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.sweep()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.sweep()
		}
	}
}

func (j *Janitor) sweep() {
	if count := j.sessions.DeleteExpired(); count > 0 {
		log.Info().Int("count", count).Msg("expired stale sessions")
	}
	if count := j.tokens.DeleteExpired(); count > 0 {
		log.Info().Int("count", count).Msg("expired unclaimed tokens")
	}
}
