// Package broadcast advertises the verified user's attendance
// identifier over short-range radio. The payload is a single service
// UUID, fire-and-forget; the scanning side is a separate, unmodified
// system. Real radio backends live behind the Advertiser interface.
package broadcast

import (
	"context"
	"crypto/md5"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Advertiser broadcasts a service identifier until stopped.
type Advertiser interface {
	Start(ctx context.Context, serviceID uuid.UUID) error
	Stop() error
}

// ServiceUUID derives the advertised service identifier from the user's
// session id: a version-3 (MD5 name-based) UUID over the id's string
// bytes, matching what the scanner expects.
func ServiceUUID(userID uuid.UUID) uuid.UUID {
	sum := md5.Sum([]byte(userID.String()))

	var out uuid.UUID
	copy(out[:], sum[:])
	out[6] = (out[6] & 0x0f) | 0x30 // version 3
	out[8] = (out[8] & 0x3f) | 0x80 // RFC 4122 variant

	return out
}

// LogAdvertiser is a stand-in radio backend that only logs transitions.
// Used in development and on hosts without an advertising radio.
type LogAdvertiser struct {
	logger *slog.Logger

	mu      sync.Mutex
	running bool
}

func NewLogAdvertiser(logger *slog.Logger) *LogAdvertiser {
	return &LogAdvertiser{logger: logger}
}

func (a *LogAdvertiser) Start(ctx context.Context, serviceID uuid.UUID) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return nil
	}
	a.running = true

	a.logger.Info("advertising attendance identifier",
		slog.String("service_uuid", serviceID.String()),
	)

	go func() {
		<-ctx.Done()
		_ = a.Stop()
	}()

	return nil
}

func (a *LogAdvertiser) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running {
		return nil
	}
	a.running = false
	a.logger.Info("advertising stopped")
	return nil
}

// Running reports whether the advertiser is active.
func (a *LogAdvertiser) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

var _ Advertiser = (*LogAdvertiser)(nil)
