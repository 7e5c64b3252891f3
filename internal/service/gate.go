package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/insighted-labs/presence/internal/camera"
	"github.com/insighted-labs/presence/internal/detector"
	"github.com/insighted-labs/presence/internal/domain"
	"github.com/insighted-labs/presence/internal/embedder"
)

// State is the session gate's position in the verification flow.
type State int

const (
	StateIdle State = iota
	StateCapturing
	StateVerifying
	StateVerified
	StateRejected
	StateSessionError
	StateStoreError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCapturing:
		return "capturing"
	case StateVerifying:
		return "verifying"
	case StateVerified:
		return "verified"
	case StateRejected:
		return "rejected"
	case StateSessionError:
		return "session_error"
	case StateStoreError:
		return "store_error"
	default:
		return "unknown"
	}
}

// SessionSource reports the device's active user, if any.
type SessionSource interface {
	Active() (uuid.UUID, bool)
}

// VerifierInterface is the embed-compare-decide step the gate drives.
type VerifierInterface interface {
	Verify(ctx context.Context, userID uuid.UUID, raw domain.Embedding) (*domain.Verification, error)
}

// Status is a point-in-time snapshot of the gate for diagnostics.
type Status struct {
	State        State           `json:"state"`
	Decision     domain.Decision `json:"decision"`
	StatusText   string          `json:"status_text"`
	LastDistance float64         `json:"last_distance"`
	HasSession   bool            `json:"has_session"`
}

// SessionGate owns the verification pipeline's state machine: it pulls
// frames, gates them down to one acceptable face, runs one
// embed-and-compare cycle at a time, and fires the success callback at
// most once per gate instance.
//
// Rejected and store-error outcomes return the gate to capturing so
// the user can retry; a missing session identifier is terminal for the
// attempt until the session layer re-establishes identity.
type SessionGate struct {
	source   camera.Source
	det      detector.Detector
	quality  *detector.QualityGate
	embedder embedder.Embedder
	verifier VerifierInterface
	sessions SessionSource
	logger   *slog.Logger

	onVerified func(userID uuid.UUID)
	once       sync.Once

	mu           sync.Mutex
	state        State
	decision     domain.Decision
	lastDistance float64
	processing   bool
	done         bool
}

func NewSessionGate(
	source camera.Source,
	det detector.Detector,
	quality *detector.QualityGate,
	emb embedder.Embedder,
	verifier VerifierInterface,
	sessions SessionSource,
	logger *slog.Logger,
	onVerified func(userID uuid.UUID),
) *SessionGate {
	return &SessionGate{
		source:     source,
		det:        det,
		quality:    quality,
		embedder:   emb,
		verifier:   verifier,
		sessions:   sessions,
		logger:     logger,
		onVerified: onVerified,
		state:      StateIdle,
		decision:   domain.DecisionPending,
	}
}

// Run drives the analysis loop until the context is cancelled or the
// frame source closes. Each frame is released exactly once on every
// exit path of its cycle.
func (g *SessionGate) Run(ctx context.Context) error {
	g.setState(StateCapturing)

	for {
		frame, err := g.source.Next(ctx)
		if err != nil {
			if errors.Is(err, camera.ErrSourceClosed) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}

		g.analyze(ctx, frame)

		if ctx.Err() != nil {
			return nil
		}
	}
}

// analyze runs one cycle over one frame. The deferred release makes the
// frame accounting structural: every path out of this function returns
// the buffer.
func (g *SessionGate) analyze(ctx context.Context, frame *camera.Frame) {
	defer frame.Release()

	if !g.beginCycle() {
		// verification already in flight or gate finished: drop the frame
		return
	}
	defer g.endCycle()

	candidates, err := g.det.Detect(ctx, frame)
	if err != nil {
		g.logger.Error("face detection failed", slog.Any("error", err))
		return
	}

	cand, err := g.quality.Select(candidates)
	if err != nil {
		// expected rejects: no face, too small, eyes closed
		g.logger.Debug("frame rejected", slog.String("reason", err.Error()))
		return
	}

	crop, err := detector.Crop(frame, cand.Box)
	if err != nil {
		g.logger.Debug("crop discarded", slog.Any("error", err))
		return
	}

	g.setState(StateVerifying)
	g.setDecision(domain.DecisionPending, 0)

	userID, ok := g.sessions.Active()
	if !ok {
		g.logger.Warn("verification attempted without active session",
			slog.Any("error", domain.ErrNoActiveSession))
		g.setState(StateSessionError)
		g.setDecision(domain.DecisionSessionError, 0)
		return
	}

	raw, err := g.embedder.Embed(ctx, crop)
	if err != nil {
		g.logger.Error("embedding failed", slog.Any("error", err))
		g.setState(StateCapturing)
		return
	}

	result, err := g.verifier.Verify(ctx, userID, raw)
	if err != nil {
		// invariant violation (zero-norm embedding): fatal for the
		// attempt, distinct from a mismatch
		g.logger.Error("verification attempt failed", slog.Any("error", err))
		g.setState(StateCapturing)
		return
	}

	g.setDecision(result.Decision, result.Distance)

	switch result.Decision {
	case domain.DecisionVerified:
		g.setState(StateVerified)
		g.finish(ctx, userID)
	case domain.DecisionRejected:
		g.setState(StateRejected)
		// not terminal: allow another capture
		g.setState(StateCapturing)
	case domain.DecisionSessionError:
		g.setState(StateSessionError)
	case domain.DecisionStoreError:
		g.setState(StateStoreError)
		g.setState(StateCapturing)
	}
}

// finish fires the one-shot success callback unless the gate was torn
// down mid-cycle.
func (g *SessionGate) finish(ctx context.Context, userID uuid.UUID) {
	g.mu.Lock()
	g.done = true
	g.mu.Unlock()

	if ctx.Err() != nil {
		return
	}

	g.once.Do(func() {
		if g.onVerified != nil {
			g.onVerified(userID)
		}
	})
}

// beginCycle acquires the single-flight latch. Frames that arrive while
// a cycle is in progress, or after a successful verification, are
// ignored rather than queued.
func (g *SessionGate) beginCycle() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.processing || g.done {
		return false
	}
	g.processing = true
	return true
}

func (g *SessionGate) endCycle() {
	g.mu.Lock()
	g.processing = false
	g.mu.Unlock()
}

func (g *SessionGate) setState(s State) {
	g.mu.Lock()
	g.state = s
	g.mu.Unlock()
}

func (g *SessionGate) setDecision(d domain.Decision, distance float64) {
	g.mu.Lock()
	g.decision = d
	g.lastDistance = distance
	g.mu.Unlock()
}

// Status returns a snapshot for the diagnostics endpoint.
func (g *SessionGate) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, hasSession := g.sessions.Active()

	return Status{
		State:        g.state,
		Decision:     g.decision,
		StatusText:   g.decision.StatusText(),
		LastDistance: g.lastDistance,
		HasSession:   hasSession,
	}
}
