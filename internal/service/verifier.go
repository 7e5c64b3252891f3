package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/insighted-labs/presence/internal/domain"
)

type ProfileRepositoryInterface interface {
	GetEmbedding(ctx context.Context, userID uuid.UUID) (domain.Embedding, error)
	RegisterEmbedding(ctx context.Context, userID uuid.UUID, embedding domain.Embedding) error
}

type VerificationRepositoryInterface interface {
	Create(ctx context.Context, v *domain.Verification) error
}

// DefaultDistanceThreshold is tuned for this embedding space (128-dim,
// L2-normalized, distances in [0,2]) and must be re-derived if the
// model changes.
const DefaultDistanceThreshold = 1.3

// DefaultStoreTimeout bounds each profile-store round trip so a dead
// link surfaces as a store error instead of a hung verification.
const DefaultStoreTimeout = 8 * time.Second

// Verifier compares a freshly captured embedding against the user's
// stored profile, registering the embedding when no profile exists yet.
type Verifier struct {
	profileRepo      ProfileRepositoryInterface
	verificationRepo VerificationRepositoryInterface
	logger           *slog.Logger
	threshold        float64
	storeTimeout     time.Duration
}

func NewVerifier(
	profileRepo ProfileRepositoryInterface,
	verificationRepo VerificationRepositoryInterface,
	logger *slog.Logger,
) *Verifier {
	return &Verifier{
		profileRepo:      profileRepo,
		verificationRepo: verificationRepo,
		logger:           logger,
		threshold:        DefaultDistanceThreshold,
		storeTimeout:     DefaultStoreTimeout,
	}
}

func (s *Verifier) WithThreshold(threshold float64) *Verifier {
	s.threshold = threshold
	return s
}

func (s *Verifier) WithStoreTimeout(d time.Duration) *Verifier {
	s.storeTimeout = d
	return s
}

// Verify produces the decision for one embed-and-compare cycle.
//
// Store failures (lookup, write, timeout) yield DecisionStoreError,
// never DecisionRejected: a dead database is not a mismatched face. A
// zero-norm embedding is returned as an error: the attempt is fatal
// and must not degrade into a bogus distance.
func (s *Verifier) Verify(ctx context.Context, userID uuid.UUID, raw domain.Embedding) (*domain.Verification, error) {
	start := time.Now()

	if userID == uuid.Nil {
		// no identity to audit against; the session layer must
		// re-establish one before another attempt
		return &domain.Verification{
			UserID:    userID,
			Decision:  domain.DecisionSessionError,
			LatencyMs: time.Since(start).Milliseconds(),
		}, nil
	}

	fresh, err := raw.Normalize()
	if err != nil {
		return nil, fmt.Errorf("user %s: normalize embedding: %w", userID, err)
	}

	stored, err := s.getStored(ctx, userID)

	if errors.Is(err, domain.ErrProfileNotFound) {
		return s.register(ctx, userID, fresh, start)
	}
	if err != nil {
		s.logger.Warn("profile lookup failed", slog.String("user_id", userID.String()), slog.Any("error", err))
		return s.audit(ctx, &domain.Verification{
			UserID:   userID,
			Decision: domain.DecisionStoreError,
		}, start), nil
	}

	return s.compare(ctx, userID, fresh, stored, start)
}

func (s *Verifier) register(ctx context.Context, userID uuid.UUID, fresh domain.Embedding, start time.Time) (*domain.Verification, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	err := s.profileRepo.RegisterEmbedding(storeCtx, userID, fresh)

	if errors.Is(err, domain.ErrProfileExists) {
		// lost a concurrent first-registration race; compare against
		// the profile that won
		stored, err := s.getStored(ctx, userID)
		if err != nil {
			return s.audit(ctx, &domain.Verification{
				UserID:   userID,
				Decision: domain.DecisionStoreError,
			}, start), nil
		}
		return s.compare(ctx, userID, fresh, stored, start)
	}
	if err != nil {
		s.logger.Warn("profile registration failed", slog.String("user_id", userID.String()), slog.Any("error", err))
		return s.audit(ctx, &domain.Verification{
			UserID:   userID,
			Decision: domain.DecisionStoreError,
		}, start), nil
	}

	s.logger.Info("face profile registered", slog.String("user_id", userID.String()))

	return s.audit(ctx, &domain.Verification{
		UserID:     userID,
		Decision:   domain.DecisionVerified,
		Registered: true,
	}, start), nil
}

func (s *Verifier) compare(ctx context.Context, userID uuid.UUID, fresh, stored domain.Embedding, start time.Time) (*domain.Verification, error) {
	// stored vectors from older app versions may predate normalization
	storedNorm, err := stored.Normalize()
	if err != nil {
		return nil, fmt.Errorf("user %s: stored embedding corrupt: %w", userID, err)
	}

	distance := domain.EuclideanDistance(fresh, storedNorm)

	decision := domain.DecisionRejected
	if distance < s.threshold {
		decision = domain.DecisionVerified
	}

	s.logger.Debug("face compared",
		slog.String("user_id", userID.String()),
		slog.Float64("distance", distance),
		slog.String("decision", decision.String()),
	)

	return s.audit(ctx, &domain.Verification{
		UserID:   userID,
		Decision: decision,
		Distance: distance,
	}, start), nil
}

func (s *Verifier) getStored(ctx context.Context, userID uuid.UUID) (domain.Embedding, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	return s.profileRepo.GetEmbedding(storeCtx, userID)
}

// audit records the attempt best-effort; the decision was already made
// and a failed audit write must not change it.
func (s *Verifier) audit(ctx context.Context, v *domain.Verification, start time.Time) *domain.Verification {
	v.LatencyMs = time.Since(start).Milliseconds()

	auditCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if err := s.verificationRepo.Create(auditCtx, v); err != nil {
		s.logger.Warn("verification audit write failed", slog.Any("error", err))
	}

	return v
}
