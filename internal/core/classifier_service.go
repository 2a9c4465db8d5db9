package core

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/mikey/spam-model-trainer/internal/classifier"
	"github.com/mikey/spam-model-trainer/internal/whitelist"
)

// ClassifierService scores new messages with previously trained artifacts
type ClassifierService struct {
	repo       ArtifactRepository
	normalizer TextNormalizer
	logger     *zap.Logger
	whitelist  *whitelist.Checker
	threshold  float64
	topTokens  int

	mu        sync.Mutex
	artifacts *Artifacts
}

// NewClassifierService creates a new classifier service
func NewClassifierService(
	repo ArtifactRepository,
	normalizer TextNormalizer,
	logger *zap.Logger,
	threshold float64,
	whitelistedDomains []string,
	topTokens int,
) *ClassifierService {
	return &ClassifierService{
		repo:       repo,
		normalizer: normalizer,
		logger:     logger,
		whitelist:  whitelist.NewChecker(whitelistedDomains, logger),
		threshold:  threshold,
		topTokens:  topTokens,
	}
}

// Artifacts loads the artifacts on first use and caches them. A failed load
// is retried on the next call.
func (s *ClassifierService) Artifacts(ctx context.Context) (*Artifacts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.artifacts != nil {
		return s.artifacts, nil
	}
	a, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load artifacts: %w", err)
	}
	s.logger.Debug("Loaded artifacts",
		zap.String("run_id", a.RunID),
		zap.Int("vocabulary_size", a.Vectorizer.Size()))
	s.artifacts = a
	return a, nil
}

// Classify scores a single text.
func (s *ClassifierService) Classify(ctx context.Context, text string) (*Prediction, error) {
	a, err := s.Artifacts(ctx)
	if err != nil {
		return nil, err
	}

	x := a.Vectorizer.Transform(s.normalizer.Normalize(text))
	score := a.Model.Probability(x)

	contributions := lo.Filter(a.Model.Contributions(x), func(c classifier.Contribution, _ int) bool {
		return c.Value != 0
	})
	if s.topTokens >= 0 && len(contributions) > s.topTokens {
		contributions = contributions[:s.topTokens]
	}

	return &Prediction{
		Score:  score,
		IsSpam: s.exceeds(score),
		Tokens: lo.Map(contributions, func(c classifier.Contribution, _ int) TokenContribution {
			direction := Ham
			if c.Value > 0 {
				direction = Spam
			}
			return TokenContribution{Token: a.Vectorizer.Term(c.Index), Weight: c.Value, Direction: direction}
		}),
	}, nil
}

// AnalyzeEmail checks if an email is spam
func (s *ClassifierService) AnalyzeEmail(ctx context.Context, email *Email) (*SpamAnalysisResult, error) {
	if s.whitelist.IsWhitelisted(email.From) {
		s.logger.Info("Skipping spam check for whitelisted domain",
			zap.String("sender", email.From),
			zap.String("action", "whitelist_bypass"))

		return &SpamAnalysisResult{
			IsSpam:       false,
			Score:        0.0,
			Confidence:   1.0,
			Explanation:  "Sender domain is whitelisted",
			AnalyzedAt:   time.Now(),
			ModelUsed:    "whitelist",
			ProcessingID: uuid.NewString(),
		}, nil
	}

	pred, err := s.Classify(ctx, email.Text())
	if err != nil {
		return nil, err
	}
	a, err := s.Artifacts(ctx)
	if err != nil {
		return nil, err
	}

	return &SpamAnalysisResult{
		IsSpam:       pred.IsSpam,
		Score:        pred.Score,
		Confidence:   math.Max(pred.Score, 1-pred.Score),
		Explanation:  explain(pred),
		AnalyzedAt:   time.Now(),
		ModelUsed:    fmt.Sprintf("%s@%s", a.Name, a.RunID),
		ProcessingID: uuid.NewString(),
		Tokens:       pred.Tokens,
	}, nil
}

// IsSpam determines if an email is spam based on the threshold
func (s *ClassifierService) IsSpam(result *SpamAnalysisResult) bool {
	return s.exceeds(result.Score)
}

// exceeds is strict so that a 0.5 threshold agrees with Model.Predict.
func (s *ClassifierService) exceeds(score float64) bool {
	return score > s.threshold
}

func explain(p *Prediction) string {
	if len(p.Tokens) == 0 {
		return "No indicators found"
	}
	var parts []string
	for _, dir := range []Label{Spam, Ham} {
		terms := lo.FilterMap(p.Tokens, func(t TokenContribution, _ int) (string, bool) {
			return t.Token, t.Direction == dir
		})
		if len(terms) > 0 {
			parts = append(parts, fmt.Sprintf("Top %s indicators: %s", dir, strings.Join(terms, ", ")))
		}
	}
	return strings.Join(parts, "; ")
}
