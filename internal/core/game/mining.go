package game

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/voidrunner/voidrunner/internal/core"
	"github.com/voidrunner/voidrunner/internal/core/api"
)

// SurveyCache optionally persists surveys across restarts.
type SurveyCache interface {
	SaveSurvey(ctx context.Context, survey core.Survey) error
	LoadSurveys(ctx context.Context) ([]core.Survey, error)
	DeleteExpiredSurveys(ctx context.Context, now time.Time) error
}

// ExtractionRecord is one completed extraction, kept for yield stats.
type ExtractionRecord struct {
	SurveySignature string
	Extraction      core.Extraction
	At              time.Time
}

// ExtractionStats summarizes past extractions.
type ExtractionStats struct {
	Extractions  int
	AverageYield float64
	SuccessRate  float64
}

// SurveyManager tracks active surveys by signature and routes
// extractions through the best matching survey.
type SurveyManager struct {
	Client *api.Client
	Cache  SurveyCache
	Logger *zap.Logger

	// Clock is injectable for expiry tests.
	Clock func() time.Time

	mu      sync.Mutex
	surveys map[string]core.Survey
	history []ExtractionRecord
}

func (m *SurveyManager) now() time.Time {
	if m.Clock != nil {
		return m.Clock()
	}
	return time.Now().UTC()
}

// Restore loads persisted surveys into the in-memory set.
func (m *SurveyManager) Restore(ctx context.Context) error {
	if m.Cache == nil {
		return nil
	}
	surveys, err := m.Cache.LoadSurveys(ctx)
	if err != nil {
		return err
	}
	for _, survey := range surveys {
		m.Add(ctx, survey)
	}
	return nil
}

// Add tracks a survey. Already-expired surveys are dropped.
func (m *SurveyManager) Add(ctx context.Context, survey core.Survey) {
	if !m.now().Before(survey.Expiration) {
		return
	}

	m.mu.Lock()
	if m.surveys == nil {
		m.surveys = make(map[string]core.Survey)
	}
	m.surveys[survey.Signature] = survey
	m.mu.Unlock()

	if m.Cache != nil {
		if err := m.Cache.SaveSurvey(ctx, survey); err != nil && m.Logger != nil {
			m.Logger.Warn("persist survey failed",
				zap.String("signature", survey.Signature),
				zap.Error(err))
		}
	}
}

// Active returns the non-expired surveys.
func (m *SurveyManager) Active() []core.Survey {
	m.expire()
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.Survey, 0, len(m.surveys))
	for _, survey := range m.surveys {
		out = append(out, survey)
	}
	return out
}

// ForWaypoint returns active surveys of one waypoint.
func (m *SurveyManager) ForWaypoint(waypoint string) []core.Survey {
	var out []core.Survey
	for _, survey := range m.Active() {
		if survey.Symbol == waypoint {
			out = append(out, survey)
		}
	}
	return out
}

// Best returns the active survey with the most deposits of the given
// resource, or false when none match.
func (m *SurveyManager) Best(resource string) (core.Survey, bool) {
	var best core.Survey
	bestCount := 0
	for _, survey := range m.Active() {
		count := 0
		for _, deposit := range survey.Deposits {
			if deposit.Symbol == resource {
				count++
			}
		}
		if count > bestCount {
			best, bestCount = survey, count
		}
	}
	return best, bestCount > 0
}

// CreateSurvey surveys the ship's waypoint and tracks the results.
// Returns the surveys found and the imposed cooldown.
func (m *SurveyManager) CreateSurvey(ctx context.Context, shipSymbol string) ([]core.Survey, *core.Cooldown, error) {
	result, err := m.Client.CreateSurvey(ctx, shipSymbol)
	if err != nil {
		return nil, nil, err
	}
	for _, survey := range result.Surveys {
		m.Add(ctx, survey)
	}
	return result.Surveys, &result.Cooldown, nil
}

// Extract mines the ship's waypoint, passing a survey through when one
// is given, and records the yield.
func (m *SurveyManager) Extract(ctx context.Context, shipSymbol string, survey *core.Survey) (*api.ExtractResult, error) {
	result, err := m.Client.ExtractResources(ctx, shipSymbol, survey)
	if err != nil {
		return nil, err
	}

	record := ExtractionRecord{Extraction: result.Extraction, At: m.now()}
	if survey != nil {
		record.SurveySignature = survey.Signature
	}
	m.mu.Lock()
	m.history = append(m.history, record)
	m.mu.Unlock()

	if m.Logger != nil {
		m.Logger.Info("extracted",
			zap.String("ship", shipSymbol),
			zap.String("good", result.Extraction.Yield.Symbol),
			zap.Int("units", result.Extraction.Yield.Units))
	}
	return result, nil
}

// Stats summarizes extractions, optionally filtered to one resource.
func (m *SurveyManager) Stats(resource string) ExtractionStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	var relevant []ExtractionRecord
	for _, record := range m.history {
		if resource == "" || record.Extraction.Yield.Symbol == resource {
			relevant = append(relevant, record)
		}
	}
	if len(relevant) == 0 {
		return ExtractionStats{}
	}

	totalYield, successes := 0, 0
	for _, record := range relevant {
		totalYield += record.Extraction.Yield.Units
		if record.Extraction.Yield.Units > 0 {
			successes++
		}
	}
	return ExtractionStats{
		Extractions:  len(relevant),
		AverageYield: float64(totalYield) / float64(len(relevant)),
		SuccessRate:  float64(successes) / float64(len(relevant)),
	}
}

func (m *SurveyManager) expire() {
	now := m.now()

	m.mu.Lock()
	for signature, survey := range m.surveys {
		if !now.Before(survey.Expiration) {
			delete(m.surveys, signature)
		}
	}
	m.mu.Unlock()

	if m.Cache != nil {
		if err := m.Cache.DeleteExpiredSurveys(context.Background(), now); err != nil && m.Logger != nil {
			m.Logger.Warn("expire persisted surveys failed", zap.Error(err))
		}
	}
}
