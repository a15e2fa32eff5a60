package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"leads-manager/pkg/clients/airtable"
	"leads-manager/pkg/config"
	"leads-manager/pkg/leadcache"
	"leads-manager/pkg/metrics"
	"leads-manager/pkg/models"
)

// listPageSize is the fixed page size for the dashboard; pagination beyond
// one page is supported by the client contract but not exercised here.
const listPageSize = 100

// ErrEmptyUpdate is returned when an update request resolves to no remote
// fields at all. It is rejected before any remote call is made.
var ErrEmptyUpdate = errors.New("no fields provided")

// UpdateRequest is the editable subset of a lead. Nil pointers mean
// "unchanged"; Fields are raw remote field names passed through untouched.
type UpdateRequest struct {
	Status       *string                `json:"status"`
	Notes        *string                `json:"notes"`
	FollowUpDate *string                `json:"followUpDate"`
	Fields       map[string]interface{} `json:"fields"`
}

// DayCount is one histogram bucket of the leads-by-day chart.
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// Metrics are the dashboard's aggregate cards.
type Metrics struct {
	Total     int `json:"total"`
	New7d     int `json:"new7d"`
	Contacted int `json:"contacted"`
	Won       int `json:"won"`
}

// Summary bundles the aggregates and the 14-day histogram.
type Summary struct {
	Metrics Metrics    `json:"metrics"`
	ByDay   []DayCount `json:"byDay"`
}

// LeadService defines the operations behind the dashboard
type LeadService interface {
	// ListLeads fetches the current lead list from Airtable and refreshes
	// the local cache.
	ListLeads(ctx context.Context) ([]models.Lead, error)
	// UpdateLead applies an edit optimistically to the cache, patches the
	// remote record, and either revalidates or rolls back.
	UpdateLead(ctx context.Context, id string, req UpdateRequest) (models.Lead, error)
	// Summary computes the dashboard aggregates from a fresh lead list.
	Summary(ctx context.Context) (*Summary, error)
}

type leadServiceImpl struct {
	client airtable.Client
	cache  *leadcache.Cache
	config *config.Config
	logger *zap.Logger
}

// NewLeadService creates a new lead service
func NewLeadService(client airtable.Client, cache *leadcache.Cache, cfg *config.Config, logger *zap.Logger) LeadService {
	return &leadServiceImpl{
		client: client,
		cache:  cache,
		config: cfg,
		logger: logger,
	}
}

func (s *leadServiceImpl) ListLeads(ctx context.Context) ([]models.Lead, error) {
	version := s.cache.Version()

	leads, _, err := s.client.ListLeads(ctx, airtable.ListOptions{PageSize: listPageSize})
	if err != nil {
		return nil, fmt.Errorf("error fetching leads: %w", err)
	}

	// Don't clobber a cache generation written while the fetch was in
	// flight (an overlapping optimistic edit); the stale response still
	// goes back to this caller.
	if !s.cache.CompareAndReplace(version, leads) {
		s.logger.Debug("list response lost the cache race", zap.Uint64("version", version))
	}
	metrics.CachedLeads.Set(float64(s.cache.Len()))

	return leads, nil
}

func (s *leadServiceImpl) UpdateLead(ctx context.Context, id string, req UpdateRequest) (models.Lead, error) {
	fields := s.buildFieldPayload(req)
	if len(fields) == 0 {
		return models.Lead{}, ErrEmptyUpdate
	}

	// Optimistic phase: mutate the cached lead before the round trip and
	// keep the pre-edit snapshot for rollback.
	prev, cached := s.cache.Apply(id, func(l *models.Lead) {
		if req.Status != nil {
			l.Status = *req.Status
		}
		if req.Notes != nil {
			l.Notes = *req.Notes
		}
		if req.FollowUpDate != nil {
			l.FollowUpDate = *req.FollowUpDate
		}
	})

	updated, err := s.client.UpdateLead(ctx, id, fields)
	if err != nil {
		if cached {
			s.cache.Restore(prev)
			metrics.EditRollbacks.Inc()
			s.logger.Warn("rolled back optimistic edit",
				zap.String("id", id),
				zap.Error(err))
		}
		return models.Lead{}, fmt.Errorf("error updating lead: %w", err)
	}

	// Commit phase: replace the optimistic guess with authoritative state.
	// A failed revalidation keeps the guess; the next list reconciles.
	if leads, _, err := s.client.ListLeads(ctx, airtable.ListOptions{PageSize: listPageSize}); err != nil {
		s.logger.Warn("revalidation after update failed", zap.String("id", id), zap.Error(err))
	} else {
		s.cache.Replace(leads)
		metrics.CachedLeads.Set(float64(len(leads)))
	}

	return updated, nil
}

// buildFieldPayload translates an update request into remote field names.
// Raw Fields merge first so the recognized shortcuts take precedence.
func (s *leadServiceImpl) buildFieldPayload(req UpdateRequest) map[string]interface{} {
	fields := make(map[string]interface{}, len(req.Fields)+3)
	for k, v := range req.Fields {
		fields[k] = v
	}

	if req.Status != nil {
		fields[s.config.StatusField] = *req.Status
	}
	if req.Notes != nil {
		field := s.config.NotesField
		if field == "" {
			field = "Notes"
		}
		fields[field] = *req.Notes
	}
	if req.FollowUpDate != nil {
		field := s.config.FollowupField
		if field == "" {
			field = "Follow up date"
		}
		fields[field] = *req.FollowUpDate
	}

	return fields
}

func (s *leadServiceImpl) Summary(ctx context.Context) (*Summary, error) {
	leads, err := s.ListLeads(ctx)
	if err != nil {
		return nil, err
	}
	return BuildSummary(leads, time.Now()), nil
}

// BuildSummary computes the aggregate cards and the 14-day histogram from a
// lead list. Split out so the aggregation is testable with a fixed clock.
func BuildSummary(leads []models.Lead, now time.Time) *Summary {
	sevenDaysAgo := now.Add(-7 * 24 * time.Hour)

	m := Metrics{Total: len(leads)}
	for _, l := range leads {
		status := strings.ToLower(l.Status)
		if status != "" && status != "new" {
			m.Contacted++
		}
		if status == "won" || status == "win" {
			m.Won++
		}
		if t, err := time.Parse(time.RFC3339, l.CreatedTime); err == nil && !t.Before(sevenDaysAgo) {
			m.New7d++
		}
	}

	const days = 14
	byDay := make([]DayCount, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		day := now.UTC().AddDate(0, 0, i-days+1).Format("2006-01-02")
		byDay[i] = DayCount{Day: day}
		index[day] = i
	}
	for _, l := range leads {
		t, err := time.Parse(time.RFC3339, l.CreatedTime)
		if err != nil {
			continue
		}
		if i, ok := index[t.UTC().Format("2006-01-02")]; ok {
			byDay[i].Count++
		}
	}

	return &Summary{Metrics: m, ByDay: byDay}
}
