package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"listings_admin/internal/domain"
)

// ErrEmptyFeed is returned when the feed holds no <property> elements.
var ErrEmptyFeed = errors.New("no properties found in XML data")

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionFailed  = "failed"
)

type ImportResult struct {
	Reference string `json:"reference"`
	Action    string `json:"action"`
	ID        int64  `json:"id"`
}

type ImportError struct {
	Reference string `json:"reference"`
	Error     string `json:"error"`
}

type ImportReport struct {
	Message      string         `json:"message"`
	RunID        string         `json:"runId"`
	Total        int            `json:"total"`
	Processed    int            `json:"processed"`
	Errors       int            `json:"errors"`
	Results      []ImportResult `json:"results"`
	ErrorDetails []ImportError  `json:"errorDetails"`
}

// ImportService pulls the remote feed and upserts its properties by reference.
type ImportService struct {
	feed    domain.FeedClient
	props   *PropertyService
	workers int64

	// OnItem, when set, is called once per feed item with its action.
	OnItem func(action string)
}

func NewImportService(feed domain.FeedClient, props *PropertyService, workers int) *ImportService {
	if workers <= 0 {
		workers = 8
	}
	return &ImportService{feed: feed, props: props, workers: int64(workers)}
}

type itemOutcome struct {
	reference string
	action    string
	id        int64
	err       error
}

// Run imports the whole feed. Items sharing a reference are applied in feed
// order by one worker; distinct references run in parallel up to the worker limit.
// Per-item failures are reported, not returned.
func (s *ImportService) Run(ctx context.Context) (ImportReport, error) {
	runID := uuid.NewString()
	start := time.Now()
	logger := log.With().Str("run_id", runID).Logger()
	logger.Info().Msg("property import started")

	items, err := s.feed.FetchProperties(ctx)
	if err != nil {
		return ImportReport{}, err
	}
	if len(items) == 0 {
		return ImportReport{}, ErrEmptyFeed
	}

	outcomes := make([]itemOutcome, len(items))
	mapped := make([]domain.PropertyFields, len(items))
	groups := map[string][]int{}
	var order []string
	for i, it := range items {
		mapped[i] = mapFeedProperty(it)
		ref := mapped[i].Reference
		if _, ok := groups[ref]; !ok {
			order = append(order, ref)
		}
		groups[ref] = append(groups[ref], i)
	}

	sem := semaphore.NewWeighted(s.workers)
	var wg sync.WaitGroup
	for _, ref := range order {
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return ImportReport{}, err
		}
		idx := groups[ref]
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			for _, i := range idx {
				outcomes[i] = s.upsert(ctx, mapped[i])
			}
		}()
	}
	wg.Wait()

	rep := ImportReport{
		Message:      "Import completed",
		RunID:        runID,
		Total:        len(items),
		Results:      []ImportResult{},
		ErrorDetails: []ImportError{},
	}
	for _, o := range outcomes {
		if o.err != nil {
			ref := o.reference
			if ref == "" {
				ref = "unknown"
			}
			rep.ErrorDetails = append(rep.ErrorDetails, ImportError{Reference: ref, Error: o.err.Error()})
			logger.Warn().Str("reference", ref).Err(o.err).Msg("property import item failed")
			s.observe(ActionFailed)
			continue
		}
		rep.Results = append(rep.Results, ImportResult{Reference: o.reference, Action: o.action, ID: o.id})
		s.observe(o.action)
	}
	rep.Processed = len(rep.Results)
	rep.Errors = len(rep.ErrorDetails)

	logger.Info().
		Int("total", rep.Total).
		Int("processed", rep.Processed).
		Int("errors", rep.Errors).
		Dur("duration", time.Since(start)).
		Msg("property import finished")
	return rep, nil
}

func (s *ImportService) upsert(ctx context.Context, f domain.PropertyFields) itemOutcome {
	out := itemOutcome{reference: f.Reference}
	if f.Reference == "" {
		out.err = &ValidationError{Issues: []FieldIssue{{Field: "reference", Rule: "required", Message: "is required"}}}
		return out
	}

	existing, err := s.props.GetByReference(ctx, f.Reference)
	switch {
	case err == nil:
		f.IsDisabled = existing.IsDisabled
		p, err := s.props.Replace(ctx, existing.ID, f)
		if err != nil {
			out.err = err
			return out
		}
		out.action, out.id = ActionUpdated, p.ID
	case errors.Is(err, domain.ErrNotFound):
		p, err := s.props.Create(ctx, f)
		if err != nil {
			out.err = err
			return out
		}
		out.action, out.id = ActionCreated, p.ID
	default:
		out.err = err
	}
	return out
}

func (s *ImportService) observe(action string) {
	if s.OnItem != nil {
		s.OnItem(action)
	}
}
