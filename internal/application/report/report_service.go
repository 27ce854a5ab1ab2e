package report

import (
	"context"
	"time"

	"github.com/microcredit/backend/internal/domain/report"
	"github.com/microcredit/backend/internal/domain/shared"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// SummaryCache stores rendered dashboard summaries keyed by period. A cache
// miss returns (nil, nil).
type SummaryCache interface {
	Get(ctx context.Context, key string) (*SummaryResponse, error)
	Set(ctx context.Context, key string, summary *SummaryResponse) error
	Invalidate(ctx context.Context) error
}

// SummaryQuery selects the dashboard period. Empty dates default to the
// current month.
type SummaryQuery struct {
	DateFrom string `form:"date_from" binding:"omitempty,datestr"`
	DateTo   string `form:"date_to" binding:"omitempty,datestr"`
	TopN     int    `form:"top_n" binding:"omitempty,min=1,max=50"`
}

// SummaryResponse is the full dashboard payload
type SummaryResponse struct {
	Summary        report.DashboardSummary       `json:"summary"`
	Trend          []report.CollectionTrendPoint `json:"trend"`
	Expenses       []report.ExpenseBreakdownItem `json:"expenses"`
	DelinquentTop  []report.DelinquentLoan       `json:"delinquent_top"`
	GeneratedAt    time.Time                     `json:"generated_at"`
	FromCache      bool                          `json:"from_cache"`
}

// Service assembles the dashboard from the report repository, with a
// cache-aside layer in front of the heavier queries.
type Service struct {
	reportRepo report.Repository
	cache      SummaryCache
	now        func() time.Time
}

// NewService creates a new report Service. The cache may be nil.
func NewService(reportRepo report.Repository, cache SummaryCache) *Service {
	return &Service{
		reportRepo: reportRepo,
		cache:      cache,
		now:        time.Now,
	}
}

// Summary returns the dashboard for the requested period
func (s *Service) Summary(ctx context.Context, query SummaryQuery) (*SummaryResponse, error) {
	filter, err := s.buildFilter(query)
	if err != nil {
		return nil, err
	}

	key := cacheKey(filter)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil && cached != nil {
			cached.FromCache = true
			return cached, nil
		}
	}

	summary, err := s.reportRepo.GetDashboardSummary(filter)
	if err != nil {
		return nil, err
	}
	trend, err := s.reportRepo.GetCollectionTrend(filter)
	if err != nil {
		return nil, err
	}
	expenses, err := s.reportRepo.GetExpenseBreakdown(filter)
	if err != nil {
		return nil, err
	}
	delinquent, err := s.reportRepo.GetDelinquentLoans(filter)
	if err != nil {
		return nil, err
	}

	response := &SummaryResponse{
		Summary:       *summary,
		Trend:         trend,
		Expenses:      expenses,
		DelinquentTop: delinquent,
		GeneratedAt:   s.now(),
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, response)
	}
	return response, nil
}

func (s *Service) buildFilter(query SummaryQuery) (report.ReportFilter, error) {
	now := s.now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0).AddDate(0, 0, -1)

	if query.DateFrom != "" {
		parsed, err := time.Parse(DateLayout, query.DateFrom)
		if err != nil {
			return report.ReportFilter{}, shared.NewDomainError("INVALID_DATE", "date_from must be formatted as YYYY-MM-DD")
		}
		start = parsed
	}
	if query.DateTo != "" {
		parsed, err := time.Parse(DateLayout, query.DateTo)
		if err != nil {
			return report.ReportFilter{}, shared.NewDomainError("INVALID_DATE", "date_to must be formatted as YYYY-MM-DD")
		}
		end = parsed
	}
	if end.Before(start) {
		return report.ReportFilter{}, shared.NewDomainError("INVALID_DATE", "date_to cannot precede date_from")
	}

	topN := query.TopN
	if topN <= 0 {
		topN = 10
	}

	return report.ReportFilter{StartDate: start, EndDate: end, TopN: topN}, nil
}

func cacheKey(filter report.ReportFilter) string {
	return "dashboard:" + filter.StartDate.Format(DateLayout) + ":" + filter.EndDate.Format(DateLayout)
}
