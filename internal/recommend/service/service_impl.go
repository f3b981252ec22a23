package service

import (
	"context"
	"time"

	catalogdomain "github.com/beanbook/beanbook/internal/catalog/domain"
	"github.com/beanbook/beanbook/internal/clock"
	"github.com/beanbook/beanbook/internal/config"
	offersdomain "github.com/beanbook/beanbook/internal/offers/domain"
	ordersdomain "github.com/beanbook/beanbook/internal/orders/domain"
	"github.com/beanbook/beanbook/internal/recommend/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const recentHistorySize = 5

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Orders  ordersdomain.Repository
	Offers  offersdomain.Service
	Advisor domain.Advisor
	Prefs   config.Preferences
	Clock   clock.Clock
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	orders  ordersdomain.Repository
	offers  offersdomain.Service
	advisor domain.Advisor
	prefs   config.Preferences
	clock   clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("recommend.service"),
		orders:  p.Orders,
		offers:  p.Offers,
		advisor: p.Advisor,
		prefs:   p.Prefs,
		clock:   p.Clock,
	}
}

func (s *Service) Spending(ctx context.Context) (domain.SpendingSummary, error) {
	history, err := s.orders.FindAll(ctx, s.db)
	if err != nil {
		return domain.SpendingSummary{}, err
	}
	return s.summarize(history), nil
}

func (s *Service) summarize(history []ordersdomain.OrderRecord) domain.SpendingSummary {
	now := s.clock.Now()

	monthSpend := func(year int, month time.Month) float64 {
		var total float64
		for _, order := range history {
			d := order.OrderDate
			if d.Year() == year && d.Month() == month {
				total += order.PricePaid
			}
		}
		return total
	}

	summary := domain.SpendingSummary{
		CurrentMonth: monthSpend(now.Year(), now.Month()),
	}

	var trailing float64
	for i := 1; i <= 3; i++ {
		y, m := shiftMonth(now.Year(), now.Month(), -i)
		spend := monthSpend(y, m)
		if i == 1 {
			summary.LastMonth = spend
		}
		trailing += spend
	}
	summary.ThreeMonthAverage = trailing / 3
	return summary
}

func shiftMonth(year int, month time.Month, delta int) (int, time.Month) {
	m := int(month) + delta
	for m <= 0 {
		m += 12
		year--
	}
	for m > 12 {
		m -= 12
		year++
	}
	return year, time.Month(m)
}

// histograms counts ledger occurrences per roaster, origin country and
// process method. Unset values stay out of their histogram.
func histograms(history []ordersdomain.OrderRecord) (roasters, origins, processes domain.Histogram) {
	roasters = domain.Histogram{}
	origins = domain.Histogram{}
	processes = domain.Histogram{}
	for _, order := range history {
		if order.RoasterName != "" {
			roasters[order.RoasterName]++
		}
		if order.OriginCountry != "" {
			origins[order.OriginCountry]++
		}
		if order.ProcessMethod != "" {
			processes[order.ProcessMethod]++
		}
	}
	return roasters, origins, processes
}

func (s *Service) budget(summary domain.SpendingSummary) domain.BudgetState {
	ceiling := s.prefs.MonthlyBudget
	flexibility := s.prefs.BudgetFlexibility
	return domain.BudgetState{
		Ceiling:        ceiling,
		Remaining:      ceiling - summary.CurrentMonth,
		Flexibility:    flexibility,
		MaxExceptional: ceiling * (1 + flexibility),
	}
}

func (s *Service) Recommend(ctx context.Context) (domain.Recommendation, error) {
	history, err := s.orders.FindAll(ctx, s.db)
	if err != nil {
		return domain.Recommendation{}, err
	}

	// The availability view excludes every purchased identity by
	// construction; no further filtering happens here.
	candidates, err := s.offers.UnorderedOffers(ctx, catalogdomain.CoffeeTypeSingleOrigin)
	if err != nil {
		return domain.Recommendation{}, err
	}
	if len(candidates) == 0 {
		return domain.Recommendation{}, domain.ErrNoCandidates
	}

	summary := s.summarize(history)
	budget := s.budget(summary)
	roasters, origins, processes := histograms(history)

	recent := history
	if len(recent) > recentHistorySize {
		recent = recent[:recentHistorySize]
	}

	prompt := buildPrompt(promptInput{
		Recent:     recent,
		Candidates: candidates,
		Roasters:   roasters,
		Origins:    origins,
		Processes:  processes,
		Budget:     budget,
	})

	response, err := s.advisor.Advise(ctx, prompt)
	if err != nil {
		return domain.Recommendation{}, err
	}

	identity, explanation, err := parseAdvice(response)
	if err != nil {
		return domain.Recommendation{}, err
	}

	selected, ok := findCandidate(candidates, identity)
	if !ok {
		return domain.Recommendation{}, &domain.ContractViolationError{
			Reason:   "selected identity is not in the candidate set",
			Response: response,
		}
	}

	// The price ceiling in the prompt is advisory; the stored price is
	// checked here so prose cannot talk the budget past its limit.
	if selected.Price > budget.MaxExceptional {
		return domain.Recommendation{}, &domain.ContractViolationError{
			Reason:   "selected offer price exceeds the maximum permissible exceptional price",
			Response: response,
		}
	}

	s.log.Info("recommendation accepted",
		zap.Int64("product_id", selected.Identity.ProductID),
		zap.Int64("variant_id", selected.Identity.VariantID),
		zap.String("title", selected.ParentTitle),
		zap.Float64("price", selected.Price),
	)

	return domain.Recommendation{
		Identity:    selected.Identity,
		Offer:       selected,
		Explanation: explanation,
		URL:         selected.URL,
		Budget:      budget,
	}, nil
}

func findCandidate(candidates []offersdomain.CanonicalOffer, identity offersdomain.OfferIdentity) (offersdomain.CanonicalOffer, bool) {
	for _, candidate := range candidates {
		if candidate.Identity == identity {
			return candidate, true
		}
	}
	return offersdomain.CanonicalOffer{}, false
}
