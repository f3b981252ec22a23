package domain

import (
	"context"
	"errors"
	"fmt"

	offersdomain "github.com/beanbook/beanbook/internal/offers/domain"
)

// ErrNoCandidates means every single-origin offer has already been tried
// (or the catalog is empty); there is nothing left to recommend.
var ErrNoCandidates = errors.New("no_candidates")

// ContractViolationError reports a reasoning collaborator response that
// does not honor the contract: wrong shape, an identity outside the
// candidate set, or a price beyond the permitted ceiling. The selector
// never guesses a selection in its place.
type ContractViolationError struct {
	Reason   string
	Response string
}

func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("reasoning response violates contract: %s", e.Reason)
}

// Advisor is the external reasoning collaborator. It receives one
// structured evaluation request as text and returns free text whose first
// non-blank line starts with the chosen candidate's bracketed identity
// and whose last non-blank line is the candidate's canonical URL.
type Advisor interface {
	Advise(ctx context.Context, prompt string) (string, error)
}

// Histogram maps a descriptive value to its ledger occurrence count.
type Histogram map[string]int

// SpendingSummary aggregates ledger spend around the current calendar
// month.
type SpendingSummary struct {
	CurrentMonth      float64 `json:"current_month"`
	LastMonth         float64 `json:"last_month"`
	ThreeMonthAverage float64 `json:"three_month_average"`
}

// BudgetState is the numeric budget context handed to the collaborator.
type BudgetState struct {
	Ceiling        float64 `json:"ceiling"`
	Remaining      float64 `json:"remaining"`
	Flexibility    float64 `json:"flexibility"`
	MaxExceptional float64 `json:"max_exceptional"`
}

// Recommendation is the validated selection.
type Recommendation struct {
	Identity    offersdomain.OfferIdentity   `json:"identity"`
	Offer       offersdomain.CanonicalOffer  `json:"offer"`
	Explanation string                       `json:"explanation"`
	URL         string                       `json:"url"`
	Budget      BudgetState                  `json:"budget"`
}

type Service interface {
	// Spending summarizes ledger spend: current month, last month, and
	// the trailing three full calendar months' average.
	Spending(ctx context.Context) (SpendingSummary, error)

	// Recommend builds the candidate set, delegates scoring to the
	// advisor, and validates the returned choice.
	Recommend(ctx context.Context) (Recommendation, error)
}
