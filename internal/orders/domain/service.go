package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	offersdomain "github.com/beanbook/beanbook/internal/offers/domain"
)

var (
	ErrInvalidQuantity = errors.New("invalid_quantity")
	ErrInvalidPrice    = errors.New("invalid_price")
	ErrNoMatch         = errors.New("no offer matches reference")
)

// AmbiguousReferenceError reports a title lookup that matched more than
// one offer. The resolver never silently picks one; every match is
// carried so the operator can disambiguate.
type AmbiguousReferenceError struct {
	Reference string
	Matches   []offersdomain.CanonicalOffer
}

func (e *AmbiguousReferenceError) Error() string {
	titles := make([]string, 0, len(e.Matches))
	for _, m := range e.Matches {
		titles = append(titles, fmt.Sprintf("%s (%s)", m.ParentTitle, m.RoasterDisplayName))
	}
	return fmt.Sprintf("reference %q is ambiguous: %s", e.Reference, strings.Join(titles, "; "))
}

type RecordPurchaseRequest struct {
	ProductID int64
	VariantID int64
	Quantity  int
	PricePaid float64
	OrderDate time.Time
	Notes     string
}

type ResolvePurchaseRequest struct {
	Reference string
	Quantity  int
	OrderDate time.Time
	Notes     string
}

type Service interface {
	// RecordPurchase appends one immutable snapshot to the ledger. It is
	// deliberately not idempotent: the same purchase submitted twice is
	// recorded twice.
	RecordPurchase(ctx context.Context, req RecordPurchaseRequest) (OrderRecord, error)

	// Reconcile classifies every ledger entry against the live catalog,
	// most recent first.
	Reconcile(ctx context.Context) ([]ReconciledOrder, error)

	// ResolveReference maps a textual offer reference — "[pid,vid] Title"
	// or a bare title — back to a canonical offer.
	ResolveReference(ctx context.Context, reference string) (offersdomain.CanonicalOffer, error)

	// ResolveAndRecord resolves a reference and records the purchase at
	// the offer's stored price.
	ResolveAndRecord(ctx context.Context, req ResolvePurchaseRequest) (OrderRecord, error)
}
