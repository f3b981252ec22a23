package service

import (
	"strconv"
	"strings"

	offersdomain "github.com/beanbook/beanbook/internal/offers/domain"
	"github.com/beanbook/beanbook/internal/recommend/domain"
)

// parseAdvice extracts the bracketed identity from the first non-blank
// line and requires the last non-blank line to be the canonical URL. Any
// other shape is a contract violation; nothing is guessed or repaired.
func parseAdvice(response string) (offersdomain.OfferIdentity, string, error) {
	lines := strings.Split(response, "\n")

	first := -1
	last := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	if first < 0 {
		return offersdomain.OfferIdentity{}, "", &domain.ContractViolationError{
			Reason:   "empty response",
			Response: response,
		}
	}

	identity, err := parseIdentityLine(strings.TrimSpace(lines[first]))
	if err != nil {
		return offersdomain.OfferIdentity{}, "", &domain.ContractViolationError{
			Reason:   err.Error(),
			Response: response,
		}
	}

	urlLine := strings.TrimSpace(lines[last])
	if last == first || !strings.HasPrefix(urlLine, "http") {
		return offersdomain.OfferIdentity{}, "", &domain.ContractViolationError{
			Reason:   "response does not end with the candidate URL on its own line",
			Response: response,
		}
	}

	explanation := strings.TrimSpace(strings.Join(lines[first+1:last], "\n"))
	return identity, explanation, nil
}

type identityParseError string

func (e identityParseError) Error() string { return string(e) }

func parseIdentityLine(line string) (offersdomain.OfferIdentity, error) {
	if !strings.HasPrefix(line, "[") {
		return offersdomain.OfferIdentity{}, identityParseError("first line does not start with a bracketed identity")
	}
	end := strings.Index(line, "]")
	if end < 0 {
		return offersdomain.OfferIdentity{}, identityParseError("bracketed identity is not closed")
	}
	parts := strings.Split(line[1:end], ",")
	if len(parts) != 2 {
		return offersdomain.OfferIdentity{}, identityParseError("bracketed identity must hold exactly two ids")
	}
	productID, err1 := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	variantID, err2 := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err1 != nil || err2 != nil {
		return offersdomain.OfferIdentity{}, identityParseError("bracketed identity ids are not integers")
	}
	return offersdomain.OfferIdentity{ProductID: productID, VariantID: variantID}, nil
}
