package service

import (
	"fmt"
	"sort"
	"strings"

	offersdomain "github.com/beanbook/beanbook/internal/offers/domain"
	ordersdomain "github.com/beanbook/beanbook/internal/orders/domain"
	"github.com/beanbook/beanbook/internal/recommend/domain"
)

type promptInput struct {
	Recent     []ordersdomain.OrderRecord
	Candidates []offersdomain.CanonicalOffer
	Roasters   domain.Histogram
	Origins    domain.Histogram
	Processes  domain.Histogram
	Budget     domain.BudgetState
}

func buildPrompt(in promptInput) string {
	divider := strings.Repeat("=", 80)

	historyLines := make([]string, 0, len(in.Recent))
	for _, order := range in.Recent {
		historyLines = append(historyLines, formatOrder(order))
	}
	candidateLines := make([]string, 0, len(in.Candidates))
	for _, offer := range in.Candidates {
		candidateLines = append(candidateLines, formatOffer(offer))
	}

	var b strings.Builder
	b.WriteString("You are a coffee expert helping select the next coffee to try. Your goal is to help the user explore new and different coffee experiences.\n\n")

	b.WriteString("Recent order history (from newest to oldest) - DO NOT recommend any coffees from this list:\n")
	b.WriteString(divider + "\n")
	b.WriteString(strings.Join(historyLines, "\n") + "\n\n")

	b.WriteString("Available options to choose from - You MUST select from this list:\n")
	b.WriteString(divider + "\n")
	b.WriteString(strings.Join(candidateLines, "\n") + "\n\n")

	b.WriteString("Based on the order history and available options, recommend ONE coffee that would maximize variety in terms of roaster, origin, processing method, and tasting notes.\n\n")

	b.WriteString("Current distribution in order history:\n")
	fmt.Fprintf(&b, "- Most frequent roasters: %s\n", formatHistogram(in.Roasters, 3))
	fmt.Fprintf(&b, "- Most frequent origins: %s\n", formatHistogram(in.Origins, 3))
	fmt.Fprintf(&b, "- Processing methods used: %s\n\n", formatHistogram(in.Processes, 0))

	b.WriteString("Budget Considerations:\n")
	fmt.Fprintf(&b, "- Monthly budget: $%.2f\n", in.Budget.Ceiling)
	fmt.Fprintf(&b, "- Remaining this month: $%.2f\n", in.Budget.Remaining)
	fmt.Fprintf(&b, "- Can exceed monthly budget by up to %.0f%% for special coffees\n", in.Budget.Flexibility*100)
	fmt.Fprintf(&b, "- Maximum price for a special coffee: $%.2f\n\n", in.Budget.MaxExceptional)

	b.WriteString(`CRITICAL INSTRUCTIONS:
1. You MUST select a coffee from the 'Available options' list above. DO NOT recommend anything from the order history.
2. First line: Format as "[product_id,variant_id] Roaster - Coffee" using the EXACT IDs and names from available options
3. Second line: Leave blank
4. Third line onwards: A single paragraph explaining why this coffee is interesting, focusing on how it differs from recent purchases
5. Final line: The EXACT URL from available options
6. Do not use markdown formatting
7. Do not include headings or sections
8. Do not mention price unless it's a special coffee that exceeds the monthly budget`)

	return b.String()
}

func formatOffer(offer offersdomain.CanonicalOffer) string {
	parts := []string{
		fmt.Sprintf("[%d,%d] %s - %s", offer.Identity.ProductID, offer.Identity.VariantID, offer.RoasterDisplayName, offer.ParentTitle),
		"Origin: " + orUnknown(offer.OriginCountry),
	}
	if offer.ProcessMethod != "" {
		parts = append(parts, "Process: "+offer.ProcessMethod)
	}
	if notes := formatNotes(offer.TastingNotes.Fruits, offer.TastingNotes.Sweets, offer.TastingNotes.Florals, offer.TastingNotes.Spices, offer.TastingNotes.Others); notes != "" {
		parts = append(parts, "Tasting notes: "+notes)
	}
	parts = append(parts, fmt.Sprintf("Price: $%.2f", offer.Price))
	parts = append(parts, "URL: "+offer.URL)
	return strings.Join(parts, " | ")
}

func formatOrder(order ordersdomain.OrderRecord) string {
	productID, variantID := int64(0), int64(0)
	if order.ProductID != nil {
		productID = *order.ProductID
	}
	if order.VariantID != nil {
		variantID = *order.VariantID
	}

	parts := []string{
		fmt.Sprintf("[%d,%d] %s - %s", productID, variantID, order.RoasterName, order.ProductTitle),
		"Origin: " + orUnknown(order.OriginCountry),
	}
	if order.ProcessMethod != "" {
		parts = append(parts, "Process: "+order.ProcessMethod)
	}
	notes := order.TastingNotes.Data()
	if formatted := formatNotes(notes.Fruits, notes.Sweets, notes.Florals, notes.Spices, notes.Others); formatted != "" {
		parts = append(parts, "Tasting notes: "+formatted)
	}
	parts = append(parts, fmt.Sprintf("Price: $%.2f", order.PricePaid))
	return strings.Join(parts, " | ")
}

func formatNotes(groups ...[]string) string {
	var all []string
	for _, group := range groups {
		all = append(all, group...)
	}
	return strings.Join(all, ", ")
}

func orUnknown(v string) string {
	if v == "" {
		return "Unknown"
	}
	return v
}

// formatHistogram renders "value (Nx)" entries sorted by count descending
// (value ascending on ties, for stable prompts). topN of zero keeps the
// full list.
func formatHistogram(h domain.Histogram, topN int) string {
	if len(h) == 0 {
		return "none yet"
	}

	type entry struct {
		value string
		count int
	}
	entries := make([]entry, 0, len(h))
	for value, count := range h {
		entries = append(entries, entry{value: value, count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].value < entries[j].value
	})
	if topN > 0 && len(entries) > topN {
		entries = entries[:topN]
	}

	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, fmt.Sprintf("%s (%dx)", e.value, e.count))
	}
	return strings.Join(parts, ", ")
}
