package chatbot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/teclegacy/marketplace-backend/internal/catalog"
	pkgerrors "github.com/teclegacy/marketplace-backend/pkg/errors"
)

// Outcome classifies how a query was resolved.
type Outcome string

const (
	OutcomeGreeting Outcome = "greeting"
	OutcomeHelp     Outcome = "help"
	OutcomeResults  Outcome = "results"
	OutcomeEmpty    Outcome = "empty"
)

const maxResults = 5

// Resolver turns a free-text query into a recommendation response. The same
// query against the same catalog always yields the same response.
type Resolver struct {
	catalog catalog.Repository
}

// NewResolver builds a resolver over the catalog.
func NewResolver(catalogRepo catalog.Repository) (*Resolver, error) {
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &Resolver{catalog: catalogRepo}, nil
}

// Resolve runs the keyword pipeline: greeting and help short-circuits, price
// ceiling extraction, ordered category keyword filters, then a token search
// fallback when no keyword fired.
func (r *Resolver) Resolve(ctx context.Context, rawQuery string) (string, Outcome, error) {
	query := strings.ToLower(rawQuery)

	for _, greeting := range greetings {
		if strings.Contains(query, greeting) {
			return greetingResponse, OutcomeGreeting, nil
		}
	}
	for _, keyword := range helpKeywords {
		if strings.Contains(query, keyword) {
			return helpResponse, OutcomeHelp, nil
		}
	}

	maxPrice := extractMaxPrice(query)

	filters := catalog.Filters{AvailableOnly: true, Limit: maxResults}
	categoryFilterApplied := false

	for _, keyword := range categoryKeywords {
		if !strings.Contains(query, keyword.trigger) {
			continue
		}
		if keyword.category == "" {
			filters = filters.WithNameContains(keyword.trigger)
			categoryFilterApplied = true
			continue
		}
		category, err := r.catalog.FindCategoryByName(ctx, keyword.category)
		if err != nil {
			// A keyword whose category was retired simply does not narrow.
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
				continue
			}
			return "", "", err
		}
		filters = filters.WithCategory(category.ID.String())
		categoryFilterApplied = true
	}

	if !categoryFilterApplied {
		for _, word := range strings.Fields(query) {
			if utf8.RuneCountInString(word) >= 3 {
				filters = filters.WithSearchToken(word)
			}
		}
	}

	if maxPrice > 0 {
		filters = filters.WithMaxPrice(decimal.NewFromInt(maxPrice))
	}

	products, err := r.catalog.ListProducts(ctx, filters)
	if err != nil {
		return "", "", err
	}

	if len(products) == 0 {
		return r.apology(ctx, query)
	}

	var response strings.Builder
	if maxPrice > 0 {
		fmt.Fprintf(&response, "He encontrado estos productos tacaño, por menos de $%.1fk:<br>", float64(maxPrice)/1000)
	} else {
		response.WriteString("He encontrado estos productos para que compre si o si:<br>")
	}
	for _, product := range products {
		fmt.Fprintf(&response, "- <a href='/products/%s/%s/'>%s</a> - $%s<br>",
			product.Category.Slug, product.Slug, product.Name, formatPrice(product.Price))
	}
	if len(products) == maxResults {
		response.WriteString(truncationHint)
	}
	return response.String(), OutcomeResults, nil
}

func (r *Resolver) apology(ctx context.Context, query string) (string, Outcome, error) {
	var response strings.Builder
	fmt.Fprintf(&response,
		"Lo siento, no encontré productos que coincidan con '%s'. Prueba con otra busqueda o lo veo pues describiendo mejor lo que busca aaa.",
		query)

	categories, err := r.catalog.ListCategories(ctx, true)
	if err != nil {
		return "", "", err
	}
	if len(categories) > 0 {
		response.WriteString("<br><br>Puedes explorar nuestras categorías:<br>")
		for _, category := range categories {
			fmt.Fprintf(&response, "- <a href='/products/%s/'>%s</a><br>", category.Slug, category.Name)
		}
	}
	return response.String(), OutcomeEmpty, nil
}

// extractMaxPrice reads a spoken ceiling ("menos de 50") and scales it by
// 1000. Zero means no ceiling.
func extractMaxPrice(query string) int64 {
	match := pricePattern.FindStringSubmatch(query)
	if match == nil {
		return 0
	}
	for _, group := range match[1:] {
		if group == "" {
			continue
		}
		value, err := strconv.ParseInt(group, 10, 64)
		if err != nil {
			return 0
		}
		return value * 1000
	}
	return 0
}

// formatPrice renders a price with dots as thousands separators and no
// decimals, the way the storefront has always shown them.
func formatPrice(price decimal.Decimal) string {
	digits := price.Round(0).BigInt().String()

	negative := strings.HasPrefix(digits, "-")
	if negative {
		digits = digits[1:]
	}

	var grouped strings.Builder
	for i, digit := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(digit)
	}
	if negative {
		return "-" + grouped.String()
	}
	return grouped.String()
}
