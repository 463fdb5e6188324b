// Package valuation merges a portfolio's holdings with live quotes, stored
// ticker prices and the stored valuation snapshot into one derived view.
//
// Every source except the holdings may be missing. Absence is never an error;
// it selects the next fallback.
package valuation

import (
	"github.com/shopspring/decimal"

	"socialfolio/internal/models"
)

type PriceSource string

const (
	PriceLive    PriceSource = "live"
	PriceStored  PriceSource = "stored"
	PriceAverage PriceSource = "average"
)

type ValueSource string

const (
	ValueLive       ValueSource = "live"
	ValueStored     ValueSource = "stored"
	ValueCalculated ValueSource = "calculated"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Inputs holds whatever sources have resolved. A nil LiveQuotes or
// StoredPrices map means the source has not loaded; a nil StoredValuation
// means no snapshot exists yet.
type Inputs struct {
	Portfolio       models.Portfolio
	Holdings        []models.Holding
	LiveQuotes      map[string]models.LiveQuote
	StoredPrices    map[string]decimal.Decimal
	StoredValuation *models.StoredPortfolioValuation
}

type ValuedHolding struct {
	models.Holding
	CurrentPrice       decimal.Decimal `json:"current_price"`
	PriceSource        PriceSource     `json:"price_source"`
	InvestedValue      decimal.Decimal `json:"invested_value"`
	CurrentValue       decimal.Decimal `json:"current_value"`
	ChangePercent      decimal.Decimal `json:"change_percent"`
	TodayChange        decimal.Decimal `json:"today_change"`
	TodayChangePercent decimal.Decimal `json:"today_change_percent"`
	TodayValueChange   decimal.Decimal `json:"today_value_change"`
}

type PortfolioView struct {
	models.Portfolio
	Holdings             []ValuedHolding `json:"holdings"`
	TotalInvested        decimal.Decimal `json:"total_invested"`
	CalculatedTotalValue decimal.Decimal `json:"calculated_total_value"`
	TodayChange          decimal.Decimal `json:"today_change"`
	TodayChangePercent   decimal.Decimal `json:"today_change_percent"`
	TotalValue           decimal.Decimal `json:"total_value"`
	// TotalReturnPercentage is today's return on invested capital when live
	// quotes drove the valuation, and the all-time return otherwise. Clients
	// that need one meaning should read AllTimeReturnPercentage or
	// TodayReturnPercentage.
	TotalReturnPercentage   decimal.Decimal `json:"total_return_percentage"`
	AllTimeReturnPercentage decimal.Decimal `json:"all_time_return_percentage"`
	TodayReturnPercentage   decimal.Decimal `json:"today_return_percentage"`
	ValueSource             ValueSource     `json:"value_source"`
}

// ResolvePrice picks exactly one current price for the holding: the live
// quote, then the stored price (a stored zero counts), then the average
// cost.
func ResolvePrice(h models.Holding, live map[string]models.LiveQuote, stored map[string]decimal.Decimal) (decimal.Decimal, PriceSource) {
	if q, ok := live[h.Ticker]; ok {
		return q.Current, PriceLive
	}
	if p, ok := stored[h.Ticker]; ok {
		return p, PriceStored
	}
	return h.AveragePrice, PriceAverage
}

func valueHolding(h models.Holding, in Inputs) ValuedHolding {
	price, source := ResolvePrice(h, in.LiveQuotes, in.StoredPrices)
	v := ValuedHolding{
		Holding:       h,
		CurrentPrice:  price,
		PriceSource:   source,
		InvestedValue: h.AveragePrice.Mul(h.Quantity),
		CurrentValue:  price.Mul(h.Quantity),
	}
	if h.AveragePrice.IsPositive() {
		v.ChangePercent = percentOf(price.Sub(h.AveragePrice), h.AveragePrice)
	}
	if q, ok := in.LiveQuotes[h.Ticker]; ok {
		if q.Change.Valid {
			v.TodayChange = q.Change.Decimal
		}
		if q.ChangePercent.Valid {
			v.TodayChangePercent = q.ChangePercent.Decimal
		}
	}
	v.TodayValueChange = todayValueChange(v.CurrentValue, v.TodayChangePercent, v.TodayChange, h.Quantity)
	return v
}

// todayValueChange backs the pre-change value out of the current value and
// the session percent, then returns the delta that percent implies. At -100%
// the pre-change value is undefined and the absolute per-unit change is
// scaled by quantity instead.
func todayValueChange(currentValue, pct, change, quantity decimal.Decimal) decimal.Decimal {
	if pct.IsZero() {
		return decimal.Zero
	}
	ratio := pct.Div(hundred)
	denom := one.Add(ratio)
	if denom.IsZero() {
		return change.Mul(quantity)
	}
	return ratio.Mul(currentValue.Div(denom))
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

// Aggregate computes the portfolio view. It is pure: identical inputs give
// identical outputs and nothing in Inputs is modified.
func Aggregate(in Inputs) PortfolioView {
	view := PortfolioView{
		Portfolio: in.Portfolio,
		Holdings:  make([]ValuedHolding, 0, len(in.Holdings)),
	}

	for _, h := range in.Holdings {
		v := valueHolding(h, in)
		view.Holdings = append(view.Holdings, v)
		view.TotalInvested = view.TotalInvested.Add(v.InvestedValue)
		view.CalculatedTotalValue = view.CalculatedTotalValue.Add(v.CurrentValue)
		view.TodayChange = view.TodayChange.Add(v.TodayValueChange)
	}

	view.TodayChangePercent = percentOf(view.TodayChange, view.TotalInvested)
	view.TodayReturnPercentage = view.TodayChangePercent
	allTime := percentOf(view.CalculatedTotalValue.Sub(view.TotalInvested), view.TotalInvested)

	switch {
	case len(in.LiveQuotes) > 0:
		view.ValueSource = ValueLive
		view.TotalValue = view.CalculatedTotalValue
		view.TotalReturnPercentage = view.TodayChangePercent
		view.AllTimeReturnPercentage = allTime
	case in.StoredValuation != nil:
		view.ValueSource = ValueStored
		view.TotalValue = in.StoredValuation.TotalValue
		view.TotalReturnPercentage = in.StoredValuation.TotalReturnPercentage
		view.AllTimeReturnPercentage = in.StoredValuation.TotalReturnPercentage
	default:
		view.ValueSource = ValueCalculated
		view.TotalValue = view.CalculatedTotalValue
		view.TotalReturnPercentage = allTime
		view.AllTimeReturnPercentage = allTime
	}

	return view
}
