package catalog

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// ListParams captures the browse filters. Nil pointers and empty strings mean
// "no constraint".
type ListParams struct {
	CategorySlug string             `json:"category,omitempty"`
	BrandSlug    string             `json:"brand,omitempty"`
	StockStatus  *enums.StockStatus `json:"stock_status,omitempty"`
	MinPrice     *decimal.Decimal   `json:"min_price,omitempty"`
	MaxPrice     *decimal.Decimal   `json:"max_price,omitempty"`
	Query        string             `json:"q,omitempty"`
	Sort         enums.ProductSort  `json:"sort"`
	Page         int                `json:"page"`
}

// ParseListParams reads browse parameters from a query string. Bad values are
// dropped as if they were absent; the returned error only lists what was
// ignored so callers can log it.
func ParseListParams(values url.Values) (ListParams, error) {
	params := ListParams{
		CategorySlug: strings.TrimSpace(values.Get("category")),
		BrandSlug:    strings.TrimSpace(values.Get("brand")),
		Query:        strings.TrimSpace(values.Get("q")),
		Sort:         enums.DefaultProductSort,
		Page:         1,
	}
	var errs error

	rawStock := strings.TrimSpace(values.Get("stock_status"))
	if rawStock == "" {
		rawStock = strings.TrimSpace(values.Get("stock"))
	}
	if rawStock != "" {
		status, err := enums.ParseStockStatus(rawStock)
		if err != nil {
			errs = multierr.Append(errs, ignored("stock_status", err))
		} else {
			params.StockStatus = &status
		}
	}

	if price, err := parsePrice(values.Get("min_price")); err != nil {
		errs = multierr.Append(errs, ignored("min_price", err))
	} else {
		params.MinPrice = price
	}
	if price, err := parsePrice(values.Get("max_price")); err != nil {
		errs = multierr.Append(errs, ignored("max_price", err))
	} else {
		params.MaxPrice = price
	}

	if rawSort := strings.TrimSpace(values.Get("sort")); rawSort != "" {
		sort, err := enums.ParseProductSort(rawSort)
		if err != nil {
			errs = multierr.Append(errs, ignored("sort", err))
		} else {
			params.Sort = sort
		}
	}

	if rawPage := strings.TrimSpace(values.Get("page")); rawPage != "" {
		page, err := strconv.Atoi(rawPage)
		if err != nil {
			errs = multierr.Append(errs, ignored("page", err))
		} else {
			params.Page = page
		}
	}

	return params, errs
}

func parsePrice(raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func ignored(field string, err error) error {
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "ignored "+field).
		WithDetails(map[string]any{"field": field})
}
