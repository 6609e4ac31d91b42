// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// It standardizes how page-based navigation is requested via query parameters
// and how the resulting metadata is delivered in the API response envelope.
package pagination

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultPageSize is the number of items per page if not specified.
	DefaultPageSize = 28
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
)

// Query parameter names.
const (
	ParamPage     = "page"
	ParamPageSize = "pageSize"
)

// Params holds the parsed page and page size from a request's query string.
type Params struct {
	Page     int
	PageSize int
}

// Offset returns the SQL OFFSET value derived from [Page] and [PageSize].
//
// Params returned by [FromQuery] never overflow here.
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Page     int  `json:"page"`
	PageSize int  `json:"pageSize"`
	HasNext  bool `json:"hasNext"`
	Total    int  `json:"total"`
}

// NewMeta constructs pagination metadata for a response.
//
// HasNext is true while page*pageSize is still short of total. The product
// is compared without being computed so it cannot overflow.
func NewMeta(params Params, total int) Meta {
	return Meta{
		Page:     params.Page,
		PageSize: params.PageSize,
		HasNext:  hasNext(params, total),
		Total:    total,
	}
}

// hasNext reports page*pageSize < total for positive page and pageSize.
func hasNext(params Params, total int) bool {
	if total < 1 || params.PageSize < 1 {
		return false
	}
	// page*size < total  <=>  page*size <= total-1  <=>  page <= (total-1)/size
	return params.Page <= (total-1)/params.PageSize
}

// Rejection reasons carried by [ParamError].
const (
	ReasonNotPositive = "Must be a positive integer"
	ReasonOutOfRange  = "page * pageSize is out of range"
)

// ParamError reports a rejected pagination parameter.
type ParamError struct {
	Param  string
	Value  string
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("pagination: invalid %s %q: %s", e.Param, e.Value, e.Reason)
}

// FromQuery parses "page" and "pageSize" from URL query values.
//
// # Strictness
//
// Missing parameters fall back to [DefaultPage] and [DefaultPageSize].
// Present but non-integer or non-positive values are rejected with a
// [*ParamError] rather than clamped, as is a pair whose product page*pageSize
// does not fit in an int.
func FromQuery(values url.Values) (Params, error) {
	page, err := parsePositive(values, ParamPage, DefaultPage)
	if err != nil {
		return Params{}, err
	}

	pageSize, err := parsePositive(values, ParamPageSize, DefaultPageSize)
	if err != nil {
		return Params{}, err
	}

	if page > math.MaxInt/pageSize {
		return Params{}, &ParamError{Param: ParamPage, Value: strconv.Itoa(page), Reason: ReasonOutOfRange}
	}

	return Params{Page: page, PageSize: pageSize}, nil
}

func parsePositive(values url.Values, key string, defaultVal int) (int, error) {
	if !values.Has(key) {
		return defaultVal, nil
	}

	raw := strings.TrimSpace(values.Get(key))
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, &ParamError{Param: key, Value: raw, Reason: ReasonNotPositive}
	}

	return n, nil
}
