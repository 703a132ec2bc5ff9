// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides shared helpers for the stockdeck application.
package util

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// pricePrinter renders numbers with US-style digit grouping. Prices from
// the prediction backend are always quoted in USD.
var pricePrinter = message.NewPrinter(language.AmericanEnglish)

// FormatUSD formats a price as a dollar amount with thousands separators,
// e.g. 1234.5 becomes "$1,234.50". Negative values keep the sign in front
// of the currency symbol.
func FormatUSD(v float64) string {
	if v < 0 {
		return "-$" + pricePrinter.Sprintf("%.2f", -v)
	}
	return "$" + pricePrinter.Sprintf("%.2f", v)
}

// FormatPercent formats a fractional change as a signed percentage with
// two decimals, e.g. 0.0325 becomes "+3.25%".
func FormatPercent(fraction float64) string {
	return pricePrinter.Sprintf("%+.2f%%", fraction*100)
}

// FormatMetric formats a model quality metric (RMSE, MAE) the way the
// prediction backend reports them, rounded to four decimals.
func FormatMetric(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// IntToString converts an int to string.
func IntToString(i int) string {
	return strconv.Itoa(i)
}

// Int64ToString converts an int64 to string.
func Int64ToString(i int64) string {
	return strconv.FormatInt(i, 10)
}

// FloatToString converts a float64 to string with 2 decimal places.
func FloatToString(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
