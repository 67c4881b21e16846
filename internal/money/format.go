package money

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const currencyLabel = " VNĐ"

// FormatCurrency renders amount the vi-VN way, e.g. "-1.000 VNĐ".
func FormatCurrency(amount int64) string {
	return strings.ReplaceAll(humanize.Comma(amount), ",", ".") + currencyLabel
}

// FormatOptional formats a possibly missing amount; nil renders as "0 VNĐ".
func FormatOptional(amount *int64) string {
	if amount == nil {
		return FormatCurrency(0)
	}
	return FormatCurrency(*amount)
}

var (
	billion  = decimal.NewFromInt(1_000_000_000)
	million  = decimal.NewFromInt(1_000_000)
	thousand = decimal.NewFromInt(1_000)
)

// ToVnText returns an approximate phrase for amount such as
// "1.50 Triệu VNĐ". Zero yields an empty string.
func ToVnText(amount int64) string {
	d := decimal.NewFromInt(amount)

	switch {
	case amount == 0:
		return ""
	case d.GreaterThanOrEqual(billion):
		return d.Div(billion).StringFixed(2) + " Tỷ VNĐ"
	case d.GreaterThanOrEqual(million):
		return d.Div(million).StringFixed(2) + " Triệu VNĐ"
	case d.GreaterThanOrEqual(thousand):
		return d.Div(thousand).StringFixed(0) + " Ngàn VNĐ"
	default:
		return strconv.FormatInt(amount, 10) + currencyLabel
	}
}

// Millions converts an amount to millions of đồng for chart series.
func Millions(amount int64) float64 {
	f, _ := decimal.NewFromInt(amount).Div(million).Round(2).Float64()
	return f
}
