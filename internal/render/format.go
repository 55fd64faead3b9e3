// Package render draws view snapshots as plain text for the terminal.
package render

import (
	"fmt"
	"strconv"
	"strings"
)

// Placeholders for missing values
const (
	NA           = "N/A"
	NotAvailable = "Not available"
)

// FormatPrice renders a price. Missing and zero prices are free.
func FormatPrice(price *float64) string {
	if price == nil || *price == 0 {
		return "Free"
	}
	return fmt.Sprintf("$%.2f", *price)
}

// FormatOptional renders an optional string, empty counting as missing
func FormatOptional(s *string, missing string) string {
	if s == nil || *s == "" {
		return missing
	}
	return *s
}

// FormatAge renders an optional required age
func FormatAge(age *int) string {
	if age == nil {
		return NA
	}
	return strconv.Itoa(*age)
}

// JoinNames renders a relationship list
func JoinNames(names []string) string {
	return strings.Join(names, ", ")
}
