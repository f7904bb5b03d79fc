package models

import "encoding/json"

// TransactionRecord is one recorded sale used as a comparable.
type TransactionRecord struct {
	Price *float64 `json:"price"`
	// ReportedPricePerArea is the figure published by the source, if any.
	ReportedPricePerArea *float64 `json:"reported_price_per_area"`
	// PricePerArea is the value used for the benchmark: the reported figure
	// when positive, otherwise price divided by size.
	PricePerArea    *float64        `json:"price_per_area"`
	TransactionDate string          `json:"transaction_date"`
	BedroomsRaw     string          `json:"bedrooms"`
	SizeRaw         string          `json:"size"`
	PropertyType    string          `json:"property_type"`
	Data            json.RawMessage `json:"data,omitempty"`
}
