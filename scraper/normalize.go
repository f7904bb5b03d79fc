package scraper

import (
	"strconv"

	"github.com/tidwall/gjson"

	"pf_scrooper/models"
	"pf_scrooper/services"
)

// TransactionField names a logical transaction field.
type TransactionField string

const (
	TxFieldBedrooms     TransactionField = "bedrooms"
	TxFieldSize         TransactionField = "size"
	TxFieldPrice        TransactionField = "price"
	TxFieldPricePerArea TransactionField = "price_per_area"
	TxFieldDate         TransactionField = "transaction_date"
	TxFieldType         TransactionField = "property_type"
)

// TransactionFieldAliases lists, per logical field, the source keys to try in
// order. The first key present with a non-null value wins, even if that value
// turns out not to be numeric.
var TransactionFieldAliases = map[TransactionField][]string{
	TxFieldBedrooms:     {"bedrooms", "bedroom", "beds", "numberOfBedrooms", "bed"},
	TxFieldSize:         {"propertySize", "size", "area", "property_size", "size_value"},
	TxFieldPrice:        {"price", "amount"},
	TxFieldPricePerArea: {"pricePerSqft", "price_per_sqft"},
	TxFieldDate:         {"transactionDate", "transaction_date", "date"},
	TxFieldType:         {"propertyType", "property_type"},
}

// lookup resolves field on obj through its alias list.
func lookup(obj gjson.Result, field TransactionField) gjson.Result {
	for _, key := range TransactionFieldAliases[field] {
		r := obj.Get(gjson.Escape(key))
		if r.Exists() && r.Type != gjson.Null {
			return r
		}
	}
	return gjson.Result{}
}

// rawText renders a JSON value the way it should be compared and shown:
// strings as-is, numbers in shortest form, null and missing as "".
func rawText(r gjson.Result) string {
	switch r.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return r.Str
	case gjson.Number:
		return strconv.FormatFloat(r.Num, 'f', -1, 64)
	default:
		return r.Raw
	}
}

func numberPtr(raw string) *float64 {
	n, ok := services.ToNumber(raw)
	if !ok {
		return nil
	}
	return &n
}

// NormalizeListing flattens one search result. origin is prefixed to the
// details path when the listing has no share link.
func NormalizeListing(raw gjson.Result, origin string) models.ListingRecord {
	prop := raw.Get("property")
	if !prop.IsObject() {
		prop = gjson.Result{}
	}

	str := func(path string) string {
		return rawText(prop.Get(path))
	}

	sourceURL := str("share_url")
	if sourceURL == "" {
		if details := str("details_path"); details != "" {
			sourceURL = origin + details
		}
	}

	return models.ListingRecord{
		SourceURL:    sourceURL,
		PropertyType: str("property_type"),
		Price: models.Price{
			Value:    numberPtr(str("price.value")),
			Currency: str("price.currency"),
			Period:   str("price.period"),
		},
		Title:        str("title"),
		LocationName: str("location.full_name"),
		Bedrooms:     str("bedrooms"),
		Bathrooms:    str("bathrooms"),
		Size: models.Size{
			Value: numberPtr(str("size.value")),
			Unit:  str("size.unit"),
		},
		ListedDate: str("listed_date"),
		Reference:  str("reference"),
		ListingID:  str("listing_id"),
	}
}

// NormalizeTransaction flattens one transaction object. PricePerArea is left
// for the analytics step.
func NormalizeTransaction(raw gjson.Result) models.TransactionRecord {
	rec := models.TransactionRecord{
		Price:                numberPtr(rawText(lookup(raw, TxFieldPrice))),
		ReportedPricePerArea: numberPtr(rawText(lookup(raw, TxFieldPricePerArea))),
		TransactionDate:      rawText(lookup(raw, TxFieldDate)),
		BedroomsRaw:          rawText(lookup(raw, TxFieldBedrooms)),
		SizeRaw:              rawText(lookup(raw, TxFieldSize)),
		PropertyType:         rawText(lookup(raw, TxFieldType)),
	}
	if raw.IsObject() {
		rec.Data = []byte(raw.Raw)
	}
	return rec
}
