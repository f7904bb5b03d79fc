package scraper

import (
	"testing"

	"github.com/tidwall/gjson"
)

const origin = "https://www.propertyfinder.ae"

func TestNormalizeListing(t *testing.T) {
	raw := ExtractListings(loadFixture(t, "listings_page.html"))

	first := NormalizeListing(raw[0], origin)
	if first.SourceURL != "https://www.propertyfinder.ae/en/plp/buy/apartment-for-sale-dubai-dubai-marina-marina-gate-1-12345.html" {
		t.Fatalf("expected share_url to win, got %s", first.SourceURL)
	}
	if first.Price.Value == nil || *first.Price.Value != 1200000 {
		t.Fatalf("expected price 1200000, got %v", first.Price.Value)
	}
	if first.Price.Currency != "AED" || first.Price.Period != "sell" {
		t.Fatalf("unexpected price block %+v", first.Price)
	}
	if first.Size.Value == nil || *first.Size.Value != 1000 || first.Size.Unit != "sqft" {
		t.Fatalf("unexpected size %+v", first.Size)
	}
	if first.LocationName != "Marina Gate 1, Marina Gate, Dubai Marina, Dubai" {
		t.Fatalf("unexpected location %s", first.LocationName)
	}
	if first.Bedrooms != "2" || first.Bathrooms != "3" {
		t.Fatalf("unexpected rooms %s/%s", first.Bedrooms, first.Bathrooms)
	}

	second := NormalizeListing(raw[1], origin)
	if second.SourceURL != origin+"/en/plp/buy/apartment-for-sale-dubai-dubai-marina-studio-777.html" {
		t.Fatalf("expected origin + details_path, got %s", second.SourceURL)
	}
	if second.Price.Value == nil || *second.Price.Value != 650000 {
		t.Fatalf("expected comma-stripped price 650000, got %v", second.Price.Value)
	}
	if second.Bedrooms != "studio" || second.Bathrooms != "1" || second.ListingID != "777" {
		t.Fatalf("unexpected text fields %+v", second)
	}

	third := NormalizeListing(raw[2], origin)
	if third.SourceURL != "" {
		t.Fatalf("expected empty url, got %s", third.SourceURL)
	}
	if third.HasPositivePrice() {
		t.Fatalf("expected zero price to not count as a price")
	}
	if third.Bedrooms != "0" {
		t.Fatalf("expected numeric 0 bedrooms to read as \"0\", got %q", third.Bedrooms)
	}
}

func TestNormalizeListing_NoProperty(t *testing.T) {
	rec := NormalizeListing(gjson.Parse(`{"listing_type":"ad"}`), origin)
	if rec.SourceURL != "" || rec.Price.Value != nil || rec.Title != "" {
		t.Fatalf("expected an empty record, got %+v", rec)
	}
}

func TestNormalizeTransaction_Aliases(t *testing.T) {
	raw := ExtractTransactions(loadFixture(t, "tx_list_page.html"), "").Items

	a := NormalizeTransaction(raw[0])
	if a.Price == nil || *a.Price != 1000000 || a.SizeRaw != "1000" || a.BedroomsRaw != "2" {
		t.Fatalf("unexpected first transaction %+v", a)
	}
	if a.TransactionDate != "2024-04-10" || a.PropertyType != "Apartment" {
		t.Fatalf("unexpected date/type %s/%s", a.TransactionDate, a.PropertyType)
	}
	if string(a.Data) != raw[0].Raw {
		t.Fatalf("expected the source object to be kept")
	}

	b := NormalizeTransaction(raw[1])
	if b.Price == nil || *b.Price != 1100000 {
		t.Fatalf("expected amount alias to give 1100000, got %v", b.Price)
	}
	if b.SizeRaw != "1,000" || b.BedroomsRaw != "2" || b.TransactionDate != "2024-04-12" {
		t.Fatalf("unexpected aliased fields %+v", b)
	}
	if b.ReportedPricePerArea != nil {
		t.Fatalf("expected null pricePerSqft to be absent")
	}

	c := NormalizeTransaction(raw[2])
	if c.SizeRaw != "1500" || c.BedroomsRaw != "3" || c.TransactionDate != "2024-04-15" {
		t.Fatalf("unexpected aliased fields %+v", c)
	}
	if c.ReportedPricePerArea == nil || *c.ReportedPricePerArea != 2000 {
		t.Fatalf("expected reported price per area 2000, got %v", c.ReportedPricePerArea)
	}
}

func TestNormalizeTransaction_AliasOrder(t *testing.T) {
	rec := NormalizeTransaction(gjson.Parse(`{"beds":"4","bedrooms":null,"bedroom":"3","size":"n/a","area":900}`))
	if rec.BedroomsRaw != "3" {
		t.Fatalf("expected first non-null alias bedroom=3, got %q", rec.BedroomsRaw)
	}
	// A present but non-numeric value still wins over later aliases.
	if rec.SizeRaw != "n/a" {
		t.Fatalf("expected size n/a, got %q", rec.SizeRaw)
	}

	empty := NormalizeTransaction(gjson.Parse(`{}`))
	if empty.BedroomsRaw != "" || empty.SizeRaw != "" || empty.Price != nil {
		t.Fatalf("expected empty fields, got %+v", empty)
	}
}

func TestRawText(t *testing.T) {
	cases := map[string]string{
		`{"v":"2"}`:    "2",
		`{"v":3}`:      "3",
		`{"v":1250.5}`: "1250.5",
		`{"v":true}`:   "true",
		`{"v":false}`:  "false",
		`{"v":null}`:   "",
		`{}`:           "",
		`{"v":[1,2]}`:  "[1,2]",
	}
	for doc, want := range cases {
		if got := rawText(gjson.Parse(doc).Get("v")); got != want {
			t.Fatalf("%s: expected %q, got %q", doc, want, got)
		}
	}
}
