package scraper

import (
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"pf_scrooper/models"
	"pf_scrooper/services"
)

/*
Property Finder pages are Next.js renders. Everything we need is in the
hydration payload:

  <script id="__NEXT_DATA__" type="application/json">{ "props": { "pageProps": ... } }</script>

Search results:
  props.pageProps.searchResult.listings[].property
    { share_url, details_path, property_type, title, listed_date, reference,
      listing_id, bedrooms, bathrooms,
      price: { value, currency, period }, size: { value, unit },
      location: { full_name } }

Transactions browse page (ShapeList):
  props.pageProps.list.transactionList[]
  props.pageProps.list.totalPageCount

Transactions search page (ShapeSearch), no page count:
  props.pageProps.transactions.transactions_list.transactions.items[]

Transaction objects are not consistent about field names; see
TransactionFieldAliases.
*/

const nextDataSelector = `script#__NEXT_DATA__[type="application/json"]`

const (
	listingsPath        = "props.pageProps.searchResult.listings"
	txListPath          = "props.pageProps.list.transactionList"
	txListPageCountPath = "props.pageProps.list.totalPageCount"
	txSearchPath        = "props.pageProps.transactions.transactions_list.transactions.items"
)

// TransactionPage is what one transactions page yields.
type TransactionPage struct {
	Items []gjson.Result
	// TotalPages is the page count the source reports, at least 1.
	TotalPages int
}

// payload returns the embedded JSON document, or ok=false when the page has
// no payload block or the block is not valid JSON.
func payload(markup string) (gjson.Result, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return gjson.Result{}, false
	}

	sel := doc.Find(nextDataSelector).First()
	if sel.Length() == 0 {
		return gjson.Result{}, false
	}

	text := sel.Text()
	if !gjson.Valid(text) {
		return gjson.Result{}, false
	}
	return gjson.Parse(text), true
}

// ExtractListings returns the raw listing objects of a search results page.
// It never fails: a page without the expected payload yields no listings.
func ExtractListings(markup string) []gjson.Result {
	doc, ok := payload(markup)
	if !ok {
		return nil
	}
	return arrayAt(doc, listingsPath)
}

// ExtractTransactions returns the raw transaction objects of a transactions
// page laid out as shape.
func ExtractTransactions(markup string, shape models.TransactionShape) TransactionPage {
	empty := TransactionPage{TotalPages: 1}

	doc, ok := payload(markup)
	if !ok {
		return empty
	}

	switch shape {
	case models.ShapeSearch:
		return TransactionPage{Items: arrayAt(doc, txSearchPath), TotalPages: 1}
	case models.ShapeList, "":
		return TransactionPage{
			Items:      arrayAt(doc, txListPath),
			TotalPages: pageCount(doc.Get(txListPageCountPath)),
		}
	default:
		return empty
	}
}

func arrayAt(doc gjson.Result, path string) []gjson.Result {
	r := doc.Get(path)
	if !r.IsArray() {
		return nil
	}
	return r.Array()
}

// pageCount reads a reported page count. Anything that is not a finite
// number of at least 1 counts as a single page.
func pageCount(r gjson.Result) int {
	n, ok := services.ToNumber(rawText(r))
	if !ok || n < 1 || n > math.MaxInt32 {
		return 1
	}
	return int(n)
}
