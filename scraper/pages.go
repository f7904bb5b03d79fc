package scraper

import (
	"regexp"
	"strconv"
	"strings"
)

var pageParamRegex = regexp.MustCompile(`([?&])page=[^&#]*`)

// BuildPageURL points base at page n: an existing page parameter is rewritten
// in place, otherwise one is appended to the query.
func BuildPageURL(base string, n int) string {
	page := "page=" + strconv.Itoa(n)

	if pageParamRegex.MatchString(base) {
		return pageParamRegex.ReplaceAllString(base, "${1}"+page)
	}

	fragment := ""
	if i := strings.IndexByte(base, '#'); i >= 0 {
		base, fragment = base[:i], base[i:]
	}

	switch {
	case !strings.Contains(base, "?"):
		base += "?" + page
	case strings.HasSuffix(base, "?"), strings.HasSuffix(base, "&"):
		base += page
	default:
		base += "&" + page
	}
	return base + fragment
}
