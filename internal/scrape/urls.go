package scrape

import (
	"fmt"
	"net/url"
	"strings"
)

const resultsPerPage = 10

// Review sort orders offered by the site. Best-first and worst-first
// together bound the sample without paginating the full review list.
const (
	SortBestFirst  = "rating_desc"
	SortWorstFirst = "rating_asc"
)

// SearchURL builds the paginated restaurant search URL for a location.
// Page 1 carries no offset; page n starts at (n-1)*10.
func SearchURL(baseURL, location string, page int) string {
	u := fmt.Sprintf("%s/search?find_desc=Restaurants&find_loc=%s", baseURL, url.QueryEscape(location))
	if page > 1 {
		u = fmt.Sprintf("%s&start=%d", u, (page-1)*resultsPerPage)
	}
	return u
}

// SortedReviewURL appends the sort order to a restaurant page URL,
// regardless of whether the scraped URL already carries a query string.
func SortedReviewURL(restaurantURL, sortOrder string) string {
	sep := "?"
	if strings.Contains(restaurantURL, "?") {
		sep = "&"
	}
	return restaurantURL + sep + "sort_by=" + sortOrder
}

// NormalizeURL strips fragments and the www prefix and defaults the scheme,
// so the same page always maps to the same string.
func NormalizeURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	parsed.Fragment = ""
	parsed.Host = strings.TrimPrefix(parsed.Host, "www.")
	if parsed.Scheme == "" {
		parsed.Scheme = "https"
	}

	return parsed.String()
}
