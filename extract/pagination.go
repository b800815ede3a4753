package extract

import (
	"strconv"
	"strings"
)

// PageURL returns the address of page n of a listing that starts at base.
//
// Page 1 (and anything below it) is base itself. Later pages add a "page"
// query parameter, joined with "&" when base already carries a query string
// and with "?" otherwise.
func PageURL(base string, n int) string {
	if n <= 1 {
		return base
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "page=" + strconv.Itoa(n)
}
