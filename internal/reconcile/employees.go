package reconcile

import (
	"regexp"
	"strconv"
	"strings"
)

var employeeCountRe = regexp.MustCompile(`\d+(?:,\d+)*`)

// ParseEmployeeCount extracts the first integer token (thousands separators
// allowed) from scraped employee-count text such as "1,001-5,000 employees".
// Unparseable text yields nil, never an error.
func ParseEmployeeCount(text string) *int {
	token := employeeCountRe.FindString(text)
	if token == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.ReplaceAll(token, ",", ""))
	if err != nil {
		return nil
	}
	return &n
}
