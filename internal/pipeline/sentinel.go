package pipeline

import (
	"fmt"
	"strings"
)

// Marker prefixes every result line that reports a failure instead of a
// real result. Lines carrying it are never sent for translation.
const Marker = "Ayyo,"

const (
	CommentNoCredential = "Ayyo, comment generation failed, macha! Need that API key!"
	CommentEmpty        = "Ayyo, my comment generator took a nap in this garam weather!"
	CommentFailed       = "Ayyo, comment generation failed in this garam heat, da!"
	CommentCrashed      = "Ayyo, couldn't even generate a comment, da! System totally garam!"
	CommentOffline      = "System offline, no comments available, saar!"

	// SystemDown is the single result shown when no pipeline is available.
	SystemDown = Marker + " Sudeep's search system is down for maintenance, da! Try again later!"
)

const (
	structuredPlaceholder = "No description available, da!"
	snippetPlaceholder    = "No snippet available, da!"
)

func SearchFailed(query string) string {
	return fmt.Sprintf("%s search failed for '%s', da! The search engine is taking a chai break, macha!", Marker, query)
}

func NoResults(query string) string {
	return fmt.Sprintf("%s no results found for '%s', da! Must be the Bangalore traffic!", Marker, query)
}

func NoValidResults(query string) string {
	return fmt.Sprintf("%s no valid results for '%s', da! Everything came back empty, macha!", Marker, query)
}

func Crashed(query string) string {
	return fmt.Sprintf("%s something went wrong fetching/translating results for '%s', da! Server's confused!", Marker, query)
}

// HasSentinel reports whether any line starts with Marker.
func HasSentinel(lines []string) bool {
	for _, line := range lines {
		if strings.HasPrefix(line, Marker) {
			return true
		}
	}
	return false
}

// SystemCrashed is shown when the search entry point itself fails.
func SystemCrashed(query string) string {
	return fmt.Sprintf("%s Search System crashed badly for '%s', da! Try again after a long chai break!", Marker, query)
}
