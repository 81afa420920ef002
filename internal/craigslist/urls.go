// Package craigslist finds craigslist ads in free text and scrapes ad pages.
package craigslist

import "regexp"

// Matches any post url ending in .html on the craigslist domain. Forum, search
// and about pages never end in .html so they fall through.
var postURLRegex = regexp.MustCompile(`[\w\.:/]+?craigslist\.org.+?.*?\.html`)

// ExtractURLs returns every craigslist post url found in text, in the order
// they appear. The urls are returned exactly as written.
func ExtractURLs(text string) []string {
	matches := postURLRegex.FindAllString(text, -1)
	if matches == nil {
		return []string{}
	}
	return matches
}
