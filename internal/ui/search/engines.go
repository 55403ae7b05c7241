package search

import (
	"net/url"
	"strings"
)

// DefaultEngine is used when no valid engine is configured.
const DefaultEngine = "Google"

// EngineNames lists the selectable engines, in cycling order.
var EngineNames = []string{"Google", "Brave", "DuckDuckGo", "Bing", "YouTube"}

var engineBases = map[string]string{
	"Google":     "https://www.google.com/search?q=",
	"Brave":      "https://search.brave.com/search?q=",
	"DuckDuckGo": "https://duckduckgo.com/?q=",
	"Bing":       "https://www.bing.com/search?q=",
	"YouTube":    "https://www.youtube.com/results?search_query=",
}

// ValidEngine reports whether name is a known search engine.
func ValidEngine(name string) bool {
	_, ok := engineBases[name]
	return ok
}

// URLFor builds the search URL for a query. Unknown engines fall back to
// the default.
func URLFor(engine, query string) (*url.URL, error) {
	base, ok := engineBases[engine]
	if !ok {
		base = engineBases[DefaultEngine]
	}
	return url.Parse(base + url.QueryEscape(strings.TrimSpace(query)))
}

// NextEngine returns the engine after current in cycling order.
func NextEngine(current string) string {
	for index, name := range EngineNames {
		if name == current {
			return EngineNames[(index+1)%len(EngineNames)]
		}
	}
	return DefaultEngine
}

const historyLimit = 20

// History keeps the most recent queries, newest first, for suggestions.
type History struct {
	entries []string
}

// Add records a query, moving repeats to the front.
func (history *History) Add(query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}
	for index, existing := range history.entries {
		if strings.EqualFold(existing, query) {
			history.entries = append(history.entries[:index], history.entries[index+1:]...)
			break
		}
	}
	history.entries = append([]string{query}, history.entries...)
	if len(history.entries) > historyLimit {
		history.entries = history.entries[:historyLimit]
	}
}

// Matches returns past queries containing text, newest first.
func (history *History) Matches(text string) []string {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return nil
	}
	var matches []string
	for _, entry := range history.entries {
		if strings.Contains(strings.ToLower(entry), text) {
			matches = append(matches, entry)
		}
	}
	return matches
}
