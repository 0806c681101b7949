// Package search looks up a vehicle identifier on the public web through a
// chain of interchangeable providers.
package search

// Request is a normalized web search request.
type Request struct {
	Query string
	Count int
}

// Hit is a single normalized search result. Hits keep the provider's
// relevance order and are never re-sorted.
type Hit struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Response is a normalized search response.
type Response struct {
	Query    string `json:"query"`
	Provider string `json:"provider"`
	Hits     []Hit  `json:"hits"`
	TookMs   int64  `json:"took_ms"`
}
