package search

import (
	"context"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/idilsaglam/shelf/internal/config"
)

// Eligible reports whether q is long enough to search for once trimmed.
// minLen below 1 means the default of 2.
func Eligible(q string, minLen int) bool {
	if minLen < 1 {
		minLen = config.DefaultMinQueryLength
	}
	return utf8.RuneCountInString(strings.TrimSpace(q)) >= minLen
}

// Request is one submitted query, stamped with its sequence number.
type Request struct {
	Seq      uint64
	Query    string
	Category string
}

// Response carries the results of a Request back with the same stamp.
type Response struct {
	Seq     uint64
	Query   string
	Results []Result
}

// Field tracks the search box of one category. Every edit gets a new
// sequence number and only the response to the latest one is accepted, so
// answers arriving out of order never overwrite newer ones.
type Field struct {
	searcher Searcher
	category string
	minLen   int
	seq      atomic.Uint64
}

func NewField(s Searcher, category string, minLen int) *Field {
	return &Field{searcher: s, category: category, minLen: minLen}
}

func (f *Field) Category() string { return f.category }

// Current is the sequence number of the latest submission.
func (f *Field) Current() uint64 { return f.seq.Load() }

// Submit records an edit. The returned bool is false when the query is too
// short to search; the sequence advances anyway so older in-flight answers
// are dropped.
func (f *Field) Submit(query string) (Request, bool) {
	req := Request{
		Seq:      f.seq.Add(1),
		Query:    strings.TrimSpace(query),
		Category: f.category,
	}
	return req, Eligible(query, f.minLen)
}

// Fetch runs req. It blocks for as long as the provider does.
func (f *Field) Fetch(ctx context.Context, req Request) Response {
	return Response{
		Seq:     req.Seq,
		Query:   req.Query,
		Results: f.searcher.Search(ctx, req.Query, req.Category),
	}
}

// Accept reports whether resp answers the latest submission.
func (f *Field) Accept(resp Response) bool {
	return resp.Seq == f.seq.Load()
}
