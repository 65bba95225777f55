package scrape

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/paperstack/paperstack/pkg/record"
)

const arxivAPIBaseURL = "https://export.arxiv.org/api/query"

// arxivIDPattern matches a whole reference that is an arXiv id: bare,
// arXiv:-prefixed, or an abs URL, in new (2301.00001) or old
// (astro-ph/9901001) style, tolerating a version suffix. Anchored so
// a title ending in a number is never mistaken for an id.
var arxivIDPattern = regexp.MustCompile(
	`^(?:arXiv:|https?://arxiv\.org/abs/)?([0-9]{4}\.[0-9]{4,5}|[a-z-]+(?:\.[A-Z]{2})?/[0-9]{7})(?:[vV][0-9]+)?$`)

// Arxiv scrapes article metadata from the arXiv Atom API. One request
// per reference, no retries; a timeout is the only cancellation.
type Arxiv struct {
	client  *http.Client
	baseURL string
	logger  *zap.Logger
}

// ArxivOption configures an Arxiv scraper.
type ArxivOption func(*Arxiv)

// WithBaseURL points the scraper at a different API endpoint.
func WithBaseURL(baseURL string) ArxivOption {
	return func(a *Arxiv) {
		a.baseURL = baseURL
	}
}

// WithHTTPClient replaces the scraper's HTTP client.
func WithHTTPClient(client *http.Client) ArxivOption {
	return func(a *Arxiv) {
		a.client = client
	}
}

// WithScrapeLogger attaches a logger. The default discards everything.
func WithScrapeLogger(logger *zap.Logger) ArxivOption {
	return func(a *Arxiv) {
		a.logger = logger
	}
}

// NewArxiv returns an arXiv scraper whose requests give up after
// timeout.
func NewArxiv(timeout time.Duration, opts ...ArxivOption) *Arxiv {
	a := &Arxiv{
		client:  &http.Client{Timeout: timeout},
		baseURL: arxivAPIBaseURL,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name implements Scraper.
func (a *Arxiv) Name() string { return "arxiv" }

// Scrape resolves ref against the arXiv API. A reference carrying an
// arXiv id is fetched by id (version suffix stripped); anything else
// is treated as a title search taking the best match.
func (a *Arxiv) Scrape(ctx context.Context, ref string) (string, map[string]string, error) {
	arxivID := extractArxivID(ref)

	params := url.Values{}
	if arxivID != "" {
		params.Set("id_list", arxivID)
	} else {
		params.Set("search_query", `ti:"`+cleanText(ref)+`"`)
	}
	params.Set("start", "0")
	params.Set("max_results", "1")

	logger := a.logger.With(
		zap.String("scraper", a.Name()),
		zap.String("scrape_id", uuid.NewString()),
	)
	logger.Info("scraping reference", zap.String("ref", ref))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", nil, fmt.Errorf("build arxiv request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("query arxiv: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("query arxiv: http %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("read arxiv response: %w", err)
	}

	var feed atomFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return "", nil, fmt.Errorf("parse arxiv response: %w", err)
	}
	if len(feed.Entries) == 0 {
		return "", nil, fmt.Errorf("no arxiv entry matched %q", ref)
	}

	entry := feed.Entries[0]
	if strings.Contains(entry.ID, "api/errors") || strings.TrimSpace(entry.Title) == "" {
		return "", nil, fmt.Errorf("no arxiv entry matched %q", ref)
	}

	if arxivID == "" {
		// A title search found the entry; recover the id from its
		// abs URL for the record note.
		if idx := strings.LastIndex(entry.ID, "/abs/"); idx >= 0 {
			arxivID = extractArxivID(entry.ID[idx+5:])
		}
	}

	published, err := time.Parse(time.RFC3339, strings.TrimSpace(entry.Published))
	if err != nil {
		return "", nil, fmt.Errorf("parse arxiv published date %q: %w", entry.Published, err)
	}

	names := make([]string, 0, len(entry.Authors))
	for _, author := range entry.Authors {
		names = append(names, strings.TrimSpace(author.Name))
	}

	journal := cleanText(entry.JournalRef)
	if journal == "" {
		journal = "arXiv e-prints"
	}

	fields := map[string]string{
		record.FieldAuthor: strings.Join(names, " and "),
		"title":            cleanText(entry.Title),
		"journal":          journal,
		"year":             strconv.Itoa(published.Year()),
		"month":            strconv.Itoa(int(published.Month())),
	}
	if doi := strings.TrimSpace(entry.DOI); doi != "" {
		fields["doi"] = doi
	}
	if comment := cleanText(entry.Comment); comment != "" {
		fields["bibnote"] = comment
	}
	if arxivID != "" {
		fields["note"] = "arXiv:" + arxivID
	}

	logger.Info("scraped article",
		zap.String("arxiv_id", arxivID),
		zap.String("title", fields["title"]))
	return record.TypeArticle, fields, nil
}

// extractArxivID returns the arXiv id when ref is one, without any
// version suffix, or "" when ref is not an id reference.
func extractArxivID(ref string) string {
	match := arxivIDPattern.FindStringSubmatch(strings.TrimSpace(ref))
	if match == nil {
		return ""
	}
	return match[1]
}

// cleanText collapses internal whitespace runs, including the newlines
// the Atom feed wraps long titles with, into single spaces.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Atom feed shapes for the arXiv API. Element names match on the
// local part, so the arxiv-namespaced extensions need no prefix.

type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID         string       `xml:"id"`
	Title      string       `xml:"title"`
	Summary    string       `xml:"summary"`
	Authors    []atomAuthor `xml:"author"`
	Published  string       `xml:"published"`
	Comment    string       `xml:"comment"`
	JournalRef string       `xml:"journal_ref"`
	DOI        string       `xml:"doi"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}
