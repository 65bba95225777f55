package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperstack/paperstack/pkg/record"
)

func testArticle(t *testing.T) *record.Record {
	t.Helper()
	r, err := record.New(record.TypeArticle, map[string]string{
		"record_id": "smith2020",
		"author":    "A. Smith and B. Lee",
		"title":     "On Gravity & Waves",
		"journal":   "Phys. Rev. D",
		"year":      "2018",
		"volume":    "101",
		"number":    "2",
		"pages":     "024001--024015",
		"month":     "1",
		"doi":       "10.1103/PhysRevD.101.024001",
		"issn":      "2470-0010",
		"bibnote":   "12 pages",
		"note":      "reread for chapter 3",
		"path":      "/papers/smith.pdf",
		"tags":      "gravity, waves",
	}, "")
	require.NoError(t, err)
	return r
}

func testBook(t *testing.T) *record.Record {
	t.Helper()
	r, err := record.New(record.TypeBook, map[string]string{
		"record_id": "kittel2004",
		"author":    "C. Kittel",
		"title":     "Introduction to Solid State Physics",
		"publisher": "Wiley",
		"year":      "2004",
		"edition":   "8",
	}, "")
	require.NoError(t, err)
	return r
}

func testWebsite(t *testing.T) *record.Record {
	t.Helper()
	r, err := record.New(record.TypeWebsite, map[string]string{
		"record_id": "arxivapi",
		"title":     "arXiv API",
		"url":       "https://info.arxiv.org/help/api",
		"author":    "arXiv",
		"accessed":  "2024-06-01",
	}, "")
	require.NoError(t, err)
	return r
}

func TestBibTeXArticle(t *testing.T) {
	got, err := BibTeX([]*record.Record{testArticle(t)})
	require.NoError(t, err)

	want := `@article{smith2020,
  author = {A. Smith and B. Lee},
  title = {On Gravity \& Waves},
  journal = {Phys. Rev. D},
  year = {2018},
  volume = {101},
  number = {2},
  pages = {024001--024015},
  month = {1},
  doi = {10.1103/PhysRevD.101.024001},
  issn = {2470-0010},
  note = {12 pages},
}
`
	assert.Equal(t, want, got)
	assert.NotContains(t, got, "reread", "personal notes stay in the library")
	assert.NotContains(t, got, "/papers/", "file paths stay in the library")
	assert.NotContains(t, got, ";gravity;", "tags stay in the library")
}

func TestBibTeXBookAndWebsite(t *testing.T) {
	got, err := BibTeX([]*record.Record{testBook(t), testWebsite(t)})
	require.NoError(t, err)

	want := `@book{kittel2004,
  author = {C. Kittel},
  title = {Introduction to Solid State Physics},
  publisher = {Wiley},
  year = {2004},
  edition = {8},
}

@misc{arxivapi,
  title = {arXiv API},
  url = {https://info.arxiv.org/help/api},
  author = {arXiv},
  urldate = {2024-06-01},
}
`
	assert.Equal(t, want, got)
}

func TestBibTeXEmptyLibrary(t *testing.T) {
	got, err := BibTeX(nil)
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestEscapeBibTeX(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "On Gravity", want: "On Gravity"},
		{name: "ampersand", in: "Phys & Chem", want: `Phys \& Chem`},
		{name: "braces", in: "{Dark} matter", want: `\{Dark\} matter`},
		{name: "percent and dollar", in: "100% of $5", want: `100\% of \$5`},
		{name: "underscore and hash", in: "x_1 #2", want: `x\_1 \#2`},
		{name: "caret", in: "e^x", want: `e\textasciicircum{}x`},
		{name: "tilde", in: "~5", want: `\textasciitilde{}5`},
		{
			name: "backslash replacement is not re-escaped",
			in:   `a\b`,
			want: `a\textbackslash{}b`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeBibTeX(tt.in))
		})
	}
}
