package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIDFormat = "author@2-title@10-year@4"

func validArticleFields() map[string]string {
	return map[string]string{
		"author":  "A. Smith and B. Lee",
		"title":   "On Gravity",
		"journal": "Phys Rev",
		"year":    "2020",
	}
}

func TestNewArticle(t *testing.T) {
	r, err := New(TypeArticle, validArticleFields(), testIDFormat)
	require.NoError(t, err)

	assert.Equal(t, TypeArticle, r.Type)
	assert.Equal(t, "a-smith-b-lee-on-gravity2020", r.ID())

	// Present fields carry their input values.
	author, ok := r.Field("author")
	assert.True(t, ok)
	assert.Equal(t, "A. Smith and B. Lee", author)

	// Absent optionals are explicit nulls, not missing keys: the
	// storage row must be total over the shared column set.
	_, ok = r.Field("doi")
	assert.False(t, ok)
	reqs, err := Requirements(TypeArticle)
	require.NoError(t, err)
	for _, req := range reqs {
		_, present := r.fields[req.Key]
		assert.True(t, present, "field %q should at least hold a null", req.Key)
	}
}

func TestNewMissingRequired(t *testing.T) {
	for _, field := range []string{"author", "title", "journal", "year"} {
		t.Run(field, func(t *testing.T) {
			fields := validArticleFields()
			delete(fields, field)

			_, err := New(TypeArticle, fields, testIDFormat)

			var valErr *ValidationError
			if field == "author" || field == "title" || field == "year" {
				// Fields the id template references fail earlier, as
				// configuration errors, when absent.
				var confErr *ConfigurationError
				require.ErrorAs(t, err, &confErr)
				assert.Equal(t, field, confErr.Field)
				return
			}
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, field, valErr.Field)
			assert.Equal(t, "is required", valErr.Reason)
		})
	}
}

func TestNewMissingRequiredWithSuppliedID(t *testing.T) {
	// With a caller-supplied id, no template runs and every missing
	// required field surfaces as a validation error.
	for _, field := range []string{"author", "title", "journal", "year"} {
		t.Run(field, func(t *testing.T) {
			fields := validArticleFields()
			fields["record_id"] = "smith2020"
			delete(fields, field)

			_, err := New(TypeArticle, fields, "")

			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, field, valErr.Field)
			assert.Equal(t, "is required", valErr.Reason)
		})
	}
}

func TestNewValidationFailFast(t *testing.T) {
	// author precedes year in the schema, so author is the one named.
	fields := validArticleFields()
	fields["record_id"] = "smith2020"
	delete(fields, "author")
	fields["year"] = "not-a-year"

	_, err := New(TypeArticle, fields, "")

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "author", valErr.Field)
}

func TestNewKindMismatch(t *testing.T) {
	fields := validArticleFields()
	fields["year"] = "20x0"

	_, err := New(TypeArticle, fields, testIDFormat)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "year", valErr.Field)
	assert.Equal(t, "must be an integer", valErr.Reason)
}

func TestNewPatternMismatch(t *testing.T) {
	fields := validArticleFields()
	fields["issn"] = "12345-678"

	_, err := New(TypeArticle, fields, testIDFormat)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "issn", valErr.Field)
}

func TestNewUnknownField(t *testing.T) {
	fields := validArticleFields()
	fields["publisher"] = "Springer" // book field, not an article field

	_, err := New(TypeArticle, fields, testIDFormat)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "publisher", valErr.Field)
	assert.Equal(t, "is not in the schema", valErr.Reason)
}

func TestNewUnknownRecordType(t *testing.T) {
	_, err := New("thesis", validArticleFields(), testIDFormat)
	assert.ErrorIs(t, err, ErrUnknownRecordType)
}

func TestNewSuppliedID(t *testing.T) {
	fields := validArticleFields()
	fields["record_id"] = "custom-key"

	r, err := New(TypeArticle, fields, "")
	require.NoError(t, err)
	assert.Equal(t, "custom-key", r.ID())
}

func TestNewWithoutFormatOrID(t *testing.T) {
	_, err := New(TypeArticle, validArticleFields(), "")

	var confErr *ConfigurationError
	require.ErrorAs(t, err, &confErr)
}

func TestNewEmptyValueCountsAsAbsent(t *testing.T) {
	fields := validArticleFields()
	fields["record_id"] = "smith2020"
	fields["journal"] = ""

	_, err := New(TypeArticle, fields, "")

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "journal", valErr.Field)
	assert.Equal(t, "is required", valErr.Reason)
}

func TestNewSanitizesTags(t *testing.T) {
	fields := validArticleFields()
	fields["tags"] = "quantum, gravity"

	r, err := New(TypeArticle, fields, testIDFormat)
	require.NoError(t, err)

	tags, ok := r.Field("tags")
	assert.True(t, ok)
	assert.Equal(t, ";quantum;;gravity;", tags)
}

func TestNewBook(t *testing.T) {
	r, err := New(TypeBook, map[string]string{
		"author":    "C. Kittel",
		"title":     "Introduction to Solid State Physics",
		"publisher": "Wiley",
		"year":      "2004",
	}, "author@1-title@12-year@4")
	require.NoError(t, err)
	assert.Equal(t, TypeBook, r.Type)
	assert.Equal(t, "c-kittel-introduction2004", r.ID())
}

func TestNewWebsite(t *testing.T) {
	r, err := New(TypeWebsite, map[string]string{
		"title": "The arXiv API",
		"url":   "https://info.arxiv.org/help/api",
	}, "title@16")
	require.NoError(t, err)
	assert.Equal(t, TypeWebsite, r.Type)
	assert.Equal(t, "the-arxiv-api", r.ID())

	_, err = New(TypeWebsite, map[string]string{
		"title": "The arXiv API",
		"url":   "ftp://mirror.example.org",
	}, "title@16")
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "url", valErr.Field)
}

func TestSanitizeTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain comma list", input: "a, b", want: ";a;;b;"},
		{name: "untrimmed tokens", input: " a , b ", want: ";a;;b;"},
		{name: "empty string", input: "", want: ""},
		{name: "already canonical", input: ";a;;b;", want: ";a;;b;"},
		{name: "empty tokens dropped", input: "a, , b", want: ";a;;b;"},
		{name: "duplicates kept", input: "a, b, a", want: ";a;;b;;a;"},
		{name: "embedded semicolons stripped", input: "a;b", want: ";ab;"},
		{name: "only separators", input: ", ,", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeTags(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, SanitizeTags(got), "sanitization must be idempotent")
		})
	}
}

func TestSetField(t *testing.T) {
	r, err := New(TypeArticle, validArticleFields(), testIDFormat)
	require.NoError(t, err)

	// Raw tag edits land in canonical form immediately.
	require.NoError(t, r.SetField("tags", "a, b, a"))
	tags, ok := r.Field("tags")
	assert.True(t, ok)
	assert.Equal(t, ";a;;b;;a;", tags)

	// Empty value clears to null.
	require.NoError(t, r.SetField("doi", "10.1000/x"))
	require.NoError(t, r.SetField("doi", ""))
	_, ok = r.Field("doi")
	assert.False(t, ok)

	// Identity and unknown fields are rejected.
	var valErr *ValidationError
	err = r.SetField("record_id", "other")
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "record_id", valErr.Field)

	err = r.SetField("publisher", "Springer")
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "publisher", valErr.Field)

	// Clearing a required field is caught by the next validation.
	require.NoError(t, r.SetField("journal", ""))
	err = r.Validate()
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "journal", valErr.Field)
}

func TestStorageRowRoundTrip(t *testing.T) {
	fields := validArticleFields()
	fields["title"] = `On "Dark" Matter`
	fields["record_id"] = "smith2020"
	fields["tags"] = "quantum, gravity"

	r, err := New(TypeArticle, fields, "")
	require.NoError(t, err)

	row := r.StorageRow()
	assert.Len(t, row, len(Columns()))

	back, err := Hydrate(row)
	require.NoError(t, err)
	assert.Equal(t, r, back)
}

func TestStorageRowEscapesQuotes(t *testing.T) {
	fields := validArticleFields()
	fields["title"] = `say "hi"`
	fields["record_id"] = "smith2020"

	r, err := New(TypeArticle, fields, "")
	require.NoError(t, err)

	titleIndex := -1
	for i, col := range Columns() {
		if col == "title" {
			titleIndex = i
		}
	}
	require.NotEqual(t, -1, titleIndex)

	row := r.StorageRow()
	assert.Equal(t, "say %QUOTEhi%QUOTE", row[titleIndex].String)
	assert.NotContains(t, row[titleIndex].String, `"`)

	back, err := Hydrate(row)
	require.NoError(t, err)
	title, ok := back.Field("title")
	assert.True(t, ok)
	assert.Equal(t, `say "hi"`, title)
}

func TestStorageRowNullColumns(t *testing.T) {
	r, err := New(TypeArticle, validArticleFields(), testIDFormat)
	require.NoError(t, err)

	row := r.StorageRow()
	cols := Columns()
	for i, col := range cols {
		switch col {
		case "record_id", "record_type", "author", "title", "journal", "year":
			assert.True(t, row[i].Valid, "column %q should be set", col)
		default:
			// Absent optionals and other types' columns are null.
			assert.False(t, row[i].Valid, "column %q should be null", col)
		}
	}
}

func TestHydrateUnknownType(t *testing.T) {
	r, err := New(TypeArticle, validArticleFields(), testIDFormat)
	require.NoError(t, err)

	row := r.StorageRow()
	row[1].String = "thesis"

	_, err = Hydrate(row)
	assert.ErrorIs(t, err, ErrUnknownRecordType)
}

func TestHydrateShortRow(t *testing.T) {
	_, err := Hydrate(nil)
	assert.Error(t, err)
}

func TestClone(t *testing.T) {
	r, err := New(TypeArticle, validArticleFields(), testIDFormat)
	require.NoError(t, err)

	clone := r.Clone()
	assert.Equal(t, r, clone)

	require.NoError(t, clone.SetField("title", "Changed"))
	title, _ := r.Field("title")
	assert.Equal(t, "On Gravity", title, "mutating the clone must not touch the original")
}
