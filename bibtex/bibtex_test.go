package bibtex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ambiyansyah-risyal/scholargo/scholar"
)

func transformerPaper() scholar.Paper {
	return scholar.Paper{
		PaperID:          "649def34f8be52c8b66281af98ae884c09aef38b",
		Title:            "Attention Is All You Need",
		Year:             2017,
		Venue:            "Neural Information Processing Systems",
		PublicationTypes: []string{"Conference"},
		URL:              "https://www.semanticscholar.org/paper/649def34",
		Authors: []scholar.AuthorRef{
			{AuthorID: "1", Name: "Ashish Vaswani"},
			{AuthorID: "2", Name: "Noam Shazeer"},
		},
	}
}

func TestEntryType(t *testing.T) {
	cases := []struct {
		types []string
		want  string
	}{
		{[]string{"JournalArticle"}, "article"},
		{[]string{"Conference"}, "inproceedings"},
		{[]string{"Book"}, "book"},
		{[]string{"BookSection"}, "incollection"},
		{[]string{"Review"}, "article"},
		{[]string{"SomethingNew"}, "misc"},
		{nil, "misc"},
	}
	for _, tc := range cases {
		paper := scholar.Paper{PublicationTypes: tc.types}
		assert.Equal(t, tc.want, EntryType(paper), "types %v", tc.types)
	}
}

func TestCiteKey(t *testing.T) {
	assert.Equal(t, "vaswani2017", CiteKey(transformerPaper()))
}

func TestCiteKeyFoldsAccents(t *testing.T) {
	paper := scholar.Paper{
		Year:    2020,
		Authors: []scholar.AuthorRef{{Name: "Jürgen Müller"}},
	}
	assert.Equal(t, "muller2020", CiteKey(paper))
}

func TestCiteKeyFallsBackToPaperID(t *testing.T) {
	paper := scholar.Paper{PaperID: "649def34f8be52c8b66281af98ae884c09aef38b"}
	assert.Equal(t, "649def34", CiteKey(paper))
}

func TestFormatEntryConference(t *testing.T) {
	entry := FormatEntry(transformerPaper(), "vaswani2017", DefaultConfig())

	assert.True(t, strings.HasPrefix(entry, "@inproceedings{vaswani2017,"))
	assert.Contains(t, entry, "title = {Attention Is All You Need}")
	assert.Contains(t, entry, "author = {Ashish Vaswani and Noam Shazeer}")
	assert.Contains(t, entry, "year = {2017}")
	assert.Contains(t, entry, "booktitle = {Neural Information Processing Systems}")
	assert.Contains(t, entry, "url = {")
	assert.True(t, strings.HasSuffix(entry, "}\n"))
}

func TestFormatEntryJournal(t *testing.T) {
	paper := scholar.Paper{
		Title:            "A Journal Paper",
		Year:             2019,
		PublicationTypes: []string{"JournalArticle"},
		Journal:          &scholar.Journal{Name: "Nature", Volume: "567", Pages: "1-10"},
	}
	entry := FormatEntry(paper, "key2019", Config{})

	assert.Contains(t, entry, "@article{key2019,")
	assert.Contains(t, entry, "journal = {Nature}")
	assert.Contains(t, entry, "volume = {567}")
	assert.Contains(t, entry, "pages = {1-10}")
}

func TestFormatEntryEscapesLaTeX(t *testing.T) {
	paper := scholar.Paper{
		Title: `100% Accuracy & $1 Budget: A_B {test}`,
		Year:  2021,
	}
	entry := FormatEntry(paper, "key2021", Config{})

	assert.Contains(t, entry, `\%`)
	assert.Contains(t, entry, `\&`)
	assert.Contains(t, entry, `\$`)
	assert.Contains(t, entry, `\_`)
	assert.Contains(t, entry, `\{test\}`)
}

func TestEscapeLaTeXBackslashFirst(t *testing.T) {
	// Backslashes introduced by later escapes must not be re-escaped.
	got := escapeLaTeX(`a\b`)
	assert.Equal(t, `a\textbackslash\{\}b`, got)
}

func TestFormatEntryDOI(t *testing.T) {
	paper := transformerPaper()
	paper.ExternalIDs = map[string]any{"DOI": "10.5555/3295222"}

	withDOI := FormatEntry(paper, "k", Config{IncludeDOI: true})
	assert.Contains(t, withDOI, "doi = {10.5555/3295222}")

	withoutDOI := FormatEntry(paper, "k", Config{})
	assert.NotContains(t, withoutDOI, "doi =")
}

func TestFormatEntryAbstractOptIn(t *testing.T) {
	paper := transformerPaper()
	paper.Abstract = "The dominant sequence transduction models..."

	assert.NotContains(t, FormatEntry(paper, "k", DefaultConfig()), "abstract =")
	assert.Contains(t, FormatEntry(paper, "k", Config{IncludeAbstract: true}), "abstract =")
}

func TestExportDisambiguatesKeys(t *testing.T) {
	first := transformerPaper()
	second := transformerPaper()
	second.Title = "Another 2017 Vaswani Paper"
	third := transformerPaper()
	third.Title = "Yet Another"

	doc := Export([]scholar.Paper{first, second, third}, Config{})

	assert.Contains(t, doc, "{vaswani2017,")
	assert.Contains(t, doc, "{vaswani2017a,")
	assert.Contains(t, doc, "{vaswani2017b,")
}

func TestExportSkipsNaturallyTakenSuffixKeys(t *testing.T) {
	// "vaswani" plus the disambiguation suffix "a" spells the natural key
	// of a different author; the generated key must skip past it.
	byVaswania := scholar.Paper{
		Title:   "Unrelated",
		Authors: []scholar.AuthorRef{{Name: "Ada Vaswania"}},
	}
	byVaswani := func(title string) scholar.Paper {
		return scholar.Paper{Title: title, Authors: []scholar.AuthorRef{{Name: "Ashish Vaswani"}}}
	}

	doc := Export([]scholar.Paper{byVaswania, byVaswani("First"), byVaswani("Second")}, Config{})

	assert.Equal(t, 1, strings.Count(doc, "{vaswania,"))
	assert.Contains(t, doc, "{vaswani,")
	assert.Contains(t, doc, "{vaswanib,")
}

func TestExportSeparatesEntries(t *testing.T) {
	papers := []scholar.Paper{transformerPaper(), {Title: "Solo", Year: 2000, Authors: []scholar.AuthorRef{{Name: "Ada Lovelace"}}}}
	doc := Export(papers, Config{})

	require.Equal(t, 2, strings.Count(doc, "@"))
	assert.Contains(t, doc, "}\n\n@")
}

func TestExportEmpty(t *testing.T) {
	assert.Equal(t, "", Export(nil, DefaultConfig()))
}
