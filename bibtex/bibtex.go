// Package bibtex renders paper metadata as BibTeX entries.
package bibtex

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/ambiyansyah-risyal/scholargo/scholar"
)

// Config controls which optional fields appear in generated entries.
type Config struct {
	IncludeAbstract bool
	IncludeURL      bool
	IncludeDOI      bool
}

// DefaultConfig includes URLs and DOIs but omits the lengthy abstract.
func DefaultConfig() Config {
	return Config{IncludeURL: true, IncludeDOI: true}
}

// publicationType → BibTeX entry type. First match in the paper's
// publicationTypes list wins; unknown types fall back to misc.
var entryTypes = map[string]string{
	"JournalArticle": "article",
	"Conference":     "inproceedings",
	"Book":           "book",
	"BookSection":    "incollection",
	"Dataset":        "misc",
	"Review":         "article",
}

// EntryType picks the BibTeX entry type for a paper.
func EntryType(paper scholar.Paper) string {
	for _, pt := range paper.PublicationTypes {
		if t, ok := entryTypes[pt]; ok {
			return t
		}
	}
	return "misc"
}

// CiteKey derives a citation key from the first author's last name and the
// publication year, e.g. "vaswani2017". Accented characters are reduced to
// their ASCII base; a paper with no usable author or year falls back to the
// paper ID prefix.
func CiteKey(paper scholar.Paper) string {
	var name string
	if len(paper.Authors) > 0 {
		parts := strings.Fields(paper.Authors[0].Name)
		if len(parts) > 0 {
			name = parts[len(parts)-1]
		}
	}
	name = asciiFold(name)

	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	key := b.String()

	if paper.Year > 0 {
		key += fmt.Sprintf("%d", paper.Year)
	}
	if key == "" {
		if len(paper.PaperID) >= 8 {
			return paper.PaperID[:8]
		}
		return paper.PaperID
	}
	return key
}

// asciiFold strips diacritics via NFKD decomposition, dropping combining
// marks so "Müller" becomes "Muller".
func asciiFold(s string) string {
	decomposed := norm.NFKD.String(s)
	var b strings.Builder
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// escapeLaTeX escapes BibTeX-hostile characters. Backslash goes first so
// later escapes are not doubled.
func escapeLaTeX(s string) string {
	replacements := []struct{ from, to string }{
		{`\`, `\textbackslash{}`},
		{`{`, `\{`},
		{`}`, `\}`},
		{`&`, `\&`},
		{`%`, `\%`},
		{`$`, `\$`},
		{`#`, `\#`},
		{`_`, `\_`},
		{`~`, `\textasciitilde{}`},
		{`^`, `\textasciicircum{}`},
	}
	for _, r := range replacements {
		s = strings.ReplaceAll(s, r.from, r.to)
	}
	return s
}

// FormatEntry renders one paper as a BibTeX entry under the given key.
func FormatEntry(paper scholar.Paper, key string, cfg Config) string {
	var b strings.Builder
	fmt.Fprintf(&b, "@%s{%s,\n", EntryType(paper), key)

	writeField := func(name, value string) {
		if value != "" {
			fmt.Fprintf(&b, "  %s = {%s},\n", name, escapeLaTeX(value))
		}
	}

	writeField("title", paper.Title)

	if len(paper.Authors) > 0 {
		names := make([]string, 0, len(paper.Authors))
		for _, a := range paper.Authors {
			if a.Name != "" {
				names = append(names, a.Name)
			}
		}
		writeField("author", strings.Join(names, " and "))
	}

	if paper.Year > 0 {
		fmt.Fprintf(&b, "  year = {%d},\n", paper.Year)
	}

	entryType := EntryType(paper)
	switch entryType {
	case "article":
		if paper.Journal != nil && paper.Journal.Name != "" {
			writeField("journal", paper.Journal.Name)
			writeField("volume", paper.Journal.Volume)
			writeField("pages", paper.Journal.Pages)
		} else {
			writeField("journal", paper.Venue)
		}
	case "inproceedings":
		writeField("booktitle", paper.Venue)
	default:
		writeField("howpublished", paper.Venue)
	}

	if cfg.IncludeDOI {
		if doi, ok := paper.ExternalIDs["DOI"].(string); ok {
			writeField("doi", doi)
		}
	}
	if cfg.IncludeURL {
		writeField("url", paper.URL)
	}
	if cfg.IncludeAbstract {
		writeField("abstract", paper.Abstract)
	}

	b.WriteString("}\n")
	return b.String()
}

// Export renders all papers as a BibTeX document. Colliding citation keys
// are disambiguated with alphabetic suffixes in input order: the second
// "vaswani2017" becomes "vaswani2017a", the third "vaswani2017b". Suffixed
// keys are themselves registered, so a generated suffix never collides with
// a later paper whose natural key already carries one.
func Export(papers []scholar.Paper, cfg Config) string {
	var b strings.Builder
	seen := make(map[string]int)

	for i, paper := range papers {
		base := CiteKey(paper)
		key := base
		n := seen[base]
		for n > 0 {
			key = fmt.Sprintf("%s%c", base, 'a'+rune(n-1))
			if seen[key] == 0 {
				break
			}
			n++
		}
		seen[base] = n + 1
		if key != base {
			seen[key]++
		}

		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatEntry(paper, key, cfg))
	}
	return b.String()
}
