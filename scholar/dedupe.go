package scholar

import (
	"context"
	"fmt"
	"strings"
)

// Author consolidation match types, ordered by confidence.
const (
	MatchORCID         = "orcid"
	MatchDBLP          = "dblp"
	MatchUserConfirmed = "user_confirmed"
)

// AuthorGroup clusters author records believed to be the same person. The
// primary record is the one with the highest citation count.
type AuthorGroup struct {
	Primary      Author   `json:"primary"`
	Candidates   []Author `json:"candidates"`
	MatchReasons []string `json:"matchReasons"`
}

// AuthorConsolidation is a merged view over duplicate author records. It is
// a local view only; the upstream records are never modified.
type AuthorConsolidation struct {
	Merged     Author   `json:"merged"`
	Sources    []Author `json:"sources"`
	MatchType  string   `json:"matchType"`
	Confidence float64  `json:"confidence,omitempty"`
	Preview    bool     `json:"preview"`
}

// FindDuplicateAuthors searches for each name and groups the results by
// shared external identifiers. A failing search for one name does not abort
// the others; an error is returned only when no author could be retrieved
// at all.
func (a *API) FindDuplicateAuthors(ctx context.Context, names []string, byORCID, byDBLP bool) ([]AuthorGroup, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("scholar: at least one author name is required")
	}

	var authors []Author
	for _, name := range names {
		result, err := a.SearchAuthors(ctx, name, 20, 0)
		if err != nil {
			continue
		}
		authors = append(authors, result.Data...)
	}
	if len(authors) == 0 {
		return nil, fmt.Errorf("scholar: no authors found for: %s", strings.Join(names, ", "))
	}

	return GroupDuplicateAuthors(authors, byORCID, byDBLP), nil
}

// GroupDuplicateAuthors partitions author records into duplicate groups by
// shared ORCID and DBLP identifiers. Records already claimed by an ORCID
// group are not regrouped by DBLP. Groups of one are not reported.
func GroupDuplicateAuthors(authors []Author, byORCID, byDBLP bool) []AuthorGroup {
	seen := make(map[string]bool)
	orcidGroups := make(map[string][]Author)
	dblpGroups := make(map[string][]Author)
	var orcids, dblps []string

	for _, author := range authors {
		if author.AuthorID != "" {
			if seen[author.AuthorID] {
				continue
			}
			seen[author.AuthorID] = true
		}
		if author.ExternalIDs == nil {
			continue
		}
		if byORCID && author.ExternalIDs.ORCID != "" {
			id := author.ExternalIDs.ORCID
			if _, ok := orcidGroups[id]; !ok {
				orcids = append(orcids, id)
			}
			orcidGroups[id] = append(orcidGroups[id], author)
		}
		if byDBLP && author.ExternalIDs.DBLP != "" {
			id := author.ExternalIDs.DBLP
			if _, ok := dblpGroups[id]; !ok {
				dblps = append(dblps, id)
			}
			dblpGroups[id] = append(dblpGroups[id], author)
		}
	}

	var groups []AuthorGroup
	claimed := make(map[string]bool)

	appendGroup := func(members []Author, reason string) {
		SortByCitations(members)
		for _, m := range members {
			claimed[m.AuthorID] = true
		}
		groups = append(groups, AuthorGroup{
			Primary:      members[0],
			Candidates:   members[1:],
			MatchReasons: []string{reason},
		})
	}

	for _, id := range orcids {
		if members := orcidGroups[id]; len(members) > 1 {
			appendGroup(members, "same_orcid:"+id)
		}
	}
	for _, id := range dblps {
		var remaining []Author
		for _, m := range dblpGroups[id] {
			if m.AuthorID != "" && !claimed[m.AuthorID] {
				remaining = append(remaining, m)
			}
		}
		if len(remaining) > 1 {
			appendGroup(remaining, "same_dblp:"+id)
		}
	}

	return groups
}

// ConsolidateAuthors fetches the given author records and returns a merged
// view. With confirm false the result is marked as a preview.
func (a *API) ConsolidateAuthors(ctx context.Context, authorIDs []string, confirm bool) (*AuthorConsolidation, error) {
	if len(authorIDs) < 2 {
		return nil, fmt.Errorf("scholar: consolidation requires at least two author IDs")
	}

	authors := make([]Author, 0, len(authorIDs))
	for _, id := range authorIDs {
		author, err := a.GetAuthor(ctx, id)
		if err != nil {
			return nil, err
		}
		authors = append(authors, *author)
	}

	result := MergeAuthors(authors)
	result.Preview = !confirm
	return &result, nil
}

// MergeAuthors folds duplicate author records into one. The most cited
// record becomes the identity; affiliations and aliases are unioned, paper
// and citation counts summed, and the h-index taken as the maximum. The
// match type reflects whether the records share an external identifier.
func MergeAuthors(authors []Author) AuthorConsolidation {
	matchType := MatchUserConfirmed
	var confidence float64
	if allShare(authors, func(ids *AuthorExternalIDs) string { return ids.ORCID }) {
		matchType = MatchORCID
		confidence = 1.0
	} else if allShare(authors, func(ids *AuthorExternalIDs) string { return ids.DBLP }) {
		matchType = MatchDBLP
		confidence = 0.95
	}

	ranked := TopCited(authors, 0)
	primary := ranked[0]

	var affiliations, aliases []string
	for _, author := range authors {
		affiliations = appendUnique(affiliations, author.Affiliations...)
		aliases = appendUnique(aliases, author.Aliases...)
		if author.Name != "" {
			aliases = appendUnique(aliases, author.Name)
		}
	}
	aliases = remove(aliases, primary.Name)

	var papers, citations, hIndex int
	for _, author := range authors {
		papers += author.PaperCount
		citations += author.CitationCount
		if author.HIndex > hIndex {
			hIndex = author.HIndex
		}
	}

	externalIDs := primary.ExternalIDs
	if externalIDs == nil {
		for _, author := range authors {
			if author.ExternalIDs != nil {
				externalIDs = author.ExternalIDs
				break
			}
		}
	}

	return AuthorConsolidation{
		Merged: Author{
			AuthorID:      primary.AuthorID,
			Name:          primary.Name,
			Aliases:       aliases,
			Affiliations:  affiliations,
			Homepage:      primary.Homepage,
			PaperCount:    papers,
			CitationCount: citations,
			HIndex:        hIndex,
			ExternalIDs:   externalIDs,
			URL:           primary.URL,
		},
		Sources:    authors,
		MatchType:  matchType,
		Confidence: confidence,
	}
}

// allShare reports whether at least two records carry the selected external
// identifier and every carried value is identical.
func allShare(authors []Author, pick func(*AuthorExternalIDs) string) bool {
	var value string
	count := 0
	for _, author := range authors {
		if author.ExternalIDs == nil {
			continue
		}
		id := pick(author.ExternalIDs)
		if id == "" {
			continue
		}
		if count == 0 {
			value = id
		} else if id != value {
			return false
		}
		count++
	}
	return count >= 2
}

func appendUnique(list []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, existing := range list {
			if existing == v {
				found = true
				break
			}
		}
		if !found {
			list = append(list, v)
		}
	}
	return list
}

func remove(list []string, value string) []string {
	out := list[:0]
	for _, v := range list {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}
