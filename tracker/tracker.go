// Package tracker accumulates papers seen during a session so they can be
// exported together.
package tracker

import (
	"sort"
	"sync"
	"time"

	"github.com/ambiyansyah-risyal/scholargo/scholar"
)

// TrackedPaper is a paper with provenance: which tool surfaced it and when.
type TrackedPaper struct {
	Paper      scholar.Paper
	SourceTool string
	TrackedAt  time.Time
}

// Tracker records papers by ID. Re-tracking an already seen paper updates
// its metadata but keeps the original timestamp and source. Safe for
// concurrent use.
type Tracker struct {
	mu     sync.Mutex
	papers map[string]*TrackedPaper
}

// New creates an empty tracker.
func New() *Tracker {
	return &Tracker{papers: make(map[string]*TrackedPaper)}
}

// Track records one paper. Papers without an ID are ignored.
func (t *Tracker) Track(paper scholar.Paper, sourceTool string) {
	if paper.PaperID == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.papers[paper.PaperID]; ok {
		existing.Paper = paper
		return
	}
	t.papers[paper.PaperID] = &TrackedPaper{
		Paper:      paper,
		SourceTool: sourceTool,
		TrackedAt:  time.Now(),
	}
}

// TrackAll records every paper in the slice.
func (t *Tracker) TrackAll(papers []scholar.Paper, sourceTool string) {
	for _, p := range papers {
		t.Track(p, sourceTool)
	}
}

// Papers returns all tracked papers ordered by when they were first seen.
func (t *Tracker) Papers() []TrackedPaper {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]TrackedPaper, 0, len(t.papers))
	for _, tp := range t.papers {
		out = append(out, *tp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TrackedAt.Equal(out[j].TrackedAt) {
			return out[i].Paper.PaperID < out[j].Paper.PaperID
		}
		return out[i].TrackedAt.Before(out[j].TrackedAt)
	})
	return out
}

// PapersFrom returns papers surfaced by a specific tool, ordered by when
// they were first seen.
func (t *Tracker) PapersFrom(sourceTool string) []TrackedPaper {
	all := t.Papers()
	out := all[:0:0]
	for _, tp := range all {
		if tp.SourceTool == sourceTool {
			out = append(out, tp)
		}
	}
	return out
}

// Clear removes all tracked papers and returns how many were dropped.
func (t *Tracker) Clear() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := len(t.papers)
	t.papers = make(map[string]*TrackedPaper)
	return n
}

// Len returns the number of tracked papers.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.papers)
}
