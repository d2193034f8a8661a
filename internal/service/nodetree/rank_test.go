package nodetree

import (
	"testing"
	"time"

	"arbor/internal/domain/models"
)

func rankDoc(title string, updatedAt time.Time) models.Node {
	return models.Node{
		ID:        title,
		Type:      models.NodeTypeDoc,
		Title:     title,
		UpdatedAt: updatedAt,
	}
}

func TestRankByTitle(t *testing.T) {
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	docs := []models.Node{
		rankDoc("Budget 2024", base.Add(1*time.Hour)),
		rankDoc("Annual Budget", base.Add(9*time.Hour)), // newer, but only a substring match
		rankDoc("Q1 Notes", base.Add(5*time.Hour)),
	}

	got := rankByTitle(docs, "budget", 10)

	if len(got) != 2 {
		t.Fatalf("got %d results, want 2 (Q1 Notes excluded)", len(got))
	}
	if got[0].Title != "Budget 2024" {
		t.Errorf("first = %q, want prefix match ahead of substring match", got[0].Title)
	}
	if got[1].Title != "Annual Budget" {
		t.Errorf("second = %q, want Annual Budget", got[1].Title)
	}
}

func TestRankByTitleRecencyWithinGroup(t *testing.T) {
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	docs := []models.Node{
		rankDoc("Plan A", base.Add(1 * time.Hour)),
		rankDoc("Plan B", base.Add(3 * time.Hour)),
		rankDoc("Plan C", base.Add(2 * time.Hour)),
	}

	got := rankByTitle(docs, "plan", 10)
	want := []string{"Plan B", "Plan C", "Plan A"}
	for i, title := range want {
		if got[i].Title != title {
			t.Errorf("result %d = %q, want %q", i, got[i].Title, title)
		}
	}
}

func TestRankByTitleEmptyQueryReturnsRecent(t *testing.T) {
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	var docs []models.Node
	for i := 0; i < 15; i++ {
		docs = append(docs, rankDoc(string(rune('a'+i)), base.Add(time.Duration(i)*time.Hour)))
	}

	got := rankByTitle(docs, "", 10)
	if len(got) != 10 {
		t.Fatalf("got %d results, want the limit (10)", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].UpdatedAt.After(got[i-1].UpdatedAt) {
			t.Errorf("results not in recency order at %d", i)
		}
	}
}

func TestRankByTitleCaseInsensitive(t *testing.T) {
	docs := []models.Node{rankDoc("ROADMAP", time.Now())}
	if got := rankByTitle(docs, "roadmap", 10); len(got) != 1 {
		t.Errorf("case-insensitive match failed")
	}
	if got := rankByTitle(docs, "  ROADmap  ", 10); len(got) != 1 {
		t.Errorf("query not trimmed before matching")
	}
}

func TestRankByTitleNoMatches(t *testing.T) {
	docs := []models.Node{rankDoc("Alpha", time.Now())}
	got := rankByTitle(docs, "zebra", 10)
	if got == nil {
		t.Fatalf("want empty slice, got nil")
	}
	if len(got) != 0 {
		t.Errorf("got %d results, want 0", len(got))
	}
}
