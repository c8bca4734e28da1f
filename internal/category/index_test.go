package category

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testTaxonomy = `# Expense Categories

Some explanatory prose the loader must ignore.

## Personal Expenses
- Food & Dining
  - Restaurants
  - Groceries
- Transportation
  - Public Transit
  - Fuel

## Home & Utilities
- Housing
  - Rent
- Entertainment
`

func mustLoad(t *testing.T, src, defaultLabel string) *Index {
	t.Helper()
	ix, err := Load(strings.NewReader(src), defaultLabel)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return ix
}

func TestLoadFlattensAcrossHeadings(t *testing.T) {
	ix := mustLoad(t, testTaxonomy, "")

	tree := ix.Tree()
	if len(tree) != 4 {
		t.Fatalf("got %d main categories, want 4", len(tree))
	}
	if tree[0].Name != "Food & Dining" || tree[3].Name != "Entertainment" {
		t.Errorf("unexpected order: %v", tree)
	}
	if len(tree[0].Subs) != 2 || tree[0].Subs[0] != "Restaurants" {
		t.Errorf("unexpected subs for %s: %v", tree[0].Name, tree[0].Subs)
	}
	if len(tree[3].Subs) != 0 {
		t.Errorf("Entertainment should have no subs, got %v", tree[3].Subs)
	}
}

func TestLoadRejectsEmptySource(t *testing.T) {
	if _, err := Load(strings.NewReader("# Heading only\n\nprose\n"), ""); err == nil {
		t.Fatal("expected error for source with no main categories")
	}
}

func TestResolve(t *testing.T) {
	ix := mustLoad(t, testTaxonomy, "Other")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"main and sub", "Food & Dining > Groceries", "Food & Dining > Groceries"},
		{"case-insensitive", "food & dining > groceries", "Food & Dining > Groceries"},
		{"extra whitespace", "  Transportation  >  Fuel ", "Transportation > Fuel"},
		{"main only", "Housing", "Housing"},
		{"main with unknown sub degrades to main", "Housing > Gardening", "Housing"},
		{"relaxed punctuation", "food&dining", "Food & Dining"},
		{"relaxed sub", "transportation > publictransit", "Transportation > Public Transit"},
		{"unique sub only", "Rent", "Housing > Rent"},
		{"unknown input", "Mystery Vendor", "Other"},
		{"empty input", "", "Other"},
		{"whitespace input", "   ", "Other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ix.Resolve(tt.in); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolveIsTotal(t *testing.T) {
	ix := mustLoad(t, testTaxonomy, "Other")
	for _, in := range []string{"", ">", "> >", "!!!", "Food & Dining >"} {
		if got := ix.Resolve(in); got == "" {
			t.Errorf("Resolve(%q) returned empty label", in)
		}
	}
}

func TestLoadBuiltin(t *testing.T) {
	ix, err := LoadBuiltin("")
	if err != nil {
		t.Fatalf("LoadBuiltin failed: %v", err)
	}
	if got := ix.Resolve("food & dining > groceries"); got != "Food & Dining > Groceries" {
		t.Errorf("builtin lookup = %q", got)
	}
	if got := ix.Default(); got != DefaultLabel {
		t.Errorf("Default() = %q, want %q", got, DefaultLabel)
	}
}

func TestDiscoverExplicitPathWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cats.md")
	if err := os.WriteFile(path, []byte("- Solo\n  - Act\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ix, err := Discover(path, "Other")
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if got := ix.Resolve("solo > act"); got != "Solo > Act" {
		t.Errorf("Resolve = %q, want %q", got, "Solo > Act")
	}
}

func TestDiscoverExplicitPathMissingIsError(t *testing.T) {
	if _, err := Discover(filepath.Join(t.TempDir(), "absent.md"), ""); err == nil {
		t.Fatal("expected error for missing explicit categories file")
	}
}
