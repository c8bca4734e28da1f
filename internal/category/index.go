// Package category loads the expense taxonomy (main category → subcategories)
// from a markdown nested list and resolves free-text category suggestions
// against it. Resolution is total: unknown input degrades to the configured
// default label instead of failing, because category is advisory metadata
// rather than a structurally required field.
package category

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultLabel is the fallback returned when nothing in the taxonomy matches.
const DefaultLabel = "Other"

// UserCategoriesFile is the per-user taxonomy location under the home dir.
const UserCategoriesFile = ".bill2csv/expense_categories.md"

// WorkingDirFile is the taxonomy filename picked up from the current directory.
const WorkingDirFile = "expense_categories.md"

// Main is one main category with its ordered subcategories, in display case.
type Main struct {
	Name string
	Subs []string
}

type mainEntry struct {
	display string
	subs    []string          // display case, insertion order
	exact   map[string]string // lowercased sub → display
	relaxed map[string]string // relaxed sub key → display
}

// Index is the immutable two-level taxonomy. Safe for concurrent readers
// once built; construction happens once per batch (or is cached across
// batches by the caller).
type Index struct {
	defaultLabel string
	order        []string              // lowercased main keys, insertion order
	exact        map[string]*mainEntry // lowercased main → entry
	relaxed      map[string]*mainEntry // relaxed main key → entry
	subOwners    map[string][]string   // lowercased sub → lowercased main keys
}

var listItemRe = regexp.MustCompile(`^(\s*)[-*]\s+(.+)$`)

// Load parses a markdown-like nested list into an Index. Top-level list
// items anywhere in the document are main categories and their indented
// items are subcategories; headings and prose are ignored. Fails when the
// document contains no main categories at all.
func Load(r io.Reader, defaultLabel string) (*Index, error) {
	if defaultLabel == "" {
		defaultLabel = DefaultLabel
	}
	ix := &Index{
		defaultLabel: defaultLabel,
		exact:        make(map[string]*mainEntry),
		relaxed:      make(map[string]*mainEntry),
		subOwners:    make(map[string][]string),
	}

	var current *mainEntry
	var currentKey string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		m := listItemRe.FindStringSubmatch(strings.TrimRight(scanner.Text(), " \t"))
		if m == nil {
			current = nil
			continue
		}
		indent, name := m[1], strings.TrimSpace(m[2])
		if name == "" {
			continue
		}

		if indent == "" {
			key := strings.ToLower(name)
			entry, ok := ix.exact[key]
			if !ok {
				entry = &mainEntry{
					display: name,
					exact:   make(map[string]string),
					relaxed: make(map[string]string),
				}
				ix.exact[key] = entry
				ix.relaxed[relaxKey(name)] = entry
				ix.order = append(ix.order, key)
			}
			current, currentKey = entry, key
			continue
		}

		// Indented item: subcategory of the most recent main. Indented
		// items before any main category have no parent and are dropped.
		if current == nil {
			continue
		}
		subKey := strings.ToLower(name)
		if _, ok := current.exact[subKey]; ok {
			continue
		}
		current.subs = append(current.subs, name)
		current.exact[subKey] = name
		current.relaxed[relaxKey(name)] = name
		ix.subOwners[subKey] = append(ix.subOwners[subKey], currentKey)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("category.Load: scanning source: %w", err)
	}

	if len(ix.order) == 0 {
		return nil, fmt.Errorf("category.Load: no main categories found in source")
	}
	return ix, nil
}

// LoadFile loads the taxonomy from a file on disk.
func LoadFile(path, defaultLabel string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("category.LoadFile: %w", err)
	}
	defer f.Close()
	return Load(f, defaultLabel)
}

// LoadBuiltin builds the Index from the built-in default taxonomy.
func LoadBuiltin(defaultLabel string) (*Index, error) {
	return Load(strings.NewReader(builtinCategories), defaultLabel)
}

// Discover resolves the taxonomy source by precedence: the explicit path if
// given, then ./expense_categories.md, then ~/.bill2csv/expense_categories.md,
// then the built-in defaults. First found wins; sources are never merged.
// An explicit path that cannot be read is an error rather than a fallthrough.
func Discover(explicitPath, defaultLabel string) (*Index, error) {
	if explicitPath != "" {
		return LoadFile(explicitPath, defaultLabel)
	}

	candidates := []string{WorkingDirFile}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, UserCategoriesFile))
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path, defaultLabel)
		}
	}
	return LoadBuiltin(defaultLabel)
}

// DefaultLabel returns the configured fallback label.
func (ix *Index) Default() string {
	return ix.defaultLabel
}

// Tree returns the taxonomy in display case and insertion order, for
// rendering into prompts or docs.
func (ix *Index) Tree() []Main {
	out := make([]Main, 0, len(ix.order))
	for _, key := range ix.order {
		entry := ix.exact[key]
		out = append(out, Main{Name: entry.display, Subs: append([]string(nil), entry.subs...)})
	}
	return out
}

// Resolve maps a free-text category suggestion to a canonical label:
// "Main > Sub" when both levels match, "Main" when only the main category
// matches, and the default label otherwise. Matching is case-insensitive
// with a relaxed (punctuation/whitespace-insensitive) second pass; a
// suggestion that uniquely names a subcategory resolves to its full label.
// Never fails.
func (ix *Index) Resolve(raw string) string {
	mainTok, subTok := splitSuggestion(raw)
	if mainTok == "" {
		return ix.defaultLabel
	}

	entry := ix.lookupMain(mainTok)
	if entry != nil {
		if subTok == "" {
			return entry.display
		}
		if sub := lookupSub(entry, subTok); sub != "" {
			return entry.display + " > " + sub
		}
		return entry.display
	}

	// No main match: a suggestion that is itself a subcategory of exactly
	// one main category still resolves.
	if subTok == "" {
		if owners := ix.subOwners[strings.ToLower(mainTok)]; len(owners) == 1 {
			owner := ix.exact[owners[0]]
			return owner.display + " > " + owner.exact[strings.ToLower(mainTok)]
		}
	}

	return ix.defaultLabel
}

func (ix *Index) lookupMain(tok string) *mainEntry {
	if entry, ok := ix.exact[strings.ToLower(tok)]; ok {
		return entry
	}
	if entry, ok := ix.relaxed[relaxKey(tok)]; ok {
		return entry
	}
	return nil
}

func lookupSub(entry *mainEntry, tok string) string {
	if sub, ok := entry.exact[strings.ToLower(tok)]; ok {
		return sub
	}
	if sub, ok := entry.relaxed[relaxKey(tok)]; ok {
		return sub
	}
	return ""
}

func splitSuggestion(raw string) (mainTok, subTok string) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ""
	}
	if i := strings.Index(s, ">"); i >= 0 {
		return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
	}
	return s, ""
}

// relaxKey reduces a name to lowercase alphanumerics so that
// "food & dining", "Food&Dining" and "Food  Dining" compare equal.
func relaxKey(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
