// internal/catalog/catalog.go
//
// Category catalog for the game.
//
// Responsibilities:
//   - Load the category → letter-pool mapping once at startup.
//   - Decode raw keys into display names (plain or "A$B" compound).
//   - Expose a read-only, ordered view of the entries.
//
// Sources (see Load / FromEnv):
//   - .yaml / .yml   mapping of name → letters, document order kept
//   - .json          object of name → letters, document order kept
//   - .plist         dictionary of name → letters (keys sorted)
//   - embedded default (assets/categories.yaml) when nothing is configured
//
// Any problem with the source is reported as *LoadError. A catalog that
// fails to load is fatal for the caller: there is nothing to play.

package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ongw/whatword/assets"
)

// Delimiter joins the two halves of a compound category key.
const Delimiter = "$"

// Format identifies the encoding of a catalog source.
type Format string

const (
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
	FormatPlist Format = "plist"
)

// Category is one catalog entry. A simple category has one name, a
// compound category has two names sharing the same letter pool.
type Category struct {
	Key     string   // raw key as written in the source, e.g. "Fruit$Vegetable"
	Names   []string // decoded names, 1 or 2 entries
	Letters string   // candidate letters, upper-cased, never empty
}

// IsCompound reports whether the category is displayed on two lines.
func (c Category) IsCompound() bool { return len(c.Names) == 2 }

// Lines returns the upper-cased display strings of the category.
func (c Category) Lines() []string {
	out := make([]string, len(c.Names))
	for i, n := range c.Names {
		out[i] = upper(n)
	}
	return out
}

// Label is Lines joined with a single space; handy for logs and lists.
func (c Category) Label() string { return strings.Join(c.Lines(), " ") }

// SameDisplay reports whether two categories render identically.
// Raw keys are not compared: "Fruit$Vegetable" and "fruit$vegetable"
// display the same.
func (c Category) SameDisplay(o Category) bool {
	a, b := c.Lines(), o.Lines()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Catalog is the immutable, ordered set of categories.
type Catalog struct {
	entries []Category
	index   map[string]int
}

// Entries returns a copy of the categories in source order.
func (c *Catalog) Entries() []Category {
	out := make([]Category, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of categories.
func (c *Catalog) Len() int { return len(c.entries) }

// At returns the i-th category in source order.
func (c *Catalog) At(i int) Category { return c.entries[i] }

// Lookup finds a category by its raw key.
func (c *Catalog) Lookup(key string) (Category, bool) {
	i, ok := c.index[key]
	if !ok {
		return Category{}, false
	}
	return c.entries[i], true
}

// pair is one raw key/value read from a source, before validation.
type pair struct {
	key, letters string
}

// Load reads a catalog file, picking the decoder from the file extension.
func Load(path string) (*Catalog, error) {
	format, err := formatFromPath(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	cat, err := parse(data, format)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	return cat, nil
}

// Parse decodes catalog data in the given format.
func Parse(data []byte, format Format) (*Catalog, error) {
	cat, err := parse(data, format)
	if err != nil {
		return nil, &LoadError{Source: string(format), Err: err}
	}
	return cat, nil
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	data, err := assets.Categories()
	if err != nil {
		return nil, &LoadError{Source: "embedded", Err: err}
	}
	cat, err := parse(data, FormatYAML)
	if err != nil {
		return nil, &LoadError{Source: "embedded", Err: err}
	}
	return cat, nil
}

// FromEnv loads path when it is set, otherwise the embedded default.
func FromEnv(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	return Load(path)
}

func parse(data []byte, format Format) (*Catalog, error) {
	var (
		pairs []pair
		err   error
	)
	switch format {
	case FormatYAML:
		pairs, err = decodeYAML(data)
	case FormatJSON:
		pairs, err = decodeJSON(data)
	case FormatPlist:
		pairs, err = decodePlist(data)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return build(pairs)
}

// build validates raw pairs and freezes them into a Catalog.
func build(pairs []pair) (*Catalog, error) {
	if len(pairs) == 0 {
		return nil, ErrEmpty
	}
	cat := &Catalog{
		entries: make([]Category, 0, len(pairs)),
		index:   make(map[string]int, len(pairs)),
	}
	for _, p := range pairs {
		if _, dup := cat.index[p.key]; dup {
			return nil, fmt.Errorf("duplicate category %q", p.key)
		}
		names, err := decodeKey(p.key)
		if err != nil {
			return nil, err
		}
		letters := normalizeLetters(p.letters)
		if letters == "" {
			return nil, fmt.Errorf("category %q: empty letter pool", p.key)
		}
		cat.index[p.key] = len(cat.entries)
		cat.entries = append(cat.entries, Category{Key: p.key, Names: names, Letters: letters})
	}
	return cat, nil
}

// decodeKey splits a raw key into one or two trimmed names.
func decodeKey(key string) ([]string, error) {
	parts := strings.Split(key, Delimiter)
	if len(parts) > 2 {
		return nil, fmt.Errorf("category %q: more than one %q", key, Delimiter)
	}
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
		if parts[i] == "" {
			return nil, fmt.Errorf("category %q: empty name", key)
		}
	}
	return parts, nil
}

// normalizeLetters drops whitespace and upper-cases the pool.
func normalizeLetters(s string) string {
	var b strings.Builder
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		if r == utf8.RuneError || strings.ContainsRune(" \t\r\n,", r) {
			continue
		}
		b.WriteRune(r)
	}
	return upper(b.String())
}

func formatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".plist":
		return FormatPlist, nil
	}
	return "", fmt.Errorf("unsupported catalog extension %q", filepath.Ext(path))
}

// upper builds a fresh Caser per call; Casers are stateful and must not
// be shared between goroutines.
func upper(s string) string { return cases.Upper(language.Und).String(s) }
