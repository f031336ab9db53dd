// Package catalog holds the static reference tables (frames, ellipsoids,
// geoid models, geoid conversions, datum grids and projection zones) and
// resolves free-form user tokens against them.
//
// Catalogs are loaded once from embedded YAML and are read-only afterwards,
// so they can be shared without locking.
package catalog

import (
	"fmt"
	"strings"

	"github.com/go-go-golems/geodetic-tools/pkg/geoerr"
)

// Entry is one valid code of a catalog
type Entry struct {
	Code        string            `yaml:"code"`
	DisplayName string            `yaml:"name,omitempty"`
	Attributes  map[string]string `yaml:"attributes,omitempty"`
}

// Attr returns the named attribute, or "" when it is not set
func (e Entry) Attr(key string) string {
	if e.Attributes == nil {
		return ""
	}
	return e.Attributes[key]
}

// Name returns the display name, falling back to the code
func (e Entry) Name() string {
	if e.DisplayName != "" {
		return e.DisplayName
	}
	return e.Code
}

// Alias maps every token starting with Prefix to the entry Code
type Alias struct {
	Prefix string `yaml:"prefix"`
	Code   string `yaml:"code"`
}

// Catalog is an ordered, case-insensitively indexed set of entries
type Catalog struct {
	name    string
	title   string
	entries []Entry
	aliases []Alias
	index   map[string]int
}

// New builds a catalog, rejecting duplicate codes and aliases that point nowhere.
func New(name, title string, entries []Entry, aliases []Alias) (*Catalog, error) {
	c := &Catalog{
		name:    name,
		title:   title,
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if strings.TrimSpace(e.Code) == "" {
			return nil, fmt.Errorf("catalog %s: entry with empty code", name)
		}
		key := strings.ToLower(e.Code)
		if _, ok := c.index[key]; ok {
			return nil, fmt.Errorf("catalog %s: duplicate code %q", name, e.Code)
		}
		c.index[key] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	for _, a := range aliases {
		if a.Prefix == "" {
			return nil, fmt.Errorf("catalog %s: alias with empty prefix", name)
		}
		if _, ok := c.index[strings.ToLower(a.Code)]; !ok {
			return nil, fmt.Errorf("catalog %s: alias %s points to unknown code %q", name, a.Prefix, a.Code)
		}
		c.aliases = append(c.aliases, a)
	}
	return c, nil
}

// Name is the key the catalog is looked up by, e.g. frames
func (c *Catalog) Name() string { return c.name }

// Title is the human readable heading used when the catalog is listed
func (c *Catalog) Title() string { return c.title }

// Len is the number of entries, aliases not counted
func (c *Catalog) Len() int { return len(c.entries) }

// Entries returns a copy of the entries in catalog order
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Codes returns every code in catalog order
func (c *Catalog) Codes() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Code
	}
	return out
}

// Lookup is an exact case-insensitive match without alias handling
func (c *Catalog) Lookup(code string) (Entry, bool) {
	i, ok := c.index[strings.ToLower(code)]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Canonicalize applies the alias rules to token and returns the resulting code.
func (c *Catalog) Canonicalize(token string) string {
	lower := strings.ToLower(token)
	for _, a := range c.aliases {
		if strings.HasPrefix(lower, strings.ToLower(a.Prefix)) {
			return a.Code
		}
	}
	return token
}

// Validate resolves token to its canonical entry. Unknown tokens yield a
// ValidationError listing every code of the catalog.
func (c *Catalog) Validate(token string) (Entry, error) {
	if e, ok := c.Lookup(c.Canonicalize(token)); ok {
		return e, nil
	}
	err := geoerr.NewValidationError(geoerr.UnknownToken, c.name, token,
		"%q does not match any %s on record", token, c.singular())
	err.Alternatives = c.Codes()
	return Entry{}, err
}

func (c *Catalog) singular() string {
	return strings.ToLower(strings.TrimSuffix(c.title, "s"))
}
