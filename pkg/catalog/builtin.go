package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Names of the built-in catalogs
const (
	Frames      = "frames"
	Ellipsoids  = "ellipsoids"
	Geoids      = "geoids"
	Conversions = "conversions"
	Grids       = "grids"
	Zones       = "zones"
)

// Attribute keys used by the built-in catalogs
const (
	AttrVerticalDatum   = "vertical_datum"
	AttrForcedEpoch     = "forced_epoch"
	AttrCoverage        = "coverage"
	AttrFrom            = "from"
	AttrTo              = "to"
	AttrDefaultDestZone = "default_dest_zone"
)

type catalogFile struct {
	Name    string  `yaml:"name"`
	Title   string  `yaml:"title"`
	Aliases []Alias `yaml:"aliases"`
	Entries []Entry `yaml:"entries"`
}

// Set groups the catalogs the tools validate against
type Set struct {
	Frames      *Catalog
	Ellipsoids  *Catalog
	Geoids      *Catalog
	Conversions *Catalog
	Grids       *Catalog
	Zones       *Catalog
}

// ByName returns the catalog with the given name
func (s *Set) ByName(name string) (*Catalog, bool) {
	switch name {
	case Frames:
		return s.Frames, true
	case Ellipsoids:
		return s.Ellipsoids, true
	case Geoids:
		return s.Geoids, true
	case Conversions:
		return s.Conversions, true
	case Grids:
		return s.Grids, true
	case Zones:
		return s.Zones, true
	}
	return nil, false
}

// Names lists the built-in catalog names in display order
func Names() []string {
	return []string{Frames, Ellipsoids, Geoids, Conversions, Grids, Zones}
}

// Load reads every *.yaml file under dir in fsys and assembles a Set.
func Load(fsys fs.FS, dir string) (*Set, error) {
	files, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog files: %w", err)
	}
	loaded := map[string]*Catalog{}
	for _, f := range files {
		b, err := fs.ReadFile(fsys, f)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog %s: %w", f, err)
		}
		var cf catalogFile
		if err := yaml.Unmarshal(b, &cf); err != nil {
			return nil, fmt.Errorf("failed to parse catalog %s: %w", f, err)
		}
		c, err := New(cf.Name, cf.Title, cf.Entries, cf.Aliases)
		if err != nil {
			return nil, err
		}
		if _, dup := loaded[cf.Name]; dup {
			return nil, fmt.Errorf("catalog %s defined twice", cf.Name)
		}
		loaded[cf.Name] = c
	}
	set := &Set{
		Frames:      loaded[Frames],
		Ellipsoids:  loaded[Ellipsoids],
		Geoids:      loaded[Geoids],
		Conversions: loaded[Conversions],
		Grids:       loaded[Grids],
		Zones:       loaded[Zones],
	}
	for _, n := range Names() {
		if loaded[n] == nil {
			return nil, fmt.Errorf("catalog %s is missing", n)
		}
	}
	return set, nil
}

var builtin = sync.OnceValue(func() *Set {
	s, err := Load(dataFS, "data")
	if err != nil {
		panic(fmt.Sprintf("embedded catalogs are invalid: %v", err))
	}
	return s
})

// Builtin returns the process-wide catalogs embedded in the binary
func Builtin() *Set {
	return builtin()
}
