// Package catalog holds the tracks, drivers and seasons offered to users.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/mpapenbr/pitstop-service-go/pkg/model"
)

//go:embed catalog.yml
var defaultCatalog []byte

var ErrEmptyCatalog = errors.New("catalog contains no tracks")

type (
	Data struct {
		Years   []int             `json:"years" yaml:"years"`
		Drivers []string          `json:"drivers" yaml:"drivers"`
		Tracks  []model.TrackInfo `json:"tracks" yaml:"tracks"`
	}
	// Catalog is safe for concurrent use. The content may be replaced at
	// runtime (see Watch).
	Catalog struct {
		mu   sync.RWMutex
		data Data
	}
)

// Default returns the catalog embedded into the binary
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// Load reads a catalog from a yaml file
func Load(file string) (*Catalog, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	d, err := parseData(data)
	if err != nil {
		return nil, err
	}
	return &Catalog{data: *d}, nil
}

func parseData(data []byte) (*Data, error) {
	var d Data
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("could not parse catalog: %w", err)
	}
	if len(d.Tracks) == 0 {
		return nil, ErrEmptyCatalog
	}
	for i, t := range d.Tracks {
		if t.Name == "" {
			return nil, fmt.Errorf("track #%d has no name", i)
		}
	}
	return &d, nil
}

// Data returns a copy of the current content
func (c *Catalog) Data() Data {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Data{
		Years:   slices.Clone(c.data.Years),
		Drivers: slices.Clone(c.data.Drivers),
		Tracks:  slices.Clone(c.data.Tracks),
	}
}

func (c *Catalog) replace(d *Data) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = *d
}

func (c *Catalog) ValidYear(year int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Contains(c.data.Years, year)
}

func (c *Catalog) ValidDriver(code string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Contains(c.data.Drivers, code)
}

func (c *Catalog) ValidTrack(name string) bool {
	_, ok := c.Track(name)
	return ok
}

// Track looks up a track by name or circuit short name (case insensitive)
func (c *Catalog) Track(name string) (model.TrackInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	idx := slices.IndexFunc(c.data.Tracks, func(t model.TrackInfo) bool {
		return strings.EqualFold(t.Name, name) || strings.EqualFold(t.CircuitShort, name)
	})
	if idx < 0 {
		return model.TrackInfo{}, false
	}
	return c.data.Tracks[idx], true
}

// CircuitShortName resolves a track name to the circuit short name used by
// the providers. Unknown names are returned unchanged.
func (c *Catalog) CircuitShortName(name string) string {
	if t, ok := c.Track(name); ok && t.CircuitShort != "" {
		return t.CircuitShort
	}
	return name
}
