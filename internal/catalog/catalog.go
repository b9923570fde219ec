// Package catalog holds the plan catalog. It is loaded once at startup and is read-only afterwards.
package catalog

import (
	"fmt"
	"sort"

	"github.com/rookgm/chinpay/internal/models"
	"github.com/spf13/viper"
)

// Catalog is immutable mapping of plan id to plan
type Catalog struct {
	plans map[int]models.Plan
	order []int
}

type planFile struct {
	Plans []models.Plan `mapstructure:"plans"`
}

// Load reads plans from config file, format is detected by file extension (toml, yaml, json)
func Load(path string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read plans %s: %w", path, err)
	}

	var f planFile
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("parse plans %s: %w", path, err)
	}

	return New(f.Plans)
}

// New creates catalog from plans
func New(plans []models.Plan) (*Catalog, error) {
	if len(plans) == 0 {
		return nil, fmt.Errorf("catalog has no plans")
	}

	c := &Catalog{
		plans: make(map[int]models.Plan, len(plans)),
		order: make([]int, 0, len(plans)),
	}
	for _, p := range plans {
		if _, ok := c.plans[p.ID]; ok {
			return nil, fmt.Errorf("duplicate plan id %d", p.ID)
		}
		if p.Price <= 0 {
			return nil, fmt.Errorf("plan %d: price must be positive", p.ID)
		}
		c.plans[p.ID] = p
		c.order = append(c.order, p.ID)
	}
	sort.Ints(c.order)

	return c, nil
}

// ByID returns plan by id
func (c *Catalog) ByID(id int) (models.Plan, bool) {
	p, ok := c.plans[id]
	return p, ok
}

// All returns all plans ordered by id
func (c *Catalog) All() []models.Plan {
	out := make([]models.Plan, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.plans[id])
	}
	return out
}
