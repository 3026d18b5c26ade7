package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"fashigram/internal/models"
	"fashigram/internal/store"
	"fashigram/internal/utils"
)

const (
	catalogueCacheKey = "styles:catalogue"
	catalogueTTL      = 10 * time.Minute
)

// StyleService serves the style catalogue. Only the catalogue is cached, never votes or rankings.
type StyleService struct {
	styles store.StyleStore
	cache  *utils.TTLCache[[]models.StyleGroup]
}

func NewStyleService(styles store.StyleStore) (*StyleService, error) {
	cache, err := utils.NewTTLCache[[]models.StyleGroup](8, catalogueTTL)
	if err != nil {
		return nil, err
	}
	return &StyleService{styles: styles, cache: cache}, nil
}

// Catalogue returns parent styles sorted by name, each with its sorted substyles.
func (s *StyleService) Catalogue(ctx context.Context) ([]models.StyleGroup, error) {
	if groups, ok := s.cache.Get(catalogueCacheKey); ok {
		return groups, nil
	}

	rows, err := s.styles.ListStyles(ctx)
	if err != nil {
		return nil, err
	}
	groups := groupStyles(rows)
	s.cache.Set(catalogueCacheKey, groups)
	return groups, nil
}

func groupStyles(rows []models.Style) []models.StyleGroup {
	subs := make(map[string][]string)
	var parents []string
	for _, r := range rows {
		if r.Parent == "" {
			parents = append(parents, r.Name)
			continue
		}
		subs[r.Parent] = append(subs[r.Parent], r.Name)
	}
	sort.Strings(parents)

	groups := make([]models.StyleGroup, 0, len(parents))
	for _, p := range parents {
		children := subs[p]
		sort.Strings(children)
		if children == nil {
			children = []string{}
		}
		groups = append(groups, models.StyleGroup{Name: p, Substyles: children})
	}
	return groups
}

// Resolve maps name onto the catalogue's spelling, ignoring case. Unknown styles come back
// normalized with known=false; styles are free text.
func (s *StyleService) Resolve(ctx context.Context, name string) (resolved string, known bool, err error) {
	name = utils.NormalizeStyle(name)
	groups, err := s.Catalogue(ctx)
	if err != nil {
		return "", false, err
	}
	for _, g := range groups {
		if strings.EqualFold(g.Name, name) {
			return g.Name, true, nil
		}
	}
	return name, false, nil
}

// CheckSubstyle rejects a substyle that the catalogue does not list under a known parent.
// Parents the catalogue does not know accept any substyle.
func (s *StyleService) CheckSubstyle(ctx context.Context, style, substyle string) (string, error) {
	if substyle == "" {
		return "", nil
	}
	groups, err := s.Catalogue(ctx)
	if err != nil {
		return "", err
	}
	for _, g := range groups {
		if g.Name != style || len(g.Substyles) == 0 {
			continue
		}
		for _, sub := range g.Substyles {
			if strings.EqualFold(sub, substyle) {
				return sub, nil
			}
		}
		return "", invalid("substyle", "does not belong to "+style)
	}
	return substyle, nil
}
