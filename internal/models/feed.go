package models

// FeedFilter narrows a post collection. Empty fields mean no constraint; all set fields are AND-combined.
type FeedFilter struct {
	Style       string `form:"style" json:"style,omitempty"`
	Substyle    string `form:"substyle" json:"substyle,omitempty"`
	CountryName string `form:"country" json:"country,omitempty"`
	AuthorID    string `form:"-" json:"-"`
}

// EffectiveSubstyle is the substyle constraint actually applied: a substyle only narrows an active style filter.
func (f FeedFilter) EffectiveSubstyle() string {
	if f.Style == "" {
		return ""
	}
	return f.Substyle
}

// Match reports whether p satisfies every set constraint.
func (f FeedFilter) Match(p *Post) bool {
	if f.Style != "" && p.DeclaredStyle != f.Style {
		return false
	}
	if sub := f.EffectiveSubstyle(); sub != "" && p.Substyle != sub {
		return false
	}
	if f.CountryName != "" && p.CountryName != f.CountryName {
		return false
	}
	if f.AuthorID != "" && p.AuthorID != f.AuthorID {
		return false
	}
	return true
}

// Apply returns the posts matching f, keeping their order.
func (f FeedFilter) Apply(posts []Post) []Post {
	out := make([]Post, 0, len(posts))
	for i := range posts {
		if f.Match(&posts[i]) {
			out = append(out, posts[i])
		}
	}
	return out
}
