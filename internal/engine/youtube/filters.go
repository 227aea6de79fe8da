package youtube

import (
	"encoding/json"
	"errors"
	"fmt"

	om "github.com/wk8/go-ordered-map/v2"
)

const unknownCategory = "Unknown Category"

// Filter is one option of a filter group. URL is nil for the option that is
// currently applied, which is also the only one with Active set.
type Filter struct {
	Name        string  `json:"name"`
	URL         *string `json:"url"`
	Active      bool    `json:"active"`
	Description string  `json:"description"`
}

// FilterGroup holds the options of one category in document order. Active
// points at the applied member of Filters, or is nil.
type FilterGroup struct {
	Title   string
	Filters *om.OrderedMap[string, *Filter]
	Active  *Filter
}

func (g *FilterGroup) MarshalJSON() ([]byte, error) {
	list := make([]*Filter, 0, g.Filters.Len())
	for p := g.Filters.Oldest(); p != nil; p = p.Next() {
		list = append(list, p.Value)
	}
	return json.Marshal(struct {
		Title   string    `json:"title"`
		Active  *Filter   `json:"active"`
		Filters []*Filter `json:"filters"`
	}{g.Title, g.Active, list})
}

// FilterGroups maps a category title to its group, keeping payload order.
type FilterGroups struct {
	groups *om.OrderedMap[string, *FilterGroup]
}

func newFilterGroups() *FilterGroups {
	return &FilterGroups{groups: om.New[string, *FilterGroup]()}
}

func (fg *FilterGroups) Len() int { return fg.groups.Len() }

// Get returns the group titled title.
func (fg *FilterGroups) Get(title string) (*FilterGroup, bool) {
	return fg.groups.Get(title)
}

// Groups returns every group in payload order.
func (fg *FilterGroups) Groups() []*FilterGroup {
	out := make([]*FilterGroup, 0, fg.groups.Len())
	for p := fg.groups.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Value)
	}
	return out
}

// ActiveFilters returns the applied filter of each group that has one.
func (fg *FilterGroups) ActiveFilters() []*Filter {
	var out []*Filter
	for p := fg.groups.Oldest(); p != nil; p = p.Next() {
		if p.Value.Active != nil {
			out = append(out, p.Value.Active)
		}
	}
	return out
}

func (fg *FilterGroups) MarshalJSON() ([]byte, error) {
	return json.Marshal(fg.Groups())
}

type searchFilterRenderer struct {
	Label              *Text               `json:"label"`
	NavigationEndpoint *navigationEndpoint `json:"navigationEndpoint"`
	Tooltip            string              `json:"tooltip"`
}

type searchSubMenu struct {
	SearchSubMenuRenderer *struct {
		Groups []struct {
			SearchFilterGroupRenderer *struct {
				Title   *Text `json:"title"`
				Filters []struct {
					SearchFilterRenderer *searchFilterRenderer `json:"searchFilterRenderer"`
				} `json:"filters"`
			} `json:"searchFilterGroupRenderer"`
		} `json:"groups"`
	} `json:"searchSubMenuRenderer"`
}

type subMenuHolder struct {
	SubMenu *searchSubMenu `json:"subMenu"`
	Submenu *searchSubMenu `json:"submenu"`
}

type filterPayload struct {
	Contents struct {
		TwoColumnSearchResultsRenderer struct {
			PrimaryContents struct {
				SectionListRenderer *subMenuHolder `json:"sectionListRenderer"`
				RichGridRenderer    *subMenuHolder `json:"richGridRenderer"`
			} `json:"primaryContents"`
		} `json:"twoColumnSearchResultsRenderer"`
	} `json:"contents"`
}

var errNoFilterMenu = errors.New("search filter menu not found")

// ParseFilters reads the search filter menu out of a results payload.
// Groups and options keep payload order. When several options of one
// group are applied, the last one wins and the earlier ones are cleared.
func ParseFilters(initialData json.RawMessage) (*FilterGroups, error) {
	var p filterPayload
	if err := json.Unmarshal(initialData, &p); err != nil {
		return nil, fmt.Errorf("decode filter menu: %w", err)
	}
	pc := p.Contents.TwoColumnSearchResultsRenderer.PrimaryContents
	holder := pc.SectionListRenderer
	if holder == nil {
		holder = pc.RichGridRenderer
	}
	if holder == nil {
		return nil, errNoFilterMenu
	}
	menu := holder.SubMenu
	if menu == nil {
		menu = holder.Submenu
	}
	if menu == nil || menu.SearchSubMenuRenderer == nil {
		return nil, errNoFilterMenu
	}

	out := newFilterGroups()
	for _, g := range menu.SearchSubMenuRenderer.Groups {
		r := g.SearchFilterGroupRenderer
		if r == nil {
			continue
		}
		group := &FilterGroup{
			Title:   r.Title.StringOr(unknownCategory),
			Filters: om.New[string, *Filter](),
		}
		for _, f := range r.Filters {
			if f.SearchFilterRenderer == nil {
				continue
			}
			filter := parseFilter(f.SearchFilterRenderer)
			// A repeated label replaces the earlier option.
			if prev, ok := group.Filters.Get(filter.Name); ok && prev == group.Active {
				group.Active = nil
			}
			if filter.Active {
				if group.Active != nil {
					group.Active.Active = false
				}
				group.Active = filter
			}
			group.Filters.Set(filter.Name, filter)
		}
		out.groups.Set(group.Title, group)
	}
	return out, nil
}

func parseFilter(r *searchFilterRenderer) *Filter {
	f := &Filter{
		Name:        r.Label.StringOr(""),
		Active:      r.NavigationEndpoint == nil,
		Description: r.Tooltip,
	}
	if !f.Active {
		u := resolveURL(r.NavigationEndpoint.webURL())
		f.URL = &u
	}
	return f
}
