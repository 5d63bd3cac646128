// Package search implements the free-text item search with '*' wildcards.
package search

import (
	"regexp"
	"strings"

	"github.com/erazemk/repuestos/internal/model"
	"github.com/erazemk/repuestos/internal/stock"
)

// Pattern is a compiled search term.
type Pattern struct {
	all   bool
	lower string
	re    *regexp.Regexp
}

// Compile prepares term for matching. Without '*' the term is a
// case-insensitive substring; each '*' stands for any run of characters and
// everything else is matched literally.
func Compile(term string) *Pattern {
	if strings.TrimSpace(term) == "" {
		return &Pattern{all: true}
	}
	if !strings.Contains(term, "*") {
		return &Pattern{lower: strings.ToLower(term)}
	}

	parts := strings.Split(term, "*")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	// Quoted parts joined by .* always form a valid expression.
	re := regexp.MustCompile("(?is)" + strings.Join(parts, ".*"))
	return &Pattern{re: re}
}

// MatchString reports whether text matches the pattern.
func (p *Pattern) MatchString(text string) bool {
	switch {
	case p.all:
		return true
	case p.re != nil:
		return p.re.MatchString(text)
	default:
		return strings.Contains(strings.ToLower(text), p.lower)
	}
}

// Match reports whether any searchable field of the item matches.
func (p *Pattern) Match(item *model.Item) bool {
	if p.all {
		return true
	}
	for _, field := range []string{item.Name, item.Code, item.Location, item.Type} {
		if field != "" && p.MatchString(field) {
			return true
		}
	}
	return false
}

// Matches reports whether the item matches term.
func Matches(item *model.Item, term string) bool {
	return Compile(term).Match(item)
}

// Filter returns the items matching both term and the stock filter,
// preserving order.
func Filter(items []model.Item, term string, f stock.Filter) []model.Item {
	p := Compile(term)
	out := make([]model.Item, 0, len(items))
	for i := range items {
		if p.Match(&items[i]) && f.Match(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}

// MatchesExit reports whether a ledger entry contains term, case-insensitively,
// in its material name or code, requester name or destination area.
func MatchesExit(exit *model.Exit, term string) bool {
	if strings.TrimSpace(term) == "" {
		return true
	}
	needle := strings.ToLower(term)
	for _, field := range []string{exit.MaterialName, exit.MaterialCode, exit.PersonName, exit.PersonLastName, exit.Area} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// FilterExits returns the entries matching term, preserving order.
func FilterExits(exits []model.Exit, term string) []model.Exit {
	out := make([]model.Exit, 0, len(exits))
	for i := range exits {
		if MatchesExit(&exits[i], term) {
			out = append(out, exits[i])
		}
	}
	return out
}
