package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Expression is a compiled selector expression: one or more comma-separated
// CSS selectors whose matches are concatenated in the order they were
// written.
//
// Unlike a CSS selector group, an Expression does not deduplicate. A node
// matched by two alternatives appears twice, and matches are ordered by
// alternative first and document position second.
type Expression struct {
	source string
	parts  []cascadia.Selector
}

// Compile parses expr. Blank alternatives are ignored, so a blank expr
// yields an empty Expression that matches nothing.
func Compile(expr string) (Expression, error) {
	e := Expression{source: expr}
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sel, err := cascadia.Compile(part)
		if err != nil {
			return Expression{}, fmt.Errorf("extract: invalid selector %q: %w", part, err)
		}
		e.parts = append(e.parts, sel)
	}
	return e, nil
}

// Empty reports whether the expression has no alternatives.
func (e Expression) Empty() bool { return len(e.parts) == 0 }

// String returns the expression as it was written.
func (e Expression) String() string { return e.source }

// Match returns every descendant of scope matched by each alternative, in
// alternative order. The scope nodes themselves are never included.
func (e Expression) Match(scope *goquery.Selection) []*goquery.Selection {
	var out []*goquery.Selection
	for _, sel := range e.parts {
		scope.FindMatcher(sel).Each(func(_ int, s *goquery.Selection) {
			out = append(out, s)
		})
	}
	return out
}

// First returns the first node Match would return, without collecting the
// rest.
func (e Expression) First(scope *goquery.Selection) (*goquery.Selection, bool) {
	for _, sel := range e.parts {
		if found := scope.FindMatcher(sel); found.Length() > 0 {
			return found.First(), true
		}
	}
	return nil, false
}

// Selectors is the compiled form of models.Selectors.
type Selectors struct {
	Title       Expression
	Price       Expression
	Description Expression
}

// CompileSelectors compiles all three field expressions, reporting the
// first syntax error.
func CompileSelectors(title, price, description string) (Selectors, error) {
	var s Selectors
	var err error
	if s.Title, err = Compile(title); err != nil {
		return Selectors{}, err
	}
	if s.Price, err = Compile(price); err != nil {
		return Selectors{}, err
	}
	if s.Description, err = Compile(description); err != nil {
		return Selectors{}, err
	}
	return s, nil
}
