package extract

import "github.com/PuerkitoBio/goquery"

// strategy proposes a companion node for an anchor. ok is false when the
// strategy found nothing; strategies never fail any other way.
type strategy func(q relatedQuery) (sel *goquery.Selection, ok bool)

// relatedQuery is the input shared by every strategy.
type relatedQuery struct {
	anchor *goquery.Selection
	expr   Expression
	index  int

	// docMatches is expr matched against the whole document. It is
	// computed once per page and field, not once per anchor.
	docMatches []*goquery.Selection
}

// relatedStrategies is tried in order. The order matters: positional
// alignment wins even when a container match would look closer.
var relatedStrategies = []strategy{
	byPosition,
	byContainer,
	byFollowingSibling,
}

// Related finds the node that carries a secondary field (price,
// description) for the anchor at position index among the title matches.
//
// Markup gives no reliable link between fields, so this is a heuristic.
// Positional alignment assumes secondary elements appear in the same order
// and number as the anchors, which holds for uniform lists and grids only.
func Related(doc *goquery.Document, anchor *goquery.Selection, expr Expression, index int) (*goquery.Selection, bool) {
	if expr.Empty() {
		return nil, false
	}
	return relatedIn(expr.Match(doc.Selection), anchor, expr, index)
}

func relatedIn(docMatches []*goquery.Selection, anchor *goquery.Selection, expr Expression, index int) (*goquery.Selection, bool) {
	if expr.Empty() {
		return nil, false
	}
	return firstMatch(relatedQuery{
		anchor:     anchor,
		expr:       expr,
		index:      index,
		docMatches: docMatches,
	}, relatedStrategies...)
}

// firstMatch returns the result of the first strategy that finds a node.
func firstMatch(q relatedQuery, strategies ...strategy) (*goquery.Selection, bool) {
	for _, s := range strategies {
		if sel, ok := s(q); ok {
			return sel, true
		}
	}
	return nil, false
}

// byPosition picks the index-th whole-document match.
func byPosition(q relatedQuery) (*goquery.Selection, bool) {
	if q.index >= 0 && q.index < len(q.docMatches) {
		return q.docMatches[q.index], true
	}
	return nil, false
}

// byContainer picks the first match inside the anchor's immediate parent.
func byContainer(q relatedQuery) (*goquery.Selection, bool) {
	parent := q.anchor.Parent()
	if parent.Length() == 0 {
		return nil, false
	}
	return q.expr.First(parent)
}

// byFollowingSibling walks the anchor's following element siblings and picks
// the first match inside the first sibling that has one.
func byFollowingSibling(q relatedQuery) (*goquery.Selection, bool) {
	var found *goquery.Selection
	q.anchor.NextAll().EachWithBreak(func(_ int, sib *goquery.Selection) bool {
		if sel, ok := q.expr.First(sib); ok {
			found = sel
			return false
		}
		return true
	})
	return found, found != nil
}
