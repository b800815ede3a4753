package extract

import (
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestRelated_PositionalWinsOverContainer(t *testing.T) {
	doc := mustDoc(t, `<html><body>
<div class="promo"><span class="price">$99</span></div>
<ul><li><span class="name">Apple</span><span class="price">$1</span></li></ul>
</body></html>`)
	anchor := doc.Find(".name").First()

	got, ok := Related(doc, anchor, mustCompile(t, ".price"), 0)
	if !ok {
		t.Fatal("expected a match")
	}
	if got.Text() != "$99" {
		t.Errorf("Related = %q, want the positional match $99", got.Text())
	}
}

func TestRelated_FallsBackToContainer(t *testing.T) {
	doc := mustDoc(t, `<ul>
<li><span class="name">Apple</span></li>
<li><span class="name">Banana</span><span class="price">$2</span></li>
</ul>`)
	anchor := doc.Find(".name").Eq(1)

	got, ok := Related(doc, anchor, mustCompile(t, ".price"), 1)
	if !ok || got.Text() != "$2" {
		t.Errorf("Related = %v, want $2 from the anchor's container", ok)
	}
}

func TestRelated_NoMatch(t *testing.T) {
	doc := mustDoc(t, `<ul><li><span class="name">Apple</span></li></ul>`)
	anchor := doc.Find(".name").First()

	if _, ok := Related(doc, anchor, mustCompile(t, ".price"), 0); ok {
		t.Error("expected no match")
	}
	if _, ok := Related(doc, anchor, Expression{}, 0); ok {
		t.Error("empty expression should never match")
	}
}

func TestByFollowingSibling(t *testing.T) {
	doc := mustDoc(t, `<div>
<h2 class="name">Apple</h2>
<p>no price here</p>
<div class="meta"><span class="price">$1</span><span class="price">$1.50</span></div>
<div class="meta"><span class="price">$2</span></div>
</div>`)
	anchor := doc.Find(".name").First()

	got, ok := byFollowingSibling(relatedQuery{anchor: anchor, expr: mustCompile(t, ".price")})
	if !ok || got.Text() != "$1" {
		t.Errorf("byFollowingSibling = %v, want $1 from the first sibling with a match", ok)
	}

	last := doc.Find(".meta").Last()
	if _, ok := byFollowingSibling(relatedQuery{anchor: last, expr: mustCompile(t, ".price")}); ok {
		t.Error("last sibling has no following siblings to search")
	}
}

func TestByPosition_OutOfRange(t *testing.T) {
	doc := mustDoc(t, `<span class="price">$1</span>`)
	q := relatedQuery{docMatches: mustCompile(t, ".price").Match(doc.Selection)}

	for _, i := range []int{-1, 1, 5} {
		q.index = i
		if _, ok := byPosition(q); ok {
			t.Errorf("byPosition(index=%d) should miss", i)
		}
	}
}

func TestFirstMatch_Order(t *testing.T) {
	doc := mustDoc(t, `<b>one</b><b>two</b>`)
	one := doc.Find("b").Eq(0)
	two := doc.Find("b").Eq(1)

	var calls []string
	miss := func(q relatedQuery) (*goquery.Selection, bool) {
		calls = append(calls, "miss")
		return nil, false
	}
	hit := func(s *goquery.Selection, name string) strategy {
		return func(q relatedQuery) (*goquery.Selection, bool) {
			calls = append(calls, name)
			return s, true
		}
	}

	got, ok := firstMatch(relatedQuery{}, miss, hit(one, "one"), hit(two, "two"))
	if !ok || got.Text() != "one" {
		t.Fatalf("firstMatch = %v, want the first hit", ok)
	}
	if len(calls) != 2 {
		t.Errorf("strategies called = %v, want evaluation to stop at the first hit", calls)
	}

	if _, ok := firstMatch(relatedQuery{}, miss, miss); ok {
		t.Error("all misses should report no match")
	}
}
