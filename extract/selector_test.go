package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func mustCompile(t *testing.T, expr string) Expression {
	t.Helper()
	e, err := Compile(expr)
	if err != nil {
		t.Fatalf("Compile(%q): %v", expr, err)
	}
	return e
}

func texts(sels []*goquery.Selection) []string {
	out := make([]string, 0, len(sels))
	for _, s := range sels {
		out = append(out, s.Text())
	}
	return out
}

const listingHTML = `<html><body>
<div class="card"><h2 class="name featured">Apple</h2></div>
<div class="card"><h3 class="name">Banana</h3></div>
<div class="card"><h2 class="title">Cherry</h2></div>
</body></html>`

func TestExpression_Match_UnionWithoutDedup(t *testing.T) {
	doc := mustDoc(t, listingHTML)

	got := texts(mustCompile(t, "h2, .name").Match(doc.Selection))
	want := []string{"Apple", "Cherry", "Apple", "Banana"}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Match mismatch (-want +got):\n%s", diff)
	}
}

func TestExpression_Match_LengthIsSumOfParts(t *testing.T) {
	doc := mustDoc(t, listingHTML)
	parts := []string{".name", "h2", ".featured", ".missing"}

	sum := 0
	for _, p := range parts {
		sum += len(mustCompile(t, p).Match(doc.Selection))
	}
	got := len(mustCompile(t, strings.Join(parts, " , ")).Match(doc.Selection))
	if got != sum {
		t.Errorf("combined match count = %d, want %d", got, sum)
	}
}

func TestExpression_Match_ExcludesScope(t *testing.T) {
	doc := mustDoc(t, `<div class="box"><div class="box">inner</div></div>`)
	outer := doc.Find("div.box").First()

	got := mustCompile(t, ".box").Match(outer)
	if len(got) != 1 || got[0].Text() != "inner" {
		t.Errorf("Match = %v, want only the inner box", texts(got))
	}
}

func TestExpression_First(t *testing.T) {
	doc := mustDoc(t, listingHTML)

	sel, ok := mustCompile(t, ".missing, .title, .name").First(doc.Selection)
	if !ok || sel.Text() != "Cherry" {
		t.Errorf("First = %v, want Cherry from the first alternative with a match", ok)
	}
	if _, ok := mustCompile(t, ".missing").First(doc.Selection); ok {
		t.Error("First should report no match")
	}
}

func TestCompile_Blank(t *testing.T) {
	for _, expr := range []string{"", "  ", " , ,"} {
		e, err := Compile(expr)
		if err != nil {
			t.Fatalf("Compile(%q): %v", expr, err)
		}
		if !e.Empty() {
			t.Errorf("Compile(%q) should be empty", expr)
		}
		if got := e.Match(mustDoc(t, listingHTML).Selection); len(got) != 0 {
			t.Errorf("empty expression matched %d nodes", len(got))
		}
	}
}

func TestCompile_Invalid(t *testing.T) {
	if _, err := Compile(".ok, div[unclosed"); err == nil {
		t.Error("expected an error for malformed selector")
	}
	if _, err := CompileSelectors(".name", "span[", ""); err == nil {
		t.Error("expected CompileSelectors to report the price error")
	}
}
