package extract

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/webscraper/models"
)

// Page turns one parsed listing page into records.
//
// Every title match is an anchor and yields at most one record, in document
// match order. Price and description come from Related for the same anchor
// position. Anchors whose text normalizes to "" are skipped, so the result
// never holds a record without a title. A page with no anchors yields nil.
func Page(doc *goquery.Document, sel Selectors) []models.Record {
	anchors := sel.Title.Match(doc.Selection)
	if len(anchors) == 0 {
		return nil
	}

	prices := sel.Price.Match(doc.Selection)
	descriptions := sel.Description.Match(doc.Selection)

	records := make([]models.Record, 0, len(anchors))
	for i, anchor := range anchors {
		title := Normalize(anchor.Text())
		if title == "" {
			continue
		}
		records = append(records, models.Record{
			Title:       title,
			Price:       relatedText(prices, anchor, sel.Price, i),
			Description: relatedText(descriptions, anchor, sel.Description, i),
		})
	}
	return records
}

func relatedText(docMatches []*goquery.Selection, anchor *goquery.Selection, expr Expression, i int) string {
	if s, ok := relatedIn(docMatches, anchor, expr, i); ok {
		return Normalize(s.Text())
	}
	return ""
}
