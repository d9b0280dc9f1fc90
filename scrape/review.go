package scrape

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/codeGROOVE-dev/bookworm/review"
)

// ParseReviewPage extracts review records from one review-list page.
//
// The page must contain the review table container; its absence is a
// *ParseError. Rows missing a title or title ID are discarded. Rating and
// votes failures default the field to zero; each such outcome is reported in
// fieldErrs so the caller can log it instead of treating it as a silent zero.
func ParseReviewPage(data []byte, userID string) (records []review.Record, fieldErrs []error, err error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}

	table := doc.Find(reviewTableSel)
	if table.Length() == 0 {
		return nil, nil, &ParseError{Anchor: "review table container"}
	}

	table.Find(reviewRowSel).Each(func(i int, row *goquery.Selection) {
		rec, rowErrs := parseReviewRow(row, userID)
		for _, rowErr := range rowErrs {
			fieldErrs = append(fieldErrs, fmt.Errorf("row %d: %w", i, rowErr))
		}
		if rec != nil {
			records = append(records, *rec)
		}
	})

	return records, fieldErrs, nil
}

// parseReviewRow extracts one record from a review row. A nil record means
// the row's mandatory fields could not be extracted.
func parseReviewRow(row *goquery.Selection, userID string) (*review.Record, []error) {
	var errs []error

	titleCell := row.Find(titleCellSel)
	if titleCell.Length() == 0 {
		return nil, []error{&ParseError{Anchor: "title cell"}}
	}

	title := cleanTitle(titleCell.Text())
	if title == "" {
		return nil, []error{fmt.Errorf("title: %w", &ParseError{Anchor: "title text"})}
	}

	titleID := titleIDFromCell(titleCell)
	if titleID == "" {
		return nil, []error{fmt.Errorf("title_id: %w", &ParseError{Anchor: "title link"})}
	}

	rec := &review.Record{
		UserID:  userID,
		TitleID: titleID,
		Title:   title,
	}

	rating, err := parseRating(row)
	if err != nil {
		errs = append(errs, fmt.Errorf("rating: %w", err))
	} else {
		rec.Rating = rating
	}

	votes, err := parseVotes(row)
	if err != nil {
		errs = append(errs, fmt.Errorf("votes: %w", err))
	} else {
		rec.Votes = votes
	}

	return rec, errs
}

// titleIDFromCell returns the last path segment of the book link.
func titleIDFromCell(cell *goquery.Selection) string {
	href, ok := cell.Find("a").First().Attr("href")
	if !ok {
		return ""
	}
	if idx := strings.LastIndex(href, "/"); idx >= 0 {
		href = href[idx+1:]
	}
	return href
}

// parseRating counts filled-star marker elements in the rating cell. The
// rating is not a numeric text field on these pages.
func parseRating(row *goquery.Selection) (int, error) {
	cell := row.Find(ratingCellSel)
	if cell.Length() == 0 {
		return 0, &ParseError{Anchor: "rating cell"}
	}
	rating := cell.Find(filledStarSel).Length()
	if rating > 5 {
		rating = 5
	}
	return rating, nil
}

// parseVotes extracts the helpfulness vote count from the votes cell text.
func parseVotes(row *goquery.Selection) (int, error) {
	cell := row.Find(votesCellSel)
	if cell.Length() == 0 {
		return 0, &ParseError{Anchor: "votes cell"}
	}
	return firstInt(cell.Text())
}
