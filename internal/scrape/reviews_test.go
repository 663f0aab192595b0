package scrape

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"review_spider/internal/browser"
	"review_spider/internal/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reviewItem(userName string, rating int, text string) string {
	return fmt.Sprintf(`
<li class="y-css-1sqelp2">
  <div class="user-passport-info">
    <a href="https://www.yelp.fr/user_details?userid=u-%s&review_origin=biz">%s</a>
    <div data-testid="UserPassportInfoTextContainer"><span>Paris, France</span></div>
  </div>
  <div class="y-css-dnttlc" aria-label="%d étoiles"></div>
  <span class="y-css-1d8mpv1">12 janv. 2025</span>
  <p class="comment__09f24__D0cxf">%s</p>
  <button class="y-css-4u1w9w" aria-label="Utile (3 réactions)"></button>
  <button class="y-css-4u1w9w" aria-label="J adore (1 réaction)"></button>
</li>`, strings.ReplaceAll(userName, " ", ""), userName, rating, text)
}

func reviewPage(items ...string) string {
	return "<html><body><ol>" + strings.Join(items, "\n") + "</ol></body></html>"
}

func TestParseReview(t *testing.T) {
	doc := docFromHTML(t, reviewPage(reviewItem("Marie D.", 5, "Excellent repas, service parfait.")))
	s := newTestScraper(nil)

	review, err := s.parseReview(doc.Find(selReviewItem).First(), "chez-janou-paris")
	require.NoError(t, err)

	assert.Equal(t, "chez-janou-paris_Marie_D._12_janv._2025", review.ID)
	assert.Equal(t, "chez-janou-paris", review.RestaurantID)
	assert.Equal(t, "u-MarieD.", review.UserID)
	assert.Equal(t, "Marie D.", review.UserName)
	assert.Equal(t, "Paris, France", review.UserLocation)
	assert.Equal(t, 5, review.Rating)
	assert.Equal(t, "12 janv. 2025", review.Date)
	assert.Equal(t, "Excellent repas, service parfait.", review.Text)
	assert.JSONEq(t, `{"utile":3,"j_adore":1}`, review.Reactions)
	assert.Equal(t, models.ReviewTypePositive, review.ReviewType)
	assert.NotEmpty(t, review.ScrapedAt)
}

func TestParseReviewRatingDrivesReviewType(t *testing.T) {
	tests := []struct {
		rating   int
		expected string
	}{
		{1, models.ReviewTypeNegative},
		{3, models.ReviewTypeNeutral},
		{4, models.ReviewTypePositive},
	}

	s := newTestScraper(nil)
	for _, tc := range tests {
		doc := docFromHTML(t, reviewPage(reviewItem("Marie D.", tc.rating, "Bof.")))
		review, err := s.parseReview(doc.Find(selReviewItem).First(), "chez-janou-paris")
		require.NoError(t, err)
		assert.Equal(t, tc.expected, review.ReviewType, "rating %d", tc.rating)
	}
}

func TestParseReviewMissingText(t *testing.T) {
	item := `
<li class="y-css-1sqelp2">
  <div class="user-passport-info"><a href="#">Marie D.</a></div>
  <div class="y-css-dnttlc" aria-label="4 étoiles"></div>
  <span class="y-css-1d8mpv1">12 janv. 2025</span>
</li>`
	doc := docFromHTML(t, reviewPage(item))
	s := newTestScraper(nil)

	_, err := s.parseReview(doc.Find(selReviewItem).First(), "chez-janou-paris")
	assert.Error(t, err)
}

func TestHarvestReviewsSplitsBudgetAcrossSorts(t *testing.T) {
	page := reviewPage(
		reviewItem("A A.", 5, "Super."),
		reviewItem("B B.", 4, "Très bien."),
		reviewItem("C C.", 3, "Correct."),
	)

	var sortsSeen []string
	s := newTestScraper(&fakeFetcher{fetchFn: func(req browser.Request) (*goquery.Document, error) {
		sortsSeen = append(sortsSeen, req.URL)
		return docFromHTML(t, page), nil
	}})

	reviews := s.HarvestReviews(context.Background(), "https://www.yelp.fr/biz/chez-janou-paris", 4)

	assert.Len(t, reviews, 4, "two per sort order")
	require.Len(t, sortsSeen, 2)
	assert.Contains(t, sortsSeen[0], "sort_by=rating_desc")
	assert.Contains(t, sortsSeen[1], "sort_by=rating_asc")
}

func TestHarvestReviewsSkipsFailedSortOrder(t *testing.T) {
	page := reviewPage(
		reviewItem("A A.", 5, "Super."),
		reviewItem("B B.", 5, "Génial."),
		reviewItem("C C.", 4, "Très bien."),
		reviewItem("D D.", 4, "Bien."),
		reviewItem("E E.", 4, "Pas mal."),
		reviewItem("F F.", 3, "Correct."),
		reviewItem("G G.", 3, "Moyen."),
	)

	s := newTestScraper(&fakeFetcher{fetchFn: func(req browser.Request) (*goquery.Document, error) {
		if strings.Contains(req.URL, SortWorstFirst) {
			return nil, browser.ErrWaitTimeout
		}
		return docFromHTML(t, page), nil
	}})

	reviews := s.HarvestReviews(context.Background(), "https://www.yelp.fr/biz/chez-janou-paris", 10)

	assert.Len(t, reviews, 5, "five from the surviving sort order, none from the failed one")
}

func TestHarvestReviewsSkipsBrokenItem(t *testing.T) {
	page := reviewPage(
		reviewItem("A A.", 5, "Super."),
		`<li class="y-css-1sqelp2"><p>no passport</p></li>`,
		reviewItem("B B.", 4, "Bien."),
	)

	s := newTestScraper(&fakeFetcher{fetchFn: func(req browser.Request) (*goquery.Document, error) {
		return docFromHTML(t, page), nil
	}})

	reviews := s.HarvestReviews(context.Background(), "https://www.yelp.fr/biz/chez-janou-paris", 10)

	require.Len(t, reviews, 4)
	for _, r := range reviews {
		assert.NotEmpty(t, r.UserName)
	}
}

func TestHarvestReviewsEmptyPage(t *testing.T) {
	s := newTestScraper(&fakeFetcher{fetchFn: func(req browser.Request) (*goquery.Document, error) {
		return docFromHTML(t, "<html><body><ol></ol></body></html>"), nil
	}})

	reviews := s.HarvestReviews(context.Background(), "https://www.yelp.fr/biz/chez-janou-paris", 10)
	assert.Empty(t, reviews)
}
