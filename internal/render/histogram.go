package render

import (
	"fmt"

	"review_spider/internal/models"

	"github.com/fogleman/gg"
)

type histBar struct {
	label   string
	r, g, b float64
}

// Fixed bar order and colors: red, gray, green.
var histBars = []histBar{
	{models.SentimentNegative, 0.8, 0.1, 0.1},
	{models.SentimentNeutral, 0.45, 0.45, 0.45},
	{models.SentimentPositive, 0.13, 0.55, 0.13},
}

// Histogram draws the distribution of sentiment labels as a bar chart PNG.
func Histogram(sentiments []string) ([]byte, error) {
	counts := make(map[string]int, len(histBars))
	for _, s := range sentiments {
		counts[s]++
	}

	maxCount := 0
	for _, bar := range histBars {
		if counts[bar.label] > maxCount {
			maxCount = counts[bar.label]
		}
	}
	if maxCount == 0 {
		return nil, fmt.Errorf("no sentiments to draw")
	}

	dc := gg.NewContext(histWidth, histHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	titleFace, err := fontFace(18)
	if err != nil {
		return nil, err
	}
	labelFace, err := fontFace(14)
	if err != nil {
		return nil, err
	}

	dc.SetFontFace(titleFace)
	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored("Répartition des sentiments", histWidth/2, 24, 0.5, 0.5)

	const (
		marginX  = 60.0
		baseY    = histHeight - 50.0
		chartTop = 60.0
	)
	plotHeight := baseY - chartTop
	barWidth := (histWidth - 2*marginX) / float64(len(histBars)) * 0.6
	slotWidth := (histWidth - 2*marginX) / float64(len(histBars))

	dc.SetFontFace(labelFace)
	for i, bar := range histBars {
		count := counts[bar.label]
		barHeight := plotHeight * float64(count) / float64(maxCount)
		x := marginX + float64(i)*slotWidth + (slotWidth-barWidth)/2

		dc.SetRGB(bar.r, bar.g, bar.b)
		dc.DrawRectangle(x, baseY-barHeight, barWidth, barHeight)
		dc.Fill()

		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(bar.label, x+barWidth/2, baseY+16, 0.5, 0.5)
		dc.DrawStringAnchored(fmt.Sprintf("%d", count), x+barWidth/2, baseY-barHeight-10, 0.5, 0.5)
	}

	return encodePNG(dc)
}
