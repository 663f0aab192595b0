package render

import (
	"fmt"
	"math"
	"sort"

	"github.com/fogleman/gg"
)

const (
	minFontSize = 18.0
	maxFontSize = 56.0
)

// Wordcloud draws the aggregated keyword weights of a restaurant as a word
// cloud PNG. Words are placed in rows by descending impact, sized by
// |weight| and colored by sign (green positive, red negative).
func Wordcloud(weights map[string]float64) ([]byte, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("no keywords to draw")
	}

	type entry struct {
		word   string
		weight float64
	}
	entries := make([]entry, 0, len(weights))
	maxAbs := 0.0
	for word, weight := range weights {
		entries = append(entries, entry{word, weight})
		if a := math.Abs(weight); a > maxAbs {
			maxAbs = a
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		ai, aj := math.Abs(entries[i].weight), math.Abs(entries[j].weight)
		if ai != aj {
			return ai > aj
		}
		return entries[i].word < entries[j].word
	})
	if maxAbs == 0 {
		maxAbs = 1
	}

	dc := gg.NewContext(cloudWidth, cloudHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	// Row layout: biggest words first, wrapping left to right. Not a true
	// spiral packing, but deterministic and dense enough for four keywords
	// per review.
	x, y := 20.0, 30.0
	rowHeight := 0.0
	for _, e := range entries {
		size := minFontSize + (maxFontSize-minFontSize)*math.Abs(e.weight)/maxAbs
		face, err := fontFace(size)
		if err != nil {
			return nil, err
		}
		dc.SetFontFace(face)

		w, h := dc.MeasureString(e.word)
		if x+w > cloudWidth-20 {
			x = 20.0
			y += rowHeight + 14
			rowHeight = 0
		}
		if y+h > cloudHeight-10 {
			break
		}

		switch {
		case e.weight > 0:
			dc.SetRGB(0.13, 0.55, 0.13)
		case e.weight < 0:
			dc.SetRGB(0.8, 0.1, 0.1)
		default:
			dc.SetRGB(0.45, 0.45, 0.45)
		}

		dc.DrawString(e.word, x, y+h)
		x += w + 24
		if h > rowHeight {
			rowHeight = h
		}
	}

	return encodePNG(dc)
}
