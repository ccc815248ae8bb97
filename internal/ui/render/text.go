package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/kk-code-lab/rnav/internal/textutil"
)

func (r *Renderer) cachedRuneWidth(ru rune) int {
	if ru < 128 {
		r.runeWidthCacheMu.RLock()
		width := r.runeWidthCache[ru]
		r.runeWidthCacheMu.RUnlock()

		if width == 0 && ru != 0 {
			actualWidth := runewidth.RuneWidth(ru)
			if actualWidth < 0 {
				actualWidth = 0
			}
			r.runeWidthCacheMu.Lock()
			r.runeWidthCache[ru] = actualWidth + 1
			r.runeWidthCacheMu.Unlock()
			return actualWidth
		}
		return width - 1
	}

	if cached, ok := r.runeWidthWide.Load(ru); ok {
		return cached.(int)
	}

	width := runewidth.RuneWidth(ru)
	if width < 0 {
		width = 0
	}
	r.runeWidthWide.Store(ru, width)
	return width
}

func (r *Renderer) measureTextWidth(text string) int {
	width := 0
	for _, ru := range text {
		width += r.cachedRuneWidth(ru)
	}
	return width
}

// drawTextLine draws text starting at startX and returns the column after it.
// Zero-width runes are attached to the preceding cell as combining marks.
func (r *Renderer) drawTextLine(startX, y, maxWidth int, text string, style tcell.Style) int {
	x := startX
	runes := []rune(text)
	i := 0

	for i < len(runes) {
		if x-startX >= maxWidth {
			break
		}

		mainc := runes[i]
		i++

		var combc []rune
		for i < len(runes) && r.cachedRuneWidth(runes[i]) == 0 {
			combc = append(combc, runes[i])
			i++
		}

		w := r.cachedRuneWidth(mainc)
		if w <= 0 {
			w = 1
		}
		if x-startX+w > maxWidth {
			break
		}
		r.screen.SetContent(x, y, mainc, combc, style)
		x += w
	}

	return x
}

func (r *Renderer) drawStyledRune(x, y, maxX int, ru rune, style tcell.Style) int {
	if x >= maxX {
		return x
	}

	width := r.cachedRuneWidth(ru)
	if width <= 0 {
		width = 1
	}
	if x+width > maxX {
		return maxX
	}

	r.screen.SetContent(x, y, ru, nil, style)
	for w := 1; w < width; w++ {
		r.screen.SetContent(x+w, y, ' ', nil, style)
	}
	return x + width
}

func (r *Renderer) fill(startX, endX, y int, style tcell.Style) {
	for x := startX; x < endX; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}
}

// drawHighlightedLabel draws label between x and maxX, styling the runes whose
// index appears in positions with highlightStyle. The label is sanitized rune
// by rune so positions keep pointing at the runes they were computed for. When
// the label does not fit it is cut with an ellipsis.
func (r *Renderer) drawHighlightedLabel(x, y, maxX int, label string, positions []int, baseStyle, highlightStyle tcell.Style) int {
	if x >= maxX {
		return x
	}

	marked := make(map[int]bool, len(positions))
	for _, p := range positions {
		marked[p] = true
	}

	limit := maxX
	if r.measureTextWidth(textutil.Sanitize(label)) > maxX-x {
		limit = maxX - r.measureTextWidth(textutil.Ellipsis)
	}

	idx := 0
	for _, ru := range label {
		style := baseStyle
		if marked[idx] {
			style = highlightStyle
		}
		idx++
		for _, out := range textutil.SanitizeRune(ru) {
			w := r.cachedRuneWidth(out)
			if w <= 0 {
				w = 1
			}
			if x+w > limit {
				if limit < maxX {
					x = r.drawTextLine(x, y, maxX-x, textutil.Ellipsis, baseStyle)
				}
				return x
			}
			x = r.drawStyledRune(x, y, maxX, out, style)
		}
	}
	return x
}
