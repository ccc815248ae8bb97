package render

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/rnav/internal/search"
	"github.com/kk-code-lab/rnav/internal/source"
	statepkg "github.com/kk-code-lab/rnav/internal/state"
	"github.com/kk-code-lab/rnav/internal/textutil"
)

const (
	AppTitle            = "rnav"
	BreadcrumbSeparator = " › "
	loadingIndicator    = "loading…"
	queryCursor         = '█'
)

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

// Rect is a screen region in cells.
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether the region has no drawable cells.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Frame is everything drawn in one pass.
type Frame struct {
	Browser *statepkg.Pane
	// Palette is nil while the command palette is closed.
	Palette *statepkg.Pane
	Help    bool
	// Tick advances the loading spinner.
	Tick int
}

// Renderer handles all UI rendering
type Renderer struct {
	screen           tcell.Screen
	tick             int
	theme            ColorTheme
	runeWidthCache   [128]int // ASCII cache (0-127)
	runeWidthCacheMu sync.RWMutex
	runeWidthWide    sync.Map // For non-ASCII runes
}

// NewRenderer creates a new renderer
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen: screen,
		theme:  GetColorTheme(),
	}
}

// BrowserRect is the region the directory browser occupies.
func BrowserRect(w, h int) Rect {
	return Rect{X: 0, Y: 0, W: w, H: h}
}

// PaletteRect is the region of the command palette overlay: centered
// horizontally, anchored near the top, sized for the palette's row limit.
func PaletteRect(w, h, limit int) Rect {
	if limit <= 0 {
		limit = statepkg.DefaultCommandLimit
	}
	width := w - 4
	if width > 72 {
		width = 72
	}
	if width < 1 {
		width = w
	}
	height := limit + 3
	if height > h-2 {
		height = h - 2
	}
	if height < 4 {
		height = h
	}
	return Rect{X: (w - width) / 2, Y: 1, W: width, H: height}
}

// Render draws the entire UI for frame.
func (r *Renderer) Render(frame Frame) {
	r.screen.Clear()
	r.tick = frame.Tick

	w, h := r.screen.Size()
	if frame.Help {
		r.drawHelpOverlay(frame.Browser, w, h)
		r.screen.Show()
		return
	}

	if frame.Browser != nil {
		r.drawPane(frame.Browser, BrowserRect(w, h), r.browserStyles())
	}
	if frame.Palette != nil {
		rect := PaletteRect(w, h, frame.Palette.Projector().Limit)
		r.drawPane(frame.Palette, rect, r.paletteStyles())
	}

	r.screen.Show()
}

// paneStyles is the palette a pane is drawn with.
type paneStyles struct {
	base   tcell.Style
	header tcell.Style
	footer tcell.Style
	prompt string
}

func (r *Renderer) browserStyles() paneStyles {
	base := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	return paneStyles{
		base:   base,
		header: tcell.StyleDefault.Background(r.theme.HeaderBg).Foreground(r.theme.HeaderFg),
		footer: tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg),
		prompt: "> ",
	}
}

func (r *Renderer) paletteStyles() paneStyles {
	base := tcell.StyleDefault.Background(r.theme.PaletteBg).Foreground(r.theme.PaletteFg)
	return paneStyles{
		base:   base,
		header: base.Bold(true),
		footer: base,
		prompt: ": ",
	}
}

func (r *Renderer) drawPane(p *statepkg.Pane, rect Rect, styles paneStyles) {
	if rect.Empty() {
		return
	}
	r.drawHeader(p, rect, styles.header)
	if rect.H > 1 {
		r.drawQueryLine(p, rect, styles)
	}
	if rect.H > 2 {
		r.drawList(p, rect, styles.base)
		r.drawStatusLine(p, rect, styles.footer)
	}
}

// drawHeader renders the top bar with title and breadcrumb
func (r *Renderer) drawHeader(p *statepkg.Pane, rect Rect, headerStyle tcell.Style) {
	maxX := rect.X + rect.W
	y := rect.Y

	title := AppTitle
	if p.Kind() == statepkg.PanePalette {
		title = "commands"
	}
	endX := r.drawTextLine(rect.X, y, rect.W, title, headerStyle.Bold(true))
	if endX < maxX {
		r.screen.SetContent(endX, y, ' ', nil, headerStyle)
		endX++
	}

	flags := headerFlags(p)
	flagsWidth := r.measureTextWidth(flags)

	if p.Kind() == statepkg.PaneBrowser && endX < maxX {
		available := maxX - endX
		if flagsWidth > 0 && available > flagsWidth+1 {
			available -= flagsWidth + 1
		}
		endX = r.drawBreadcrumb(endX, y, available, paneLocation(p), headerStyle)
	}

	r.fill(endX, maxX, y, headerStyle)
	if flagsWidth > 0 && maxX-flagsWidth > endX {
		r.drawTextLine(maxX-flagsWidth, y, flagsWidth, flags, headerStyle.Dim(true))
	}
}

// paneLocation is the directory shown in the breadcrumb: the committed scope,
// or the pending one while nothing has committed yet.
func paneLocation(p *statepkg.Pane) string {
	if scope := p.Scope(); !scope.IsZero() {
		return scope.Path
	}
	return p.PendingScope().Path
}

func headerFlags(p *statepkg.Pane) string {
	var flags []string
	if p.Kind() == statepkg.PaneBrowser {
		if mode := p.Mode(); mode != statepkg.ModeBoth {
			flags = append(flags, mode.String())
		}
		if p.ShowHidden() {
			flags = append(flags, "hidden")
		}
		if exts := p.Extensions(); len(exts) > 0 {
			flags = append(flags, strings.Join(exts, ","))
		}
	}
	if len(flags) == 0 {
		return ""
	}
	return "[" + strings.Join(flags, " ") + "]"
}

// drawBreadcrumb draws path as segments joined by BreadcrumbSeparator with
// the last segment in bold. Overlong prefixes lose their leading part.
func (r *Renderer) drawBreadcrumb(x, y, available int, path string, style tcell.Style) int {
	if available <= 0 {
		return x
	}
	maxX := x + available
	segments := FormatBreadcrumbSegments(path)
	lastIdx := len(segments) - 1
	last := textutil.Sanitize(segments[lastIdx])
	lastWidth := r.measureTextWidth(last)

	if lastIdx > 0 {
		prefix := textutil.Sanitize(strings.Join(segments[:lastIdx], BreadcrumbSeparator)) + BreadcrumbSeparator
		room := available - lastWidth
		if room > 0 {
			prefix = textutil.TruncateLeft(prefix, room)
			x = r.drawTextLine(x, y, maxX-x, prefix, style)
		}
	}

	if x < maxX {
		last = textutil.Truncate(last, maxX-x)
		x = r.drawTextLine(x, y, maxX-x, last, style.Bold(true))
	}
	return x
}

// FormatBreadcrumbSegments splits path into the segments the header shows.
func FormatBreadcrumbSegments(path string) []string {
	if path == "" {
		return []string{"/"}
	}

	cleanPath := filepath.Clean(path)
	if cleanPath == "." {
		cleanPath = "/"
	}

	slashed := filepath.ToSlash(cleanPath)
	if slashed == "/" {
		return []string{"/"}
	}

	var segments []string

	if strings.HasPrefix(slashed, "/") {
		segments = append(segments, "/")
		slashed = strings.TrimPrefix(slashed, "/")
	}

	for _, part := range strings.Split(slashed, "/") {
		if part == "" {
			continue
		}
		segments = append(segments, part)
	}

	if len(segments) == 0 {
		return []string{cleanPath}
	}

	return segments
}

// drawQueryLine renders the prompt, the query with its cursor and the
// matched/total counter.
func (r *Renderer) drawQueryLine(p *statepkg.Pane, rect Rect, styles paneStyles) {
	maxX := rect.X + rect.W
	y := rect.Y + 1
	style := styles.base
	cursorStyle := style.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)

	proj := p.Projection()
	counter := fmt.Sprintf(" %d/%d", proj.Matched, proj.Total)
	counterWidth := r.measureTextWidth(counter)
	queryMaxX := maxX
	if rect.W > counterWidth+8 {
		queryMaxX = maxX - counterWidth
	}

	x := r.drawTextLine(rect.X, y, queryMaxX-rect.X, styles.prompt, style.Bold(true))
	query := textutil.Sanitize(p.Query())
	if room := queryMaxX - x - 1; r.measureTextWidth(query) > room {
		query = textutil.TruncateLeft(query, room)
	}
	x = r.drawTextLine(x, y, queryMaxX-x, query, style)
	x = r.drawStyledRune(x, y, queryMaxX, queryCursor, cursorStyle)

	if p.Query() == "" && p.Kind() == statepkg.PaneBrowser {
		x = r.drawTextLine(x, y, queryMaxX-x, " type to filter", style.Dim(true))
	}
	r.fill(x, maxX, y, style)
	if queryMaxX < maxX {
		r.drawTextLine(queryMaxX, y, counterWidth, counter, style.Dim(true))
	}
}

// drawList renders the visible window of the projection.
func (r *Renderer) drawList(p *statepkg.Pane, rect Rect, baseStyle tcell.Style) {
	maxX := rect.X + rect.W
	listStartY := rect.Y + 2
	bottomLimit := rect.Y + rect.H - 1

	proj := p.Projection()
	match := p.Projector().MatchQuery(proj.Query)
	start := p.ScrollOffset()
	end := start + (bottomLimit - listStartY)
	if end > len(proj.Items) {
		end = len(proj.Items)
	}

	y := listStartY
	for idx := start; idx < end && y < bottomLimit; idx++ {
		r.drawRow(proj.Items[idx].Candidate, idx == p.SelectedIndex(), match, rect.X, y, maxX, baseStyle)
		y++
	}

	if len(proj.Items) == 0 && y < bottomLimit && !p.Loading() {
		msg := "(empty)"
		if !search.IsBlank(match) {
			msg = "(no matches)"
		}
		endX := r.drawTextLine(rect.X+1, y, rect.W-1, msg, baseStyle.Dim(true))
		r.fill(rect.X, rect.X+1, y, baseStyle)
		r.fill(endX, maxX, y, baseStyle)
		y++
	}

	for ; y < bottomLimit; y++ {
		r.fill(rect.X, maxX, y, baseStyle)
	}
}

// rowStyle picks the style for a candidate row.
func (r *Renderer) rowStyle(c source.Candidate, selected bool, baseStyle tcell.Style) tcell.Style {
	if selected {
		return tcell.StyleDefault.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)
	}
	var style tcell.Style
	switch {
	case c.Meta.Symlink:
		style = baseStyle.Foreground(r.theme.SymlinkFg)
	case c.Kind == source.KindDirectory:
		style = baseStyle.Foreground(r.theme.DirectoryFg)
	case c.Kind == source.KindCommand || c.Kind == source.KindPane:
		style = baseStyle.Foreground(r.theme.CommandFg)
	default:
		style = baseStyle.Foreground(r.theme.FileFg)
	}
	if c.Meta.Hidden {
		style = style.Foreground(r.theme.HiddenFg)
	}
	return style
}

func (r *Renderer) drawRow(c source.Candidate, selected bool, match string, startX, y, maxX int, baseStyle tcell.Style) {
	style := r.rowStyle(c, selected, baseStyle)
	highlight := style.Foreground(r.theme.MatchFg).Bold(true)
	if selected {
		highlight = style.Bold(true).Underline(true)
	}

	icon := c.Meta.Icon
	if icon == "" {
		icon = " "
	}
	x := r.drawTextLine(startX, y, maxX-startX, " "+icon+" ", style)

	suffix := rowSuffix(c)
	suffixWidth := r.measureTextWidth(suffix)
	labelMaxX := maxX
	if suffixWidth > 0 && maxX-x > suffixWidth+8 {
		labelMaxX = maxX - suffixWidth - 1
	} else {
		suffix = ""
	}

	var positions []int
	if !c.Meta.Parent && !search.IsBlank(match) {
		positions = search.MatchPositions(match, c.Label)
	}
	x = r.drawHighlightedLabel(x, y, labelMaxX, c.Label, positions, style, highlight)

	r.fill(x, maxX, y, style)
	if suffix == "" {
		return
	}
	suffixStyle := style
	if !selected {
		suffixStyle = style.Foreground(r.theme.DescriptionFg)
	}
	if c.Kind == source.KindFile {
		r.drawTextLine(maxX-suffixWidth-1, y, suffixWidth, suffix, suffixStyle)
		return
	}
	r.drawTextLine(labelMaxX+1, y, maxX-labelMaxX-1, textutil.Truncate(suffix, maxX-labelMaxX-1), suffixStyle)
}

// rowSuffix is the secondary text after a label: a size for files and a
// description for commands.
func rowSuffix(c source.Candidate) string {
	switch c.Kind {
	case source.KindFile:
		return textutil.FormatSize(c.Meta.Size)
	case source.KindCommand, source.KindPane:
		return textutil.Sanitize(c.Meta.Description)
	}
	return ""
}

// drawStatusLine renders the bottom line: loading indicator, the pane status
// or the selected path, with key hints on the right when there is room.
func (r *Renderer) drawStatusLine(p *statepkg.Pane, rect Rect, footerStyle tcell.Style) {
	maxX := rect.X + rect.W
	y := rect.Y + rect.H - 1

	text, style := r.statusText(p, footerStyle)
	text = textutil.Sanitize(text)

	help := buildFooterHelpText(p)
	helpWidth := r.measureTextWidth(help)
	textWidth := r.measureTextWidth(text)
	if help != "" && textWidth+helpWidth+2 > rect.W {
		help = ""
	}

	room := rect.W
	if help != "" {
		room -= helpWidth
	}
	if textWidth > room {
		text = textutil.TruncateLeft(text, room)
	}

	x := r.drawTextLine(rect.X, y, room, text, style)
	r.fill(x, maxX, y, footerStyle)
	if help != "" {
		r.drawTextLine(maxX-helpWidth, y, helpWidth, help, footerStyle.Dim(true))
	}
}

func (r *Renderer) statusText(p *statepkg.Pane, footerStyle tcell.Style) (string, tcell.Style) {
	status := p.Status()
	if p.Loading() {
		text := string(spinnerFrames[r.tick%len(spinnerFrames)]) + " " + loadingIndicator
		if pending := p.PendingScope(); !pending.IsZero() && !pending.Static {
			text += " " + pending.Path
		}
		if !status.IsZero() {
			text += "  " + status.Text
		}
		return text, footerStyle.Dim(true)
	}

	if !status.IsZero() {
		switch status.Level {
		case statepkg.StatusError:
			return status.Text, footerStyle.Foreground(r.theme.ErrorFg)
		case statepkg.StatusWarn:
			return status.Text, footerStyle.Foreground(r.theme.WarnFg)
		default:
			return status.Text, footerStyle
		}
	}

	selected, ok := p.Selected()
	if !ok {
		return "", footerStyle
	}
	if p.Kind() == statepkg.PanePalette {
		return selected.Meta.Description, footerStyle
	}
	return selected.Key, footerStyle
}

// ListIndexAt maps a screen row inside rect to a projection index.
func ListIndexAt(p *statepkg.Pane, rect Rect, y int) (int, bool) {
	row := y - (rect.Y + 2)
	if row < 0 || y >= rect.Y+rect.H-1 {
		return 0, false
	}
	idx := p.ScrollOffset() + row
	if idx >= len(p.Projection().Items) {
		return 0, false
	}
	return idx, true
}
