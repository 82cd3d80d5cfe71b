package services

import (
	"testing"

	"pdf-insight-nexus/internal/config"
	"pdf-insight-nexus/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testExtractor() *PDFExtractor {
	return NewPDFExtractor(&config.Config{
		MinHeadingLength:  4,
		MaxHeadingWords:   20,
		MinFontSize:       10,
		TitleYThreshold:   200,
		MaxSnippets:       3,
		SectionContentCap: 500,
	})
}

func TestDetermineHeadingLevelOutlinePrefixes(t *testing.T) {
	e := testExtractor()

	// Outline numbering wins regardless of font size.
	cases := []struct {
		text string
		want models.HeadingLevel
	}{
		{"1.2.3 Overview", models.HeadingH3},
		{"2.4.1.7 Detailed Breakdown", models.HeadingH3},
		{"1.2 Scope", models.HeadingH2},
		{"1 Introduction", models.HeadingH1},
		{"A. Annexure Details", models.HeadingH1},
		{"IV Results", models.HeadingH1},
	}
	for _, tc := range cases {
		level, ok := e.DetermineHeadingLevel(tc.text, 8, 10, false)
		require.True(t, ok, tc.text)
		assert.Equal(t, tc.want, level, tc.text)
	}
}

func TestDetermineHeadingLevelFontRatios(t *testing.T) {
	e := testExtractor()
	const body = 10.0

	level, ok := e.DetermineHeadingLevel("Methodology Overview", 12, body, true)
	require.True(t, ok)
	assert.Equal(t, models.HeadingH1, level, "bold at 1.2x body")

	level, ok = e.DetermineHeadingLevel("Methodology Overview", 10.6, body, true)
	require.True(t, ok)
	assert.Equal(t, models.HeadingH2, level, "bold at 1.05x body")

	level, ok = e.DetermineHeadingLevel("Methodology Overview", 15, body, false)
	require.True(t, ok)
	assert.Equal(t, models.HeadingH1, level, "plain at 1.5x body")

	level, ok = e.DetermineHeadingLevel("Methodology Overview", 12, body, false)
	require.True(t, ok)
	assert.Equal(t, models.HeadingH2, level, "plain at 1.2x body")

	_, ok = e.DetermineHeadingLevel("Methodology Overview", 10.4, body, false)
	assert.False(t, ok, "plain text near body size is not a heading")
}

func TestIsProbableHeading(t *testing.T) {
	e := testExtractor()
	const body = 10.0

	assert.True(t, e.IsProbableHeading("Coastal Adventures", 12, body, false))
	assert.True(t, e.IsProbableHeading("Culinary Experiences in Provence", 14, body, true))

	assert.False(t, e.IsProbableHeading("12/05/2023", 14, body, true), "date")
	assert.False(t, e.IsProbableHeading("Page 3", 14, body, true), "page furniture")
	assert.False(t, e.IsProbableHeading("OVERVIEW", 14, body, true), "single all-caps word")
	assert.False(t, e.IsProbableHeading("• Coastal item", 14, body, true), "bullet")
	assert.False(t, e.IsProbableHeading("Visit WWW.EXAMPLE.COM", 14, body, true), "url")
	assert.False(t, e.IsProbableHeading("Call 12345 now", 14, body, true), "long digit run")
	assert.False(t, e.IsProbableHeading("Introduction", 14, body, true), "boilerplate label")
	assert.False(t, e.IsProbableHeading("Signed below today:", 14, body, true), "short colon label")
	assert.False(t, e.IsProbableHeading("Table 4", 14, body, true), "caption")
	assert.False(t, e.IsProbableHeading("Plain body text line", 10, body, false), "body-sized text")
	assert.False(t, e.IsProbableHeading("abc", 14, body, true), "too short")
}

func TestEstimateBodyFontSize(t *testing.T) {
	e := testExtractor()

	blocks := []models.TextBlock{
		{Text: "Heading Here", FontSize: 14, Page: 1, Y0: 50},
		{Text: "body", FontSize: 10, Page: 1, Y0: 80},
		{Text: "body", FontSize: 10, Page: 1, Y0: 100},
		{Text: "body", FontSize: 10, Page: 2, Y0: 60},
		{Text: "body", FontSize: 10, Page: 2, Y0: 90},
		{Text: "body", FontSize: 10, Page: 2, Y0: 120},
	}
	assert.InDelta(t, 10.0, e.EstimateBodyFontSize(blocks), 1e-9)
}

func TestEstimateBodyFontSizeFloor(t *testing.T) {
	e := testExtractor()

	// Everything below the measurable band falls back to the floor.
	tiny := []models.TextBlock{
		{Text: "fine print", FontSize: 6, Page: 1, Y0: 50},
		{Text: "fine print", FontSize: 6, Page: 1, Y0: 70},
	}
	assert.InDelta(t, 10.0, e.EstimateBodyFontSize(tiny), 1e-9)

	// A one-page flyer with no text below the title region uses the mode
	// over all lines instead.
	flyer := []models.TextBlock{
		{Text: "line", FontSize: 12, Page: 0, Y0: 40},
		{Text: "line", FontSize: 12, Page: 0, Y0: 60},
		{Text: "line", FontSize: 11, Page: 0, Y0: 90},
	}
	assert.InDelta(t, 12.0, e.EstimateBodyFontSize(flyer), 1e-9)
}

func TestExtractTitleMergesAdjacentLines(t *testing.T) {
	e := testExtractor()

	blocks := []models.TextBlock{
		{Text: "Comprehensive Guide to Cities", FontSize: 20, Page: 0, Y0: 50},
		{Text: "in the South of France", FontSize: 20, Page: 0, Y0: 75},
		{Text: "Some body paragraph far below the title region.", FontSize: 10, Page: 0, Y0: 320},
	}

	assert.Equal(t, "Comprehensive Guide to Cities in the South of France", e.ExtractTitle(blocks))
}

func TestExtractTitleFiltersNoise(t *testing.T) {
	e := testExtractor()

	blocks := []models.TextBlock{
		{Text: "12/03/2024", FontSize: 20, Page: 0, Y0: 40},
		{Text: "Employee Name and Address", FontSize: 20, Page: 0, Y0: 70},
		{Text: "Quarterly Performance Review Report", FontSize: 19, Page: 0, Y0: 100},
	}

	assert.Equal(t, "Quarterly Performance Review Report", e.ExtractTitle(blocks))
}

func TestAssembleSections(t *testing.T) {
	e := testExtractor()
	title := "Travel Guide South France"

	blocks := []models.TextBlock{
		{Text: title, FontSize: 20, Page: 0, Y0: 50},
		{Text: "Coastal Adventures", FontSize: 14, Page: 1, Y0: 80, Bold: true},
		{Text: "The coastline offers many beaches.", FontSize: 10, Page: 1, Y0: 100},
		{Text: "Snorkeling and diving are popular activities.", FontSize: 10, Page: 1, Y0: 120},
		{Text: "Coastal Adventures", FontSize: 14, Page: 1, Y0: 400, Bold: true},
		{Text: "More shoreline notes.", FontSize: 10, Page: 1, Y0: 420},
		{Text: "Nightlife and Entertainment", FontSize: 14, Page: 10, Y0: 60, Bold: true},
		{Text: "Bars and clubs stay open late.", FontSize: 10, Page: 10, Y0: 90},
		{Text: "filler body line", FontSize: 10, Page: 2, Y0: 60},
		{Text: "filler body line", FontSize: 10, Page: 2, Y0: 80},
	}

	sections := e.assembleSections(blocks, title)
	require.Len(t, sections, 2, "duplicate heading dedupes, title line never becomes a section")

	assert.Equal(t, "Coastal Adventures", sections[0].Heading)
	assert.Equal(t, models.HeadingH1, sections[0].HeadingLevel)
	assert.Equal(t, 2, sections[0].PageNumber, "pages are 1-indexed")
	assert.Contains(t, sections[0].Content, "coastline")

	assert.Equal(t, "Nightlife and Entertainment", sections[1].Heading)
	assert.Equal(t, 11, sections[1].PageNumber)
}

func TestShortTitleWithNoHeadings(t *testing.T) {
	e := testExtractor()

	// Single page: one prominent two-word line, plain body text below.
	blocks := []models.TextBlock{
		{Text: "Trip Guide", FontSize: 24, Page: 0, Y0: 60},
		{Text: "Day one starts at the harbor.", FontSize: 10, Page: 0, Y0: 220},
		{Text: "Day two covers the old town.", FontSize: 10, Page: 0, Y0: 240},
		{Text: "Day three is for the museums.", FontSize: 10, Page: 0, Y0: 260},
		{Text: "Day four is a free day.", FontSize: 10, Page: 0, Y0: 280},
		{Text: "Day five heads home.", FontSize: 10, Page: 0, Y0: 300},
	}

	title := e.ExtractTitle(blocks)
	assert.Equal(t, "Trip Guide", title, "short titles fall back to the most prominent line")
	assert.Empty(t, e.assembleSections(blocks, title), "no heading besides the title itself")
}

func TestAssembleSectionsDeterministic(t *testing.T) {
	e := testExtractor()
	title := "Travel Guide South France"

	blocks := []models.TextBlock{
		{Text: title, FontSize: 20, Page: 0, Y0: 50},
		{Text: "Coastal Adventures", FontSize: 14, Page: 1, Y0: 80, Bold: true},
		{Text: "The coastline offers many beaches.", FontSize: 10, Page: 1, Y0: 100},
		{Text: "Nightlife and Entertainment", FontSize: 14, Page: 2, Y0: 60, Bold: true},
		{Text: "Bars and clubs stay open late.", FontSize: 10, Page: 2, Y0: 90},
		{Text: "more body", FontSize: 10, Page: 2, Y0: 120},
		{Text: "more body", FontSize: 10, Page: 2, Y0: 140},
	}

	first := e.assembleSections(blocks, title)
	second := e.assembleSections(blocks, title)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Heading, second[i].Heading)
		assert.Equal(t, first[i].PageNumber, second[i].PageNumber)
		assert.Equal(t, first[i].Content, second[i].Content)
	}
}

func TestSectionsFromPages(t *testing.T) {
	e := testExtractor()

	blocks := []models.TextBlock{
		{Text: "First page opening line", FontSize: 10, Page: 0, Y0: 40},
		{Text: "and a good amount of additional body text on the page", FontSize: 10, Page: 0, Y0: 60},
		{Text: "tiny", FontSize: 10, Page: 1, Y0: 40},
	}

	sections := e.SectionsFromPages(blocks)
	require.Len(t, sections, 1, "pages with almost no text are skipped")
	assert.Equal(t, "First page opening line", sections[0].Heading)
	assert.Equal(t, 1, sections[0].PageNumber)
}
