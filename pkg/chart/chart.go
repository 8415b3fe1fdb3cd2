// Package chart renders collected data as bar charts.
package chart

import (
	"fmt"
	"io"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/tgsn-co/XPlore/pkg/analysis"
	errs "github.com/tgsn-co/XPlore/pkg/errors"
	"github.com/tgsn-co/XPlore/pkg/twitter"
)

// Format selects the image encoding charts render to
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat normalizes a format name from config or a flag
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "svg", "":
		return FormatSVG, nil
	case "png":
		return FormatPNG, nil
	}
	return "", errs.Newf(errs.ErrorTypeValidation, "unsupported chart format %q", s)
}

// Extension returns the file extension for the format, dot included
func (f Format) Extension() string {
	return "." + string(f)
}

// Palette shared by every rendered chart
var (
	backgroundColor = drawing.ColorFromHex("191A19")
	barColor        = drawing.ColorFromHex("FFCC00")
	barEdgeColor    = drawing.ColorFromHex("000000")
	labelColor      = drawing.ColorFromHex("CCCCCC")
	gridColor       = drawing.ColorFromHex("737373")
)

const (
	chartHeight = 600
	barWidth    = 40
	barSpacing  = 20
	minWidth    = 800
	maxWidth    = 2400
)

// BucketLabel returns the x axis label for a count bucket start time.
// Day buckets keep the date, hour and minute buckets keep the clock time.
func BucketLabel(start, granularity string) string {
	switch granularity {
	case twitter.GranularityDay:
		if len(start) >= 10 {
			return start[:10]
		}
	case twitter.GranularityHour, twitter.GranularityMinute:
		if len(start) >= 16 {
			return start[11:16]
		}
	}
	return start
}

// RenderCounts draws tweet volume buckets as a bar chart over time
func RenderCounts(w io.Writer, buckets []twitter.CountBucket, granularity string, format Format) error {
	if len(buckets) == 0 {
		return errs.New(errs.ErrorTypeValidation, "no count buckets to chart")
	}

	bars := make([]gochart.Value, 0, len(buckets))
	for _, bucket := range buckets {
		bars = append(bars, gochart.Value{
			Value: float64(bucket.TweetCount),
			Label: BucketLabel(bucket.Start, granularity),
			Style: barStyle(),
		})
	}

	title := fmt.Sprintf("Volume of Tweets Per %s", granularity)
	return renderBars(w, title, bars, format)
}

// RenderLanguages draws language counts as a bar chart
func RenderLanguages(w io.Writer, counts []analysis.LanguageCount, format Format) error {
	if len(counts) == 0 {
		return errs.New(errs.ErrorTypeValidation, "no language counts to chart")
	}

	bars := make([]gochart.Value, 0, len(counts))
	for _, lc := range counts {
		bars = append(bars, gochart.Value{
			Value: float64(lc.Posts),
			Label: lc.Language,
			Style: barStyle(),
		})
	}

	return renderBars(w, "Posts by Language", bars, format)
}

func barStyle() gochart.Style {
	return gochart.Style{
		FillColor:   barColor,
		StrokeColor: barEdgeColor,
		StrokeWidth: 1,
	}
}

func renderBars(w io.Writer, title string, bars []gochart.Value, format Format) error {
	maxValue := 0.0
	for _, bar := range bars {
		if bar.Value > maxValue {
			maxValue = bar.Value
		}
	}

	graph := gochart.BarChart{
		Title: title,
		TitleStyle: gochart.Style{
			FontColor: barColor,
			FontSize:  12,
		},
		Background: gochart.Style{FillColor: backgroundColor},
		Canvas:     gochart.Style{FillColor: backgroundColor},
		Width:      chartWidth(len(bars)),
		Height:     chartHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		XAxis: gochart.Style{
			FontColor: labelColor,
			FontSize:  10,
		},
		YAxis: gochart.YAxis{
			Name:      "Number of Posts",
			NameStyle: gochart.Style{FontColor: labelColor, FontSize: 12},
			Style:     gochart.Style{FontColor: labelColor, FontSize: 10},
			GridMajorStyle: gochart.Style{
				StrokeColor: gridColor,
				StrokeWidth: 1,
			},
		},
		UseBaseValue: true,
		BaseValue:    0,
		Bars:         bars,
	}

	// A flat series still needs a non-degenerate axis to draw against
	if maxValue == 0 {
		graph.YAxis.Range = &gochart.ContinuousRange{Min: 0, Max: 1}
	}

	switch format {
	case FormatPNG:
		return graph.Render(gochart.PNG, w)
	default:
		return graph.Render(gochart.SVG, w)
	}
}

func chartWidth(bars int) int {
	width := 160 + bars*(barWidth+barSpacing)
	if width < minWidth {
		return minWidth
	}
	if width > maxWidth {
		return maxWidth
	}
	return width
}
