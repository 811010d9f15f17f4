package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// ExtractHours pulls the hour labels out of the fixed time column of a
// results page. The container must be present; a page without it is treated
// as an extraction failure.
func ExtractHours(doc *html.Node) ([]string, error) {
	container := findElement(doc, "div", "fixed-column", "js-table-times")
	if container == nil {
		return nil, fmt.Errorf("hours container not found: %w", ErrExtraction)
	}

	list := findElement(container, "ul")
	if list == nil {
		return nil, fmt.Errorf("hours list not found: %w", ErrExtraction)
	}

	var hours []string
	for _, item := range findElements(list, "li") {
		anchor := findElement(item, "a")
		if anchor == nil {
			return nil, fmt.Errorf("hour label anchor not found: %w", ErrExtraction)
		}
		hours = append(hours, strings.TrimSpace(nodeText(anchor)))
	}

	return hours, nil
}

// ExtractContinuousHours interleaves each top-level hour block with the
// sub-interval blocks that follow it in document order. Mid-granularity
// blocks a market does not publish are simply absent. A container with no
// hour blocks yields an empty slice, not an error.
func ExtractContinuousHours(doc *html.Node) ([]string, error) {
	container := findElement(doc, "div", "fixed-column", "js-table-times")
	if container == nil {
		return nil, fmt.Errorf("hours container not found: %w", ErrExtraction)
	}

	intervals := []string{}
	for _, block := range findElements(container, "li") {
		if !hasClass(block, "child") {
			continue
		}

		anchor := findElement(block, "a")
		if anchor == nil {
			return nil, fmt.Errorf("hour block anchor not found: %w", ErrExtraction)
		}
		intervals = append(intervals, strings.TrimSpace(nodeText(anchor)))

		for sibling := nextElementSibling(block); sibling != nil; sibling = nextElementSibling(sibling) {
			if hasClass(sibling, "child") {
				break
			}
			if !hasClass(sibling, "lvl-1") && !hasClass(sibling, "lvl-2") {
				continue
			}
			anchor := findElement(sibling, "a")
			if anchor == nil {
				return nil, fmt.Errorf("sub-interval anchor not found: %w", ErrExtraction)
			}
			intervals = append(intervals, strings.TrimSpace(nodeText(anchor)))
		}
	}

	return intervals, nil
}

// ExtractNumericTable reads the designated results table and parses every
// cell as a number after removing thousands separators. Cells that do not
// parse are dropped, so rows hold only the values that survived.
func ExtractNumericTable(doc *html.Node) ([][]float64, error) {
	table := findElement(doc, "table", "table-01")
	if table == nil {
		return nil, fmt.Errorf("results table not found: %w", ErrExtraction)
	}

	var data [][]float64
	for _, row := range findElements(table, "tr") {
		var values []float64
		for _, cell := range findElements(row, "td") {
			text := strings.TrimSpace(nodeText(cell))
			if text == "" {
				continue
			}
			value, err := parseNumber(text)
			if err != nil {
				continue
			}
			values = append(values, value)
		}
		if len(values) > 0 {
			data = append(data, values)
		}
	}

	return data, nil
}

// ExtractContinuousTable is the position-preserving variant: cells that do
// not parse become nil instead of being dropped, because continuous tables
// have optional columns whose alignment must stay stable.
func ExtractContinuousTable(doc *html.Node) ([][]*float64, error) {
	table := findElement(doc, "table", "table-01")
	if table == nil {
		return nil, fmt.Errorf("results table not found: %w", ErrExtraction)
	}

	var data [][]*float64
	for _, row := range findElements(table, "tr") {
		var values []*float64
		for _, cell := range findElements(row, "td") {
			text := strings.TrimSpace(nodeText(cell))
			if text == "" {
				continue
			}
			value, err := parseNumber(text)
			if err != nil {
				values = append(values, nil)
				continue
			}
			parsed := value
			values = append(values, &parsed)
		}
		if len(values) > 0 {
			data = append(data, values)
		}
	}

	return data, nil
}

// ExtractBasePeak scans table rows for the Baseload and Peakload labels.
// Baseload must be numeric. Peakload may be non-numeric; the "-" the site
// shows on market holidays is preserved literally. A missing row leaves the
// corresponding cell unset.
func ExtractBasePeak(doc *html.Node) (Cell, Cell, error) {
	var baseload Cell
	var peakload Cell

	for _, row := range findElements(doc, "tr") {
		header := findElement(row, "th")
		if header == nil {
			continue
		}
		label := nodeText(header)

		if strings.Contains(label, "Baseload") {
			span := findElement(row, "span")
			if span == nil {
				return Cell{}, Cell{}, fmt.Errorf("baseload value not found: %w", ErrExtraction)
			}
			value, err := parseNumber(strings.TrimSpace(nodeText(span)))
			if err != nil {
				return Cell{}, Cell{}, fmt.Errorf("parse baseload: %w", ErrExtraction)
			}
			baseload = NumberCell(value)
		}

		if strings.Contains(label, "Peakload") {
			span := findElement(row, "span")
			if span == nil {
				return Cell{}, Cell{}, fmt.Errorf("peakload value not found: %w", ErrExtraction)
			}
			text := strings.TrimSpace(nodeText(span))
			if value, err := parseNumber(text); err == nil {
				peakload = NumberCell(value)
			} else {
				peakload = TextCell(text)
			}
		}
	}

	return baseload, peakload, nil
}

// ExtractLastUpdate finds the last-update marker, published either as a span
// or a div depending on the page variant. Callers must treat a value shorter
// than 10 characters as a failed extraction.
func ExtractLastUpdate(doc *html.Node) (string, error) {
	node := findElement(doc, "span", "last-update")
	if node == nil {
		node = findElement(doc, "div", "last-update")
	}
	if node == nil {
		return "", fmt.Errorf("last update not found: %w", ErrExtraction)
	}

	text := strings.ReplaceAll(nodeText(node), "Last update:", "")
	return strings.Join(strings.Fields(text), " "), nil
}

// ExtractTableHeaders returns the header labels of the second table row,
// which carries the per-market column set on continuous pages.
func ExtractTableHeaders(doc *html.Node) ([]string, error) {
	rows := findElements(doc, "tr")
	if len(rows) < 2 {
		return nil, fmt.Errorf("header row not found: %w", ErrExtraction)
	}

	var headers []string
	for _, cell := range findElements(rows[1], "th") {
		headers = append(headers, strings.TrimSpace(nodeText(cell)))
	}

	return headers, nil
}

// CurvePoint is one flattened point of an aggregated supply/demand curve.
// DeliveryDate comes from the embedded payload, which wins over the date the
// page was requested for.
type CurvePoint struct {
	Side         string
	DeliveryDate time.Time
	HourRange    string
	Volume       float64
	Price        float64
}

type curveSettings struct {
	Charts struct {
		Aggregated string `json:"aggregated"`
	} `json:"charts"`
}

type curveSeries struct {
	Key  string                     `json:"key"`
	Data map[string][]curveRawPoint `json:"data"`
}

type curveRawPoint struct {
	X        json.Number `json:"x"`
	Y        json.Number `json:"y"`
	DateTime string      `json:"dateTime"`
}

type curvePayload struct {
	Demand curveSeries `json:"demand"`
	Supply curveSeries `json:"supply"`
}

// ExtractAggregatedCurves locates the embedded settings JSON, decodes the
// nested aggregated-curves payload and flattens it into per-side points,
// demand first.
func ExtractAggregatedCurves(doc *html.Node) ([]CurvePoint, error) {
	script := findScript(doc, "application/json", "drupal-settings-json")
	if script == nil {
		return nil, fmt.Errorf("settings element not found: %w", ErrExtraction)
	}

	var settings curveSettings
	if err := json.Unmarshal([]byte(nodeText(script)), &settings); err != nil {
		return nil, fmt.Errorf("parse settings payload: %w", ErrExtraction)
	}
	if settings.Charts.Aggregated == "" {
		return nil, fmt.Errorf("aggregated payload is empty: %w", ErrExtraction)
	}

	var payload curvePayload
	if err := json.Unmarshal([]byte(settings.Charts.Aggregated), &payload); err != nil {
		return nil, fmt.Errorf("parse aggregated payload: %w", ErrExtraction)
	}

	var points []CurvePoint
	for _, series := range []curveSeries{payload.Demand, payload.Supply} {
		for _, key := range sortedSeriesKeys(series.Data) {
			for _, raw := range series.Data[key] {
				point, err := flattenCurvePoint(series.Key, raw)
				if err != nil {
					return nil, err
				}
				points = append(points, point)
			}
		}
	}

	return points, nil
}

func flattenCurvePoint(side string, raw curveRawPoint) (CurvePoint, error) {
	volume, err := raw.X.Float64()
	if err != nil {
		return CurvePoint{}, fmt.Errorf("parse curve volume: %w", ErrExtraction)
	}
	price, err := raw.Y.Float64()
	if err != nil {
		return CurvePoint{}, fmt.Errorf("parse curve price: %w", ErrExtraction)
	}

	parts := strings.SplitN(raw.DateTime, " (", 2)
	if len(parts) != 2 {
		return CurvePoint{}, fmt.Errorf("malformed curve timestamp %q: %w", raw.DateTime, ErrExtraction)
	}
	date, err := time.Parse("2 January 2006", parts[0])
	if err != nil {
		return CurvePoint{}, fmt.Errorf("parse curve date %q: %w", parts[0], ErrExtraction)
	}

	return CurvePoint{
		Side:         side,
		DeliveryDate: date,
		HourRange:    strings.TrimSuffix(parts[1], ")"),
		Volume:       volume,
		Price:        price,
	}, nil
}

// Series keys are hour indexes encoded as strings, so they sort numerically
// when possible to keep output order stable.
func sortedSeriesKeys(data map[string][]curveRawPoint) []string {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}

	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return keys[i] < keys[j]
	})

	return keys
}

func parseNumber(text string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(text, ",", ""), 64)
}

func findElement(root *html.Node, tag string, classes ...string) *html.Node {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if found != nil {
			return
		}
		if node.Type == html.ElementNode && node.Data == tag && hasClasses(node, classes) {
			found = node
			return
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
			if found != nil {
				return
			}
		}
	}
	walk(root)

	return found
}

func findElements(root *html.Node, tag string) []*html.Node {
	var nodes []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == tag && node != root {
			nodes = append(nodes, node)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)

	return nodes
}

func findScript(root *html.Node, scriptType string, drupalSelector string) *html.Node {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if found != nil {
			return
		}
		if node.Type == html.ElementNode && node.Data == "script" {
			if attrValue(node, "type") == scriptType && attrValue(node, "data-drupal-selector") == drupalSelector {
				found = node
				return
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
			if found != nil {
				return
			}
		}
	}
	walk(root)

	return found
}

func nextElementSibling(node *html.Node) *html.Node {
	for sibling := node.NextSibling; sibling != nil; sibling = sibling.NextSibling {
		if sibling.Type == html.ElementNode {
			return sibling
		}
	}
	return nil
}

func hasClass(node *html.Node, class string) bool {
	for _, token := range strings.Fields(attrValue(node, "class")) {
		if token == class {
			return true
		}
	}
	return false
}

func hasClasses(node *html.Node, classes []string) bool {
	for _, class := range classes {
		if !hasClass(node, class) {
			return false
		}
	}
	return true
}

func attrValue(node *html.Node, key string) string {
	for _, attr := range node.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val
		}
	}
	return ""
}

func nodeText(node *html.Node) string {
	var builder strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			builder.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)

	return builder.String()
}
