// Package invoice extracts store name, date and total from OCR text of a
// photographed receipt. Extraction is a suggestion for the user to confirm,
// so it never fails: fields that cannot be found are left empty.
package invoice

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Fields holds the values found in a receipt.
type Fields struct {
	StoreName string `json:"store_name"`
	Date      string `json:"date"`
	Total     string `json:"total"`
}

// DefaultLabelMarkers mark lines that hold an address or a phone number
// rather than the store name.
var DefaultLabelMarkers = []string{
	"address:", "addr:", "địa chỉ", "đc:", "tel:", "phone:", "đt:", "sđt", "hotline", "mst:",
}

// DefaultTotalKeywords are ordered from the most to the least specific.
var DefaultTotalKeywords = []string{
	"tổng thanh toán",
	"total payment",
	"payment total",
	"thanh toán",
	"tổng cộng",
	"tổng tiền",
	"grand total",
	"total",
	"tong cong",
	"tong tien",
	"tổng",
	"tong",
	"totai",
	"tota1",
	"toral",
}

const (
	defaultLookahead   = 5
	defaultTailSize    = 3
	minStoreNameLength = 3
)

var (
	datePattern   = regexp.MustCompile(`\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}`)
	numberPattern = regexp.MustCompile(`\d[\d.,]*`)
)

// Extractor runs ordered extraction strategies for every field.
type Extractor struct {
	labelMarkers  []string
	totalKeywords []string
	lookahead     int
	tailSize      int

	store []strategy
	date  []strategy
	total []strategy
}

type Option func(*Extractor)

func WithLabelMarkers(markers ...string) Option {
	return func(e *Extractor) { e.labelMarkers = lowerAll(markers) }
}

func WithTotalKeywords(keywords ...string) Option {
	return func(e *Extractor) { e.totalKeywords = lowerAll(keywords) }
}

// WithLookahead sets how many leading lines may hold the store name.
func WithLookahead(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.lookahead = n
		}
	}
}

// WithTailSize sets how many trailing lines the total fallback inspects.
func WithTailSize(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.tailSize = n
		}
	}
}

func New(opts ...Option) *Extractor {
	e := &Extractor{
		labelMarkers:  lowerAll(DefaultLabelMarkers),
		totalKeywords: lowerAll(DefaultTotalKeywords),
		lookahead:     defaultLookahead,
		tailSize:      defaultTailSize,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.store = []strategy{
		{name: "first-unlabelled-line", apply: e.firstUnlabelledLine},
		{name: "first-line", apply: firstLine},
	}
	e.date = []strategy{
		{name: "delimited-date", apply: delimitedDate},
	}
	e.total = []strategy{
		{name: "keyword-scan", apply: e.keywordScan},
		{name: "tail-maximum", apply: e.tailMaximum},
	}
	return e
}

// Extract parses raw recognized text.
func (e *Extractor) Extract(text string) Fields {
	doc := newDocument(text)
	return Fields{
		StoreName: firstMatch(e.store, doc),
		Date:      firstMatch(e.date, doc),
		Total:     firstMatch(e.total, doc),
	}
}

// Extract parses text with the default extractor.
func Extract(text string) Fields {
	return defaultExtractor.Extract(text)
}

var defaultExtractor = New()

func (e *Extractor) firstUnlabelledLine(doc document) (string, bool) {
	for i, line := range doc.lines {
		if i >= e.lookahead {
			break
		}
		if containsAny(strings.ToLower(line), e.labelMarkers) {
			continue
		}
		if utf8.RuneCountInString(line) >= minStoreNameLength {
			return line, true
		}
	}
	return "", false
}

func firstLine(doc document) (string, bool) {
	if len(doc.lines) == 0 {
		return "", false
	}
	return doc.lines[0], true
}

func delimitedDate(doc document) (string, bool) {
	match := datePattern.FindString(doc.text)
	return match, match != ""
}

// keywordScan walks lines bottom-up. For every line, keywords are tried in
// priority order; a matching line yields its largest number, or the largest
// number of the following line.
func (e *Extractor) keywordScan(doc document) (string, bool) {
	for i := len(doc.lines) - 1; i >= 0; i-- {
		line := strings.ToLower(doc.lines[i])
		for _, keyword := range e.totalKeywords {
			if !strings.Contains(line, keyword) {
				continue
			}
			if n, ok := largestNumber(doc.lines[i]); ok {
				return n, true
			}
			if i+1 < len(doc.lines) {
				if n, ok := largestNumber(doc.lines[i+1]); ok {
					return n, true
				}
			}
		}
	}
	return "", false
}

func (e *Extractor) tailMaximum(doc document) (string, bool) {
	start := len(doc.lines) - e.tailSize
	if start < 0 {
		start = 0
	}
	var best string
	for _, line := range doc.lines[start:] {
		if n, ok := largestNumber(line); ok && (best == "" || greaterDigits(n, best)) {
			best = n
		}
	}
	return best, best != ""
}

// largestNumber treats '.' and ',' as thousands separators. Numbers are kept
// as digit strings, so values beyond int64 still compare correctly.
func largestNumber(line string) (string, bool) {
	var best string
	for _, token := range numberPattern.FindAllString(line, -1) {
		n := digitsOnly(token)
		if n != "" && (best == "" || greaterDigits(n, best)) {
			best = n
		}
	}
	return best, best != ""
}

// digitsOnly strips everything but digits and leading zeros.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	if trimmed := strings.TrimLeft(b.String(), "0"); trimmed != "" {
		return trimmed
	}
	return "0"
}

// greaterDigits compares two digit strings without leading zeros.
func greaterDigits(a, b string) bool {
	if len(a) != len(b) {
		return len(a) > len(b)
	}
	return a > b
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func lowerAll(values []string) []string {
	lowered := make([]string, len(values))
	for i, v := range values {
		lowered[i] = strings.ToLower(v)
	}
	return lowered
}
