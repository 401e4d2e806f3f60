// Package rawfeed parses keyword exports saved from third-party research
// portals. Exports arrive as plain HTML tables, so parsing stays lenient:
// rows that do not yield both a keyword and a volume are skipped instead of
// failing the whole import.
package rawfeed

import (
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/turtacn/KeyRank-Intelligence/pkg/errors"
)

// Keyword is one parsed row of a portal export.
type Keyword struct {
	Keyword      string `json:"keyword"`
	SearchVolume int    `json:"search_volume"`
}

// ParseMagnetExport extracts keyword and volume pairs from a saved research
// portal HTML export. The first table whose header names both a keyword
// column and a volume column is used. Duplicate keywords are dropped
// case-insensitively keeping the first occurrence, rows below minVolume are
// filtered out, and the result is sorted by volume descending.
func ParseMagnetExport(r io.Reader, minVolume int) ([]Keyword, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeFeedParseFailed, "reading keyword export")
	}

	var (
		keywords []Keyword
		found    bool
	)
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		rows, ok := parseTable(table)
		if !ok {
			return true
		}
		keywords, found = rows, true
		return false
	})
	if !found {
		return nil, errors.New(errors.ErrCodeFeedNoTable, "export contains no keyword table")
	}

	keywords = dedupeKeywords(keywords)
	if minVolume > 0 {
		kept := keywords[:0]
		for _, k := range keywords {
			if k.SearchVolume >= minVolume {
				kept = append(kept, k)
			}
		}
		keywords = kept
	}
	sort.SliceStable(keywords, func(i, j int) bool {
		return keywords[i].SearchVolume > keywords[j].SearchVolume
	})
	return keywords, nil
}

// parseTable locates the header row and reads every row after it. Tables
// whose header does not name both columns are rejected so the caller can
// move on to the next table in the document.
func parseTable(table *goquery.Selection) ([]Keyword, bool) {
	rows := table.Find("tr")

	headerIdx, keywordCol, volumeCol := -1, -1, -1
	rows.EachWithBreak(func(i int, row *goquery.Selection) bool {
		kc, vc := headerColumns(rowCells(row))
		if kc < 0 || vc < 0 {
			return true
		}
		headerIdx, keywordCol, volumeCol = i, kc, vc
		return false
	})
	if headerIdx < 0 {
		return nil, false
	}

	keywords := make([]Keyword, 0, rows.Length())
	rows.Each(func(i int, row *goquery.Selection) {
		if i <= headerIdx {
			return
		}
		cells := rowCells(row)
		if keywordCol >= len(cells) || volumeCol >= len(cells) {
			return
		}
		keyword := cells[keywordCol]
		if keyword == "" {
			return
		}
		volume, ok := parseVolume(cells[volumeCol])
		if !ok || volume < 0 {
			return
		}
		keywords = append(keywords, Keyword{Keyword: keyword, SearchVolume: volume})
	})
	return keywords, true
}

// headerColumns scans one row's cells for a keyword column and a volume
// column. Portals label the volume column differently ("Search Volume",
// "Avg. Monthly Searches"), so the match is a substring check.
func headerColumns(cells []string) (keywordCol, volumeCol int) {
	keywordCol, volumeCol = -1, -1
	for i, cell := range cells {
		label := strings.ToLower(cell)
		switch {
		case keywordCol < 0 && strings.Contains(label, "keyword"):
			keywordCol = i
		case volumeCol < 0 && (strings.Contains(label, "volume") || strings.Contains(label, "searches")):
			volumeCol = i
		}
	}
	return keywordCol, volumeCol
}

func rowCells(row *goquery.Selection) []string {
	var cells []string
	row.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		cells = append(cells, strings.TrimSpace(cell.Text()))
	})
	return cells
}

// parseVolume reads the loose numeric formats portals emit: "12,345",
// "10,000+", "1.2K", "3.4M".
func parseVolume(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "+")
	if s == "" {
		return 0, false
	}

	multiplier := 1.0
	switch s[len(s)-1] {
	case 'k', 'K':
		multiplier = 1_000
		s = strings.TrimSpace(s[:len(s)-1])
	case 'm', 'M':
		multiplier = 1_000_000
		s = strings.TrimSpace(s[:len(s)-1])
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int(math.Round(v * multiplier)), true
}

func dedupeKeywords(keywords []Keyword) []Keyword {
	seen := make(map[string]struct{}, len(keywords))
	out := keywords[:0]
	for _, k := range keywords {
		key := strings.ToLower(k.Keyword)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, k)
	}
	return out
}
