package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"noncore_agent/pkg/core/company"
)

// ProfileLoader scrapes facility and utilization tables from a corporate
// profile page to supplement a document loaded from file.
type ProfileLoader struct {
	client *http.Client
}

func NewProfileLoader() *ProfileLoader {
	return &ProfileLoader{client: &http.Client{Timeout: 30 * time.Second}}
}

// LoadFacilities fetches the page and extracts every facility table found.
func (l *ProfileLoader) LoadFacilities(ctx context.Context, url string) ([]company.Facility, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build profile request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile page returned status %d", resp.StatusCode)
	}
	return ParseFacilityTable(resp.Body)
}

// ParseFacilityTable extracts facilities from HTML tables whose header row
// carries a name column and a utilization column. Utilization accepts both
// "72%" and "0.72" forms.
func ParseFacilityTable(r io.Reader) ([]company.Facility, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse profile HTML: %w", err)
	}

	var facilities []company.Facility
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		cols := headerColumns(table)
		nameIdx, ok := cols["name"]
		if !ok {
			nameIdx, ok = cols["facility"]
		}
		utilIdx, utilOK := cols["utilization"]
		if !ok || !utilOK {
			return
		}
		typeIdx, hasType := cols["type"]

		table.Find("tbody tr, tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() <= nameIdx || cells.Length() <= utilIdx {
				return
			}
			name := strings.TrimSpace(cells.Eq(nameIdx).Text())
			if name == "" {
				return
			}
			util, err := parseUtilization(cells.Eq(utilIdx).Text())
			if err != nil {
				return
			}
			f := company.Facility{Name: name, Utilization: util}
			if hasType && cells.Length() > typeIdx {
				f.Type = strings.TrimSpace(cells.Eq(typeIdx).Text())
			}
			facilities = append(facilities, f)
		})
	})

	if len(facilities) == 0 {
		return nil, fmt.Errorf("no facility tables found")
	}
	return facilities, nil
}

// headerColumns maps lowercased header cell text to column index.
func headerColumns(table *goquery.Selection) map[string]int {
	cols := make(map[string]int)
	table.Find("th").Each(func(i int, th *goquery.Selection) {
		key := strings.ToLower(strings.TrimSpace(th.Text()))
		if _, exists := cols[key]; !exists {
			cols[key] = i
		}
	})
	return cols
}

func parseUtilization(text string) (float64, error) {
	text = strings.TrimSpace(text)
	percent := strings.HasSuffix(text, "%")
	text = strings.TrimSuffix(text, "%")
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, err
	}
	if percent || v > 1 {
		v /= 100
	}
	return v, nil
}
