// Package refdata loads the small read-only CSV reference tables backing
// the battery-bin and waste-fee lookups. The source files come from public
// municipal datasets and arrive either UTF-8 or EUC-KR encoded, with
// localized column headers and an English fallback convention.
package refdata

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
)

type BatteryBin struct {
	Region       string
	Location     string
	OpeningHours string
	Contact      string
}

type WasteFee struct {
	Region        string
	Item          string
	Specification string
	Fee           string
}

func LoadBatteryBins(path string) ([]BatteryBin, error) {
	header, rows, err := readTable(path)
	if err != nil {
		return nil, err
	}

	region, err := requiredColumn(header, "지역", "address")
	if err != nil {
		return nil, fmt.Errorf("battery bins %s: %w", path, err)
	}
	location := optionalColumn(header, "위치", "location")
	hours := optionalColumn(header, "운영시간", "opening_hours")
	contact := optionalColumn(header, "연락처", "contact")

	bins := make([]BatteryBin, 0, len(rows))
	for _, row := range rows {
		r := field(row, region)
		if r == "" {
			continue
		}
		bins = append(bins, BatteryBin{
			Region:       r,
			Location:     field(row, location),
			OpeningHours: field(row, hours),
			Contact:      field(row, contact),
		})
	}
	return bins, nil
}

func LoadWasteFees(path string) ([]WasteFee, error) {
	header, rows, err := readTable(path)
	if err != nil {
		return nil, err
	}

	region, err := requiredColumn(header, "지역", "region")
	if err != nil {
		return nil, fmt.Errorf("waste fees %s: %w", path, err)
	}
	item, err := requiredColumn(header, "품목", "item")
	if err != nil {
		return nil, fmt.Errorf("waste fees %s: %w", path, err)
	}
	spec := optionalColumn(header, "규격", "specification")
	fee := optionalColumn(header, "수수료", "fee")

	fees := make([]WasteFee, 0, len(rows))
	for _, row := range rows {
		it := field(row, item)
		if it == "" {
			continue
		}
		fees = append(fees, WasteFee{
			Region:        field(row, region),
			Item:          it,
			Specification: field(row, spec),
			Fee:           field(row, fee),
		})
	}
	return fees, nil
}

func readTable(path string) (header []string, rows [][]string, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
	if !utf8.Valid(raw) {
		decoded, err := io.ReadAll(korean.EUCKR.NewDecoder().Reader(bytes.NewReader(raw)))
		if err != nil {
			return nil, nil, fmt.Errorf("decode %s: %w", path, err)
		}
		raw = decoded
	}

	r := csv.NewReader(bytes.NewReader(raw))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("parse %s: empty table", path)
	}

	header = make([]string, len(records[0]))
	for i, name := range records[0] {
		header[i] = strings.TrimSpace(name)
	}
	return header, records[1:], nil
}

func requiredColumn(header []string, names ...string) (int, error) {
	if idx := optionalColumn(header, names...); idx >= 0 {
		return idx, nil
	}
	return -1, fmt.Errorf("missing column %q", names[0])
}

func optionalColumn(header []string, names ...string) int {
	for _, name := range names {
		for i, h := range header {
			if h == name {
				return i
			}
		}
	}
	return -1
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
