package services

import (
	"context"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/recycleme/backend/internal/dto"
	"github.com/recycleme/backend/internal/refdata"
	"github.com/recycleme/backend/pkg/logger"
)

const lookupTopK = 3

// lookupService answers fuzzy searches over the read-only reference tables.
// A nil table means the backing file was missing at startup; queries against
// it return the informational not-found row rather than an error, since "no
// match" is expected steady-state behavior.
type lookupService struct {
	bins   []refdata.BatteryBin
	fees   []refdata.WasteFee
	cutoff float64
}

func NewLookupService(bins []refdata.BatteryBin, fees []refdata.WasteFee, cutoff float64) *lookupService {
	return &lookupService{
		bins:   bins,
		fees:   fees,
		cutoff: cutoff,
	}
}

// BatteryBins returns up to three rows ranked by similarity between the
// whitespace-normalized query and each row's region, ties broken by table
// order. An exact table entry always ranks first.
func (s *lookupService) BatteryBins(ctx context.Context, address string) []dto.BatteryBinResult {
	log := logger.FromContext(ctx)

	if s.bins == nil {
		return []dto.BatteryBinResult{{Message: "battery bin information is not available"}}
	}

	query := normalizeSpace(address)

	type scored struct {
		index int
		score float64
	}
	var matches []scored
	for i, bin := range s.bins {
		score := similarityRatio(query, normalizeSpace(bin.Region))
		if score >= s.cutoff {
			matches = append(matches, scored{index: i, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	if len(matches) > lookupTopK {
		matches = matches[:lookupTopK]
	}

	if len(matches) == 0 {
		log.Info("no battery bins matched", "address", address)
		return []dto.BatteryBinResult{{Message: "no battery bins found near the given address"}}
	}

	results := make([]dto.BatteryBinResult, 0, len(matches))
	for _, m := range matches {
		bin := s.bins[m.index]
		results = append(results, dto.BatteryBinResult{
			Address:      bin.Region,
			Location:     bin.Location,
			OpeningHours: bin.OpeningHours,
			Contact:      bin.Contact,
			Score:        m.score,
		})
	}
	return results
}

// WasteFees filters rows whose region contains the query region, then
// applies the same top-3 similarity match on item. The region filter is
// advisory: when it matches nothing, the whole table is searched instead,
// so a mistyped region still finds the item. Every row sharing a matched
// item string is returned.
func (s *lookupService) WasteFees(ctx context.Context, region, item string) []dto.WasteFeeResult {
	log := logger.FromContext(ctx)

	if s.fees == nil {
		return []dto.WasteFeeResult{{Message: "waste fee information is not available"}}
	}

	rows := make([]refdata.WasteFee, 0, len(s.fees))
	for _, fee := range s.fees {
		if strings.Contains(fee.Region, region) {
			rows = append(rows, fee)
		}
	}
	if len(rows) == 0 {
		rows = s.fees
	}

	type scored struct {
		item  string
		score float64
	}
	var items []scored
	seen := make(map[string]bool)
	for _, row := range rows {
		if seen[row.Item] {
			continue
		}
		seen[row.Item] = true
		score := similarityRatio(item, row.Item)
		if score >= s.cutoff {
			items = append(items, scored{item: row.Item, score: score})
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].score > items[j].score
	})
	if len(items) > lookupTopK {
		items = items[:lookupTopK]
	}

	var results []dto.WasteFeeResult
	for _, match := range items {
		for _, row := range rows {
			if row.Item == match.item {
				results = append(results, dto.WasteFeeResult{
					Region:        row.Region,
					Item:          row.Item,
					Specification: row.Specification,
					Fee:           row.Fee,
				})
			}
		}
	}

	if len(results) == 0 {
		log.Info("no waste fees matched", "region", region, "item", item)
		return []dto.WasteFeeResult{{Message: "no waste fee information found for the given region and item"}}
	}
	return results
}

// similarityRatio is the Ratcliff-Obershelp sequence ratio over characters,
// in [0,1].
func similarityRatio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	return difflib.NewMatcher(splitChars(a), splitChars(b)).Ratio()
}

func splitChars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
