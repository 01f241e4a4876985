package services

import (
	"testing"

	"github.com/recycleme/backend/internal/refdata"
	"github.com/recycleme/backend/pkg/helpers"
)

func testBins() []refdata.BatteryBin {
	return []refdata.BatteryBin{
		{Region: "서울 관악구 봉천동", Location: "주민센터 앞", OpeningHours: "09:00-18:00", Contact: "02-100-0001"},
		{Region: "서울 관악구 신림동", Location: "구청 입구", OpeningHours: "09:00-18:00", Contact: "02-100-0002"},
		{Region: "서울 강남구 역삼동", Location: "역삼역 2번 출구", OpeningHours: "24시간", Contact: "02-100-0003"},
		{Region: "부산 해운대구 우동", Location: "해운대구청", OpeningHours: "09:00-17:00", Contact: "051-100-0004"},
	}
}

func testFees() []refdata.WasteFee {
	return []refdata.WasteFee{
		{Region: "서울 관악구", Item: "소파", Specification: "1인용", Fee: "5000원"},
		{Region: "서울 관악구", Item: "소파", Specification: "3인용 이상", Fee: "10000원"},
		{Region: "서울 관악구", Item: "침대", Specification: "매트리스 포함", Fee: "15000원"},
		{Region: "부산 해운대구", Item: "소파", Specification: "1인용", Fee: "4000원"},
	}
}

func TestBatteryBinsRanksPartialAddress(t *testing.T) {
	svc := NewLookupService(testBins(), nil, 0.3)

	results := svc.BatteryBins(helpers.TestCtx(), "봉천동")
	if len(results) == 0 || results[0].Message != "" {
		t.Fatalf("expected matches, got %+v", results)
	}
	if results[0].Address != "서울 관악구 봉천동" {
		t.Fatalf("top match = %q, want 서울 관악구 봉천동", results[0].Address)
	}
	if results[0].Score < 0.3 {
		t.Fatalf("top score = %v, below cutoff", results[0].Score)
	}
}

func TestBatteryBinsExactMatchRanksFirst(t *testing.T) {
	svc := NewLookupService(testBins(), nil, 0.3)

	results := svc.BatteryBins(helpers.TestCtx(), "서울 관악구 신림동")
	if results[0].Address != "서울 관악구 신림동" {
		t.Fatalf("top match = %q, want exact entry", results[0].Address)
	}
	if results[0].Score != 1 {
		t.Fatalf("exact match score = %v, want 1", results[0].Score)
	}
}

func TestBatteryBinsCapsAndOrdersResults(t *testing.T) {
	svc := NewLookupService(testBins(), nil, 0.1)

	results := svc.BatteryBins(helpers.TestCtx(), "서울 관악구")
	if len(results) > lookupTopK {
		t.Fatalf("got %d results, want at most %d", len(results), lookupTopK)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Fatalf("results not ordered by score: %+v", results)
		}
	}
}

func TestBatteryBinsNormalizesWhitespace(t *testing.T) {
	svc := NewLookupService(testBins(), nil, 0.3)

	padded := svc.BatteryBins(helpers.TestCtx(), "  서울   관악구   봉천동 ")
	plain := svc.BatteryBins(helpers.TestCtx(), "서울 관악구 봉천동")
	if padded[0].Address != plain[0].Address || padded[0].Score != plain[0].Score {
		t.Fatalf("whitespace changed ranking: %+v vs %+v", padded[0], plain[0])
	}
}

func TestBatteryBinsNoMatchReturnsMessage(t *testing.T) {
	svc := NewLookupService(testBins(), nil, 0.3)

	results := svc.BatteryBins(helpers.TestCtx(), "zzzzzzzz")
	if len(results) != 1 || results[0].Message == "" {
		t.Fatalf("expected single message row, got %+v", results)
	}
}

func TestBatteryBinsEmptyQueryReturnsMessage(t *testing.T) {
	svc := NewLookupService(testBins(), nil, 0.3)

	results := svc.BatteryBins(helpers.TestCtx(), "")
	if len(results) != 1 || results[0].Message == "" {
		t.Fatalf("expected single message row, got %+v", results)
	}
}

func TestBatteryBinsMissingTable(t *testing.T) {
	svc := NewLookupService(nil, nil, 0.3)

	results := svc.BatteryBins(helpers.TestCtx(), "봉천동")
	if len(results) != 1 || results[0].Message == "" {
		t.Fatalf("expected unavailable message, got %+v", results)
	}
}

func TestWasteFeesFiltersByRegionAndExpandsSpecifications(t *testing.T) {
	svc := NewLookupService(nil, testFees(), 0.3)

	results := svc.WasteFees(helpers.TestCtx(), "관악구", "소파")
	if len(results) != 2 {
		t.Fatalf("got %d rows, want both 관악구 소파 specifications: %+v", len(results), results)
	}
	for _, r := range results {
		if r.Region != "서울 관악구" || r.Item != "소파" {
			t.Fatalf("row outside region/item filter: %+v", r)
		}
	}
}

func TestWasteFeesFallsBackToFullTable(t *testing.T) {
	svc := NewLookupService(nil, testFees(), 0.3)

	results := svc.WasteFees(helpers.TestCtx(), "제주시", "침대")
	if len(results) != 1 || results[0].Item != "침대" {
		t.Fatalf("expected full-table fallback to find 침대, got %+v", results)
	}
}

func TestWasteFeesNoMatchReturnsMessage(t *testing.T) {
	svc := NewLookupService(nil, testFees(), 0.3)

	results := svc.WasteFees(helpers.TestCtx(), "관악구", "zzzzzzzz")
	if len(results) != 1 || results[0].Message == "" {
		t.Fatalf("expected single message row, got %+v", results)
	}
}

func TestWasteFeesMissingTable(t *testing.T) {
	svc := NewLookupService(nil, nil, 0.3)

	results := svc.WasteFees(helpers.TestCtx(), "관악구", "소파")
	if len(results) != 1 || results[0].Message == "" {
		t.Fatalf("expected unavailable message, got %+v", results)
	}
}

func TestSimilarityRatio(t *testing.T) {
	if got := similarityRatio("소파", "소파"); got != 1 {
		t.Fatalf("identical strings ratio = %v, want 1", got)
	}
	if got := similarityRatio("소파", ""); got != 0 {
		t.Fatalf("empty string ratio = %v, want 0", got)
	}
	partial := similarityRatio("봉천동", "서울 관악구 봉천동")
	if partial <= 0 || partial >= 1 {
		t.Fatalf("partial overlap ratio = %v, want in (0,1)", partial)
	}
}
