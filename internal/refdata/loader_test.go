package refdata

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/korean"
)

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestLoadBatteryBinsLocalizedHeaders(t *testing.T) {
	csvData := "지역, 위치 ,운영시간,연락처\n" +
		"서울 관악구 봉천동,주민센터 앞,09:00-18:00,02-123-4567\n" +
		"서울 구로구 구로동,구청 입구,,\n" +
		",비어있는 지역,,\n"

	path := writeTemp(t, "bins.csv", []byte(csvData))
	bins, err := LoadBatteryBins(path)
	if err != nil {
		t.Fatalf("LoadBatteryBins: %v", err)
	}

	if len(bins) != 2 {
		t.Fatalf("loaded %d rows, want 2 (empty-region row skipped)", len(bins))
	}
	if bins[0].Region != "서울 관악구 봉천동" || bins[0].Location != "주민센터 앞" {
		t.Fatalf("unexpected first row: %+v", bins[0])
	}
	if bins[0].OpeningHours != "09:00-18:00" || bins[0].Contact != "02-123-4567" {
		t.Fatalf("unexpected first row details: %+v", bins[0])
	}
}

func TestLoadBatteryBinsEnglishFallbackHeaders(t *testing.T) {
	csvData := "address,location\nSeoul Gwanak-gu,Town hall\n"
	path := writeTemp(t, "bins.csv", []byte(csvData))

	bins, err := LoadBatteryBins(path)
	if err != nil {
		t.Fatalf("LoadBatteryBins: %v", err)
	}
	if len(bins) != 1 || bins[0].Region != "Seoul Gwanak-gu" {
		t.Fatalf("unexpected rows: %+v", bins)
	}
}

func TestLoadWasteFeesEUCKR(t *testing.T) {
	utf8Data := "지역,품목,규격,수수료\n관악구,장롱,대형,8000\n관악구,장롱,소형,5000\n"
	encoded, err := korean.EUCKR.NewEncoder().Bytes([]byte(utf8Data))
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	path := writeTemp(t, "fees.csv", encoded)
	fees, err := LoadWasteFees(path)
	if err != nil {
		t.Fatalf("LoadWasteFees: %v", err)
	}

	if len(fees) != 2 {
		t.Fatalf("loaded %d rows, want 2", len(fees))
	}
	if fees[0].Region != "관악구" || fees[0].Item != "장롱" || fees[0].Fee != "8000" {
		t.Fatalf("unexpected first row: %+v", fees[0])
	}
	if fees[1].Specification != "소형" {
		t.Fatalf("unexpected second row: %+v", fees[1])
	}
}

func TestLoadWasteFeesMissingRequiredColumn(t *testing.T) {
	path := writeTemp(t, "fees.csv", []byte("지역,수수료\n관악구,8000\n"))
	if _, err := LoadWasteFees(path); err == nil {
		t.Fatalf("expected error for missing item column")
	}
}

func TestLoadBatteryBinsMissingFile(t *testing.T) {
	if _, err := LoadBatteryBins(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
