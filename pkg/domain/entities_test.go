package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestRecordMetaEnsureID(t *testing.T) {
	var meta RecordMeta
	meta.EnsureID()
	if meta.ID == uuid.Nil {
		t.Fatalf("expected id to be assigned")
	}
	id := meta.ID
	meta.EnsureID()
	if meta.ID != id {
		t.Fatalf("expected id to be stable")
	}
}

func TestJSONMapValueAndScan(t *testing.T) {
	src := JSONMap{"LeadCompanyName": "Acme", "attempt": float64(2)}
	raw, err := src.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var dst JSONMap
	if err := dst.Scan(raw); err != nil {
		t.Fatalf("scan bytes: %v", err)
	}
	if dst["LeadCompanyName"] != "Acme" || dst["attempt"] != float64(2) {
		t.Fatalf("unexpected scanned map %v", dst)
	}

	if err := dst.Scan(`{"k":"v"}`); err != nil || dst["k"] != "v" {
		t.Fatalf("scan string: %v %v", err, dst)
	}
	if err := dst.Scan(nil); err != nil || dst != nil {
		t.Fatalf("scan nil: %v %v", err, dst)
	}
	if err := dst.Scan(42); err == nil {
		t.Fatalf("expected unsupported type error")
	}

	var nilMap JSONMap
	if raw, _ := nilMap.Value(); string(raw.([]byte)) != "null" {
		t.Fatalf("expected null for nil map")
	}
}
