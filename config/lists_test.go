package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeList(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write list %s: %v", name, err)
	}
}

func TestLoadTickerLists(t *testing.T) {
	dir := t.TempDir()
	writeList(t, dir, "growth.txt", "aapl\nMSFT\n\nNVDA\n")
	writeList(t, dir, "value.txt", "msft\nBRK.B\n# comment\n")

	lists, err := LoadTickerLists(dir, "")
	if err != nil {
		t.Fatalf("LoadTickerLists failed: %v", err)
	}
	if len(lists.Lists) != 2 {
		t.Fatalf("expected 2 lists, got %d", len(lists.Lists))
	}
	growth := lists.Lists["growth"]
	if len(growth) != 3 || growth[0] != "AAPL" || growth[2] != "NVDA" {
		t.Errorf("unexpected growth list: %v", growth)
	}
	value := lists.Lists["value"]
	if len(value) != 2 || value[1] != "BRK-B" {
		t.Errorf("unexpected value list: %v", value)
	}
}

func TestTickerListsUnique(t *testing.T) {
	lists := &TickerLists{Lists: map[string][]string{
		"a": {"AAPL", "MSFT"},
		"b": {"MSFT", "NVDA"},
	}}
	unique := lists.Unique()
	if len(unique) != 3 {
		t.Fatalf("expected 3 unique tickers, got %v", unique)
	}
	// sorted for deterministic processing order
	if unique[0] != "AAPL" || unique[1] != "MSFT" || unique[2] != "NVDA" {
		t.Errorf("unexpected order: %v", unique)
	}
}

func TestLoadTickerListsFallbackFile(t *testing.T) {
	dir := t.TempDir()
	fallback := filepath.Join(dir, "tickers.txt")
	if err := os.WriteFile(fallback, []byte("aapl\nbrk.b\n"), 0o644); err != nil {
		t.Fatalf("write fallback: %v", err)
	}

	lists, err := LoadTickerLists(filepath.Join(dir, "missing-lists"), fallback)
	if err != nil {
		t.Fatalf("LoadTickerLists failed: %v", err)
	}
	all := lists.Lists["all"]
	if len(all) != 2 || all[0] != "AAPL" || all[1] != "BRK-B" {
		t.Errorf("unexpected fallback list: %v", all)
	}
}

func TestLoadTickerListsNothingConfigured(t *testing.T) {
	dir := t.TempDir()
	lists, err := LoadTickerLists(filepath.Join(dir, "missing"), filepath.Join(dir, "absent.txt"))
	if err != nil {
		t.Fatalf("LoadTickerLists failed: %v", err)
	}
	if len(lists.Unique()) != 0 {
		t.Errorf("expected empty universe, got %v", lists.Unique())
	}
}
