// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package threshold

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"DRO Maximum Debt", "dro_maximum_debt"},
		{"  dro_maximum_debt  ", "dro_maximum_debt"},
		{"IVA Income Limit (£)", "iva_income_limit"},
		{"bankruptcy-asset-limit", "bankruptcy_asset_limit"},
		{"already_snake_case", "already_snake_case"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.name); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestCacheSetLookup(t *testing.T) {
	cache := NewCache()
	cache.Set("DRO Maximum Debt", Entry{Amount: 50000, Formatted: "£50,000.00", Source: "dro-manual.pdf"})

	entry, ok := cache.Lookup("dro_maximum_debt")
	if !ok {
		t.Fatal("Lookup() expected entry to be found")
	}
	if entry.Amount != 50000 {
		t.Errorf("Lookup() amount = %v, want 50000", entry.Amount)
	}

	if _, ok := cache.Lookup("iva_maximum_debt"); ok {
		t.Error("Lookup() expected missing entry, got found")
	}
}

func TestCacheLenAndSnapshot(t *testing.T) {
	cache := NewCache()
	cache.Set("a", Entry{Amount: 1})
	cache.Set("b", Entry{Amount: 2})

	if cache.Len() != 2 {
		t.Errorf("Len() = %d, want 2", cache.Len())
	}

	snapshot := cache.Snapshot()
	if len(snapshot) != 2 {
		t.Errorf("Snapshot() returned %d entries, want 2", len(snapshot))
	}

	// Mutating the snapshot must not affect the cache.
	snapshot["c"] = Entry{Amount: 3}
	if cache.Len() != 2 {
		t.Error("Snapshot() is not independent of the underlying cache")
	}
}

func TestCacheLoadSnapshot(t *testing.T) {
	cache := NewCache()
	cache.Set("stale", Entry{Amount: 1})

	cache.LoadSnapshot(map[string]Entry{
		"dro_maximum_debt": {Amount: 50000, Formatted: "£50,000.00", Source: "dro-manual.pdf"},
	})

	if _, ok := cache.Lookup("stale"); ok {
		t.Error("LoadSnapshot() expected prior entries to be replaced")
	}
	if entry, ok := cache.Lookup("dro_maximum_debt"); !ok || entry.Amount != 50000 {
		t.Error("LoadSnapshot() expected new entry to be present")
	}
}
