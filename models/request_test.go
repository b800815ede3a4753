package models

import "testing"

func TestScrapeRequestDefaults(t *testing.T) {
	var r ScrapeRequest
	r.Defaults()
	if r.Delay == nil || *r.Delay != DefaultDelayMs {
		t.Errorf("Delay = %v, want %d", r.Delay, DefaultDelayMs)
	}
	if r.MaxPages != 1 {
		t.Errorf("MaxPages = %d, want 1", r.MaxPages)
	}
	if r.Output != "json" {
		t.Errorf("Output = %q, want json", r.Output)
	}
}

func TestScrapeRequestDefaultsKeepsExplicitZeroDelay(t *testing.T) {
	zero := 0
	r := ScrapeRequest{Delay: &zero, MaxPages: 4}
	r.Defaults()
	if r.DelayMs() != 0 {
		t.Errorf("DelayMs() = %d, want 0", r.DelayMs())
	}
	if r.MaxPages != 4 {
		t.Errorf("MaxPages = %d, want 4", r.MaxPages)
	}
}

func TestDelayMsWithoutDefaults(t *testing.T) {
	var r ScrapeRequest
	if got := r.DelayMs(); got != DefaultDelayMs {
		t.Errorf("DelayMs() = %d, want %d", got, DefaultDelayMs)
	}
}

func TestSelectorsAny(t *testing.T) {
	tests := []struct {
		name string
		sel  Selectors
		want bool
	}{
		{"empty", Selectors{}, false},
		{"blank", Selectors{Title: "  ", Price: "\t"}, false},
		{"title only", Selectors{Title: ".title"}, true},
		{"description only", Selectors{Description: "p"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sel.Any(); got != tt.want {
				t.Errorf("Any() = %v, want %v", got, tt.want)
			}
		})
	}
}
