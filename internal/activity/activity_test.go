package activity

import (
	"encoding/json"
	"testing"
)

func TestToggleAction(t *testing.T) {
	if got := ToggleAction(true); got != ActionMenuEnabled {
		t.Fatalf("expected menu_enabled, got %s", got)
	}
	if got := ToggleAction(false); got != ActionMenuDisabled {
		t.Fatalf("expected menu_disabled, got %s", got)
	}
}

func TestMenuToggleDetailsOmitsEmptyReason(t *testing.T) {
	data, err := json.Marshal(MenuToggleDetails{AdminName: "Ana"})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if _, present := decoded["reason"]; present {
		t.Fatal("empty reason should be omitted")
	}
	if decoded["admin_name"] != "Ana" {
		t.Fatalf("unexpected admin_name: %v", decoded["admin_name"])
	}
}
