package enums

import "testing"

func TestParseCardConditionIgnoresCase(t *testing.T) {
	got, err := ParseCardCondition(" near_mint ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != CardConditionNearMint {
		t.Fatalf("expected NEAR_MINT, got %s", got)
	}
	if _, err := ParseCardCondition("SHINY"); err == nil {
		t.Fatalf("expected error for unknown condition")
	}
}

func TestCardConditionRankFollowsGradingScale(t *testing.T) {
	conds := CardConditions()
	if len(conds) != 7 {
		t.Fatalf("expected 7 conditions, got %d", len(conds))
	}
	for i := 1; i < len(conds); i++ {
		if conds[i-1].Rank() >= conds[i].Rank() {
			t.Fatalf("%s should rank before %s", conds[i-1], conds[i])
		}
	}
	if CardCondition("UNKNOWN").Rank() != len(conds) {
		t.Fatalf("unknown condition should rank last")
	}
	if CardConditionLightPlayed.Label() != "Light Played" {
		t.Fatalf("unexpected label %q", CardConditionLightPlayed.Label())
	}
}

func TestParseUserRole(t *testing.T) {
	if r, err := ParseUserRole("ADMIN"); err != nil || r != UserRoleAdmin {
		t.Fatalf("expected ADMIN, got %s (%v)", r, err)
	}
	if _, err := ParseUserRole("admin"); err == nil {
		t.Fatalf("roles are case sensitive")
	}
}

func TestParseSortInputs(t *testing.T) {
	field, err := ParseCardSortField("card_number")
	if err != nil || field != CardSortFieldCardNumber {
		t.Fatalf("expected CARD_NUMBER, got %s (%v)", field, err)
	}
	if _, err := ParseCardSortField("POPULARITY"); err == nil {
		t.Fatalf("expected error for unknown sort field")
	}
	order, err := ParseSortOrder("desc")
	if err != nil || order != SortOrderDesc {
		t.Fatalf("expected DESC, got %s (%v)", order, err)
	}
	if _, err := ParseSortOrder("sideways"); err == nil {
		t.Fatalf("expected error for unknown sort order")
	}
}
