package nlquery

import (
	"errors"
	"testing"

	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/model"
)

var champs = map[string]bool{
	"shaco": true, "ashe": true, "lux": true, "jinx": true,
}

func translate(t *testing.T, text string) *Result {
	t.Helper()
	res, err := Translate(text, champs)
	if err != nil {
		t.Fatalf("Translate(%q): %v", text, err)
	}
	return res
}

func TestTranslateCombinedQuery(t *testing.T) {
	res := translate(t, "show me shaco multikill fights, top 3 per match")

	want := model.Query{Champion: "shaco", Tag: "multi-kill", TopNPerMatch: 3}
	if res.Query != want {
		t.Errorf("Query = %+v, want %+v", res.Query, want)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
}

func TestTranslateTopKiller(t *testing.T) {
	res := translate(t, "fights where the top killer is shaco")
	if res.Query.TopKillerChamp != "shaco" {
		t.Errorf("TopKillerChamp = %q, want shaco", res.Query.TopKillerChamp)
	}
	// The token consumed by "top killer" must not double as the involved
	// champion filter.
	if res.Query.Champion != "" {
		t.Errorf("Champion = %q, want empty", res.Query.Champion)
	}
}

func TestTranslateTopKillerPlusChampion(t *testing.T) {
	res := translate(t, "top killer shaco fights involving ashe")
	if res.Query.TopKillerChamp != "shaco" || res.Query.Champion != "ashe" {
		t.Errorf("got %+v, want top killer shaco and champion ashe", res.Query)
	}
}

func TestTranslateThresholds(t *testing.T) {
	res := translate(t, "fights with at least 6 participants")
	if res.Query.MinParticipants != 6 {
		t.Errorf("MinParticipants = %d, want 6", res.Query.MinParticipants)
	}

	res = translate(t, "min 4 kills")
	if res.Query.MinKills != 4 {
		t.Errorf("MinKills = %d, want 4", res.Query.MinKills)
	}
}

func TestTranslateObjectiveTag(t *testing.T) {
	res := translate(t, "objective fights")
	if res.Query.Tag != "objective-fight" {
		t.Errorf("Tag = %q, want objective-fight", res.Query.Tag)
	}
}

func TestTranslateSortBy(t *testing.T) {
	res := translate(t, "shaco fights sort by participants")
	if res.Query.SortBy != "participants" {
		t.Errorf("SortBy = %q, want participants", res.Query.SortBy)
	}

	res = translate(t, "biggest fights sort by score")
	if res.Query.SortBy != "score" {
		t.Errorf("SortBy = %q, want score", res.Query.SortBy)
	}
}

func TestTranslateUnknownSortFieldWarns(t *testing.T) {
	res := translate(t, "shaco fights sort by damage")
	if res.Query.SortBy != "" {
		t.Errorf("SortBy = %q, want empty", res.Query.SortBy)
	}
	if len(res.Warnings) == 0 {
		t.Error("expected a warning for the unknown sort field")
	}
}

func TestTranslateUnknownChampionTopKillerWarns(t *testing.T) {
	res := translate(t, "top killer teemo multikill fights")
	if res.Query.TopKillerChamp != "" {
		t.Errorf("TopKillerChamp = %q, want empty", res.Query.TopKillerChamp)
	}
	if res.Query.Tag != "multi-kill" {
		t.Errorf("Tag = %q, want multi-kill (query still translates)", res.Query.Tag)
	}
	if len(res.Warnings) == 0 {
		t.Error("expected a warning for the unknown champion")
	}
}

func TestTranslateFailure(t *testing.T) {
	for _, text := range []string{
		"",
		"   ",
		"tell me about the weather",
		"garbage nonsense text",
	} {
		_, err := Translate(text, champs)
		if !errors.Is(err, ErrTranslationFailed) {
			t.Errorf("Translate(%q) error = %v, want ErrTranslationFailed", text, err)
		}
	}
}

func TestTranslateNilAllowListSkipsChampions(t *testing.T) {
	res, err := Translate("shaco multikill fights", nil)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if res.Query.Champion != "" {
		t.Errorf("Champion = %q, want empty with nil allow-list", res.Query.Champion)
	}
	if res.Query.Tag != "multi-kill" {
		t.Errorf("Tag = %q, want multi-kill", res.Query.Tag)
	}
}
