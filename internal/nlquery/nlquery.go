// Package nlquery translates free-text fight questions into structured
// Query objects. Translation is best-effort with an explicit failure
// outcome: a text that maps to no recognizable constraint is rejected, never
// silently executed as a guess.
package nlquery

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/model"
)

// ErrTranslationFailed is returned when no Query can be derived from the
// input text. Callers surface this as a rejected query.
var ErrTranslationFailed = errors.New("could not translate text into a query")

// tagAliases maps each known tag to the words that select it.
var tagAliases = map[string][]string{
	"multi-kill":      {"multi", "multikill", "multi-kill", "multi-kills", "multikills"},
	"objective-fight": {"objective", "objectives", "objective-fight", "obj"},
}

// Result is a translated query plus any non-fatal warnings produced along
// the way (unknown champion names, unknown sort fields).
type Result struct {
	Query    model.Query
	Warnings []string
}

var nonWord = regexp.MustCompile(`[^a-z0-9\-\s#]`)

// Translate parses free text into a structured Query. allowedChamps is the
// lowercase champion allow-list derived from the stored summaries; when nil,
// champion detection is skipped entirely rather than guessed.
func Translate(text string, allowedChamps map[string]bool) (*Result, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return nil, fmt.Errorf("empty text: %w", ErrTranslationFailed)
	}
	s = nonWord.ReplaceAllString(s, " ")
	words := strings.Fields(s)

	res := &Result{}
	q := &res.Query

	for tag, aliases := range tagAliases {
		for _, a := range aliases {
			if containsWord(words, a) || strings.Contains(s, a) {
				if q.Tag == "" || tag < q.Tag {
					q.Tag = tag
				}
				break
			}
		}
	}

	// "top killer <champ>" claims the first champion token after "killer",
	// tolerating filler like "is" in between.
	topKillerIdx := -1
	if i := indexOf(words, "killer"); i > 0 && words[i-1] == "top" && i+1 < len(words) {
		if allowedChamps == nil {
			q.TopKillerChamp = words[i+1]
			topKillerIdx = i + 1
		} else {
			for j := i + 1; j < len(words); j++ {
				if allowedChamps[words[j]] {
					q.TopKillerChamp = words[j]
					topKillerIdx = j
					break
				}
			}
			if topKillerIdx < 0 {
				res.Warnings = append(res.Warnings, fmt.Sprintf("unknown champion for top killer: %s", words[i+1]))
			}
		}
	}

	// First remaining token found in the allow-list is the involved champion.
	if allowedChamps != nil {
		for i, w := range words {
			if i == topKillerIdx {
				continue
			}
			if allowedChamps[w] {
				q.Champion = w
				break
			}
		}
	}

	// "at least 6 participants" / "min 3 kills"
	if containsWord(words, "participants") || containsWord(words, "participant") {
		if n, ok := intAfterAny(words, "least", "min"); ok {
			q.MinParticipants = n
		}
	}
	if containsWord(words, "kills") || containsWord(words, "kill") {
		if n, ok := intAfterAny(words, "least", "min"); ok {
			q.MinKills = n
		}
	}

	// "top 3 per match"
	if n, ok := intAfter(words, "top"); ok && (containsWord(words, "match") || containsWord(words, "matches")) {
		q.TopNPerMatch = n
	}

	// "sort by kills" / "sort by participants" / "sort by score"
	if i := indexOf(words, "by"); i >= 0 && containsWord(words, "sort") && i+1 < len(words) {
		switch field := words[i+1]; field {
		case "kills", "kill":
			q.SortBy = "kills"
		case "participants", "participant":
			q.SortBy = "participants"
		case "score", "scores":
			q.SortBy = "score"
		default:
			res.Warnings = append(res.Warnings, fmt.Sprintf("unknown sort field: %s", field))
		}
	}

	if q.IsZero() {
		return nil, fmt.Errorf("no recognizable constraints in %q: %w", text, ErrTranslationFailed)
	}
	return res, nil
}

func containsWord(words []string, w string) bool { return indexOf(words, w) >= 0 }

func indexOf(words []string, w string) int {
	for i, x := range words {
		if x == w {
			return i
		}
	}
	return -1
}

// intAfter returns the integer immediately following the first occurrence
// of key, e.g. ["top","3","per","match"] with key "top" yields 3.
func intAfter(words []string, key string) (int, bool) {
	for i := 0; i < len(words)-1; i++ {
		if words[i] == key {
			if n, err := strconv.Atoi(words[i+1]); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

func intAfterAny(words []string, keys ...string) (int, bool) {
	for _, k := range keys {
		if n, ok := intAfter(words, k); ok {
			return n, true
		}
	}
	return 0, false
}
