package services

import (
	"sort"
	"strings"
	"unicode"

	"github.com/fbedev/diary-ai2/internal/server/models"
)

// Word lists for mood scoring. These are a fixed compatibility contract with
// previously derived summaries; do not extend them without versioning the
// stored artifacts.
var positiveWords = []string{
	"happy", "excited", "great", "awesome", "amazing",
	"love", "joy", "good", "fantastic", "proud",
}

var negativeWords = []string{
	"sad", "tired", "angry", "upset", "bad",
	"worried", "stress", "stressed", "anxious", "frustrated",
}

// inferMood scores only user messages: each positive-word occurrence adds
// one, each negative-word occurrence subtracts one. Matching is substring
// containment on the lowercased text, so "stress" also matches "stressed".
func inferMood(messages []models.ChatMessage) string {
	score := 0
	for _, msg := range messages {
		if msg.Role != models.RoleUser {
			continue
		}
		text := strings.ToLower(msg.Text)
		for _, word := range positiveWords {
			if strings.Contains(text, word) {
				score++
			}
		}
		for _, word := range negativeWords {
			if strings.Contains(text, word) {
				score--
			}
		}
	}
	if score > 1 {
		return models.MoodPositive
	}
	if score < -1 {
		return models.MoodNegative
	}
	return models.MoodNeutral
}

// extractHighlights picks the most recent distinct trimmed user texts, up to
// limit, returned in chronological order (oldest of the chosen set first).
func extractHighlights(messages []models.ChatMessage, limit int) []string {
	var userTexts []string
	for _, msg := range messages {
		if msg.Role == models.RoleUser {
			userTexts = append(userTexts, msg.Text)
		}
	}
	if len(userTexts) == 0 {
		return nil
	}

	var highlights []string
	for i := len(userTexts) - 1; i >= 0; i-- {
		cleaned := strings.TrimSpace(userTexts[i])
		if cleaned == "" || contains(highlights, cleaned) {
			continue
		}
		highlights = append(highlights, cleaned)
		if len(highlights) == limit {
			break
		}
	}

	// reverse back to chronological order
	for i, j := 0, len(highlights)-1; i < j; i, j = i+1, j-1 {
		highlights[i], highlights[j] = highlights[j], highlights[i]
	}
	return highlights
}

// extractTags tokenizes user messages on whitespace, strips non-alphanumeric
// runes, lowercases, keeps tokens of at least 4 runes, and returns the limit
// most frequent tokens. Ties are broken by first-seen order.
func extractTags(messages []models.ChatMessage, limit int) []string {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0

	for _, msg := range messages {
		if msg.Role != models.RoleUser {
			continue
		}
		for _, word := range strings.Fields(msg.Text) {
			cleaned := cleanToken(word)
			if len([]rune(cleaned)) < 4 {
				continue
			}
			if _, seen := counts[cleaned]; !seen {
				firstSeen[cleaned] = order
				order++
			}
			counts[cleaned]++
		}
	}

	tokens := make([]string, 0, len(counts))
	for token := range counts {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if counts[tokens[i]] != counts[tokens[j]] {
			return counts[tokens[i]] > counts[tokens[j]]
		}
		return firstSeen[tokens[i]] < firstSeen[tokens[j]]
	})

	if len(tokens) > limit {
		tokens = tokens[:limit]
	}
	return tokens
}

func cleanToken(word string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(word) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
