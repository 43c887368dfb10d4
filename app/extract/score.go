package extract

import (
	"strings"
)

// TravelKeywords is the fixed topical keyword list. Each match adds 5 points
// to the quality score; the news filterer uses the same list as its topical
// gate.
var TravelKeywords = []string{
	"travel", "flight", "airline", "airport", "hotel", "resort",
	"destination", "tourism", "tourist", "vacation", "holiday",
	"cruise", "beach", "island", "trip", "tour", "itinerary",
	"passport", "visa", "adventure",
}

// Phrases that indicate the page served an interstitial or paywall instead of
// the article. Each match costs 10 points and disqualifies the extraction.
var negativeIndicators = []string{
	"please enable cookies",
	"enable javascript",
	"javascript is disabled",
	"javascript is required",
	"browser is not supported",
	"accept all cookies",
	"subscribe to continue",
	"subscribe to read",
	"sign up to read",
	"sign in to continue",
}

// scoreQuality computes the 0-100 confidence that content is genuine article
// body. Additive bands, clamped at the end.
func scoreQuality(content, title string) int {
	score := 0

	switch length := len(content); {
	case length > 1000:
		score += 30
	case length > 500:
		score += 20
	case length > 200:
		score += 10
	}

	switch words := len(strings.Fields(content)); {
	case words > 300:
		score += 25
	case words > 150:
		score += 15
	case words > 75:
		score += 10
	}

	switch sentences := sentenceCount(content); {
	case sentences > 10:
		score += 15
	case sentences > 5:
		score += 10
	}

	if len(title) > 10 {
		score += 10
	}

	lower := strings.ToLower(content)
	for _, keyword := range TravelKeywords {
		if strings.Contains(lower, keyword) {
			score += 5
		}
	}
	for _, phrase := range negativeIndicators {
		if strings.Contains(lower, phrase) {
			score -= 10
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

func sentenceCount(content string) int {
	count := 0
	for _, fragment := range strings.FieldsFunc(content, isSentenceTerminal) {
		if strings.TrimSpace(fragment) != "" {
			count++
		}
	}
	return count
}

// passesGate decides Success: enough content, enough words, and no
// interstitial phrase. Separate from the quality score.
func passesGate(content string, wordCount int) bool {
	if len(content) <= minContentLength || wordCount <= minWordCount {
		return false
	}
	lower := strings.ToLower(content)
	for _, phrase := range negativeIndicators {
		if strings.Contains(lower, phrase) {
			return false
		}
	}
	return true
}
