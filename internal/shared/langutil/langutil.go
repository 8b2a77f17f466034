// Package langutil detects the reply language for user-facing text. The
// bot, the agent and the voice endpoints all answer in English or Arabic
// depending on what the user typed.
package langutil

import "unicode"

const (
	English = "en"
	Arabic  = "ar"
)

// arabicThreshold is the share of Arabic letters above which a message is
// treated as Arabic. Mixed messages with a stray Arabic word stay English.
const arabicThreshold = 0.3

// Detect classifies text as English or Arabic by the ratio of Arabic
// letters among all letters. Text without letters defaults to English.
func Detect(text string) string {
	letters := 0
	arabic := 0
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if r >= 0x0600 && r <= 0x06FF {
			arabic++
		}
	}
	if letters == 0 {
		return English
	}
	if float64(arabic)/float64(letters) > arabicThreshold {
		return Arabic
	}
	return English
}
