package provider

import (
	"fmt"
	"strings"

	"codeberg.org/snonux/hanzirecall/internal/hanzi"
)

const (
	lookupSystemPrompt = "You are a Chinese language expert. Provide accurate information about Chinese characters in JSON format only."

	mnemonicSystemPrompt = "You are a creative language learning assistant specializing in creating memorable mnemonics for Chinese characters."

	lookupMaxTokens   = 200
	lookupTemperature = 0.3

	mnemonicMaxTokens   = 150
	mnemonicTemperature = 0.8
)

func lookupPrompt(glyph string) string {
	return fmt.Sprintf(`Provide information about the Chinese character '%s' as a JSON object with these keys:
- "pronunciation": the Mandarin pinyin with tone marks
- "meaning": a short English meaning
- "radical": the Kangxi radical of the character
- "radical_meaning": the English meaning of that radical
- "radical_number": the Kangxi radical number (1-214)
- "stroke_count": the total number of strokes
- "difficulty": one of "beginner", "intermediate" or "advanced"

Respond with the JSON object only.`, glyph)
}

func mnemonicPrompt(req hanzi.MnemonicRequest) string {
	return fmt.Sprintf(`Create a memorable visual connection for the Chinese character %s (pronounced "%s" meaning "%s").

Focus on:
1. Visual similarity between the character's strokes and familiar objects
2. Sound associations with the pinyin pronunciation
3. Meaning connections that create vivid mental images

Keep it to 2-3 sentences maximum. Make it creative and memorable for language learning.`,
		req.Glyph, req.Pronunciation, req.Meaning)
}

// stripCodeFence removes a surrounding ```json or ``` fence from model output
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// Drop the language tag line, e.g. "json"
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
