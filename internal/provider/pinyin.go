package provider

import (
	gopinyin "github.com/mozillazg/go-pinyin"
)

// Reading returns the most common tone-marked pinyin reading of glyph,
// or "" when go-pinyin knows none
func Reading(glyph string) string {
	args := gopinyin.NewArgs()
	args.Style = gopinyin.Tone

	result := gopinyin.Pinyin(glyph, args)
	if len(result) == 0 || len(result[0]) == 0 {
		return ""
	}
	return result[0][0]
}
