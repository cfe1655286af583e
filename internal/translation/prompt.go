package translation

import (
	"fmt"
	"strings"

	"codeberg.org/snonux/mdtranslate/internal/document"
)

var languageNames = map[string]string{
	"bg": "Bulgarian",
	"de": "German",
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"it": "Italian",
	"ja": "Japanese",
	"ko": "Korean",
	"nl": "Dutch",
	"pl": "Polish",
	"pt": "Portuguese",
	"ru": "Russian",
	"sv": "Swedish",
	"uk": "Ukrainian",
	"zh": "Chinese",
}

// LanguageName returns the English name of an ISO 639-1 code, or the code
// itself when it is not known.
func LanguageName(code string) string {
	if name, ok := languageNames[strings.ToLower(code)]; ok {
		return name
	}
	return code
}

// BuildPrompt returns the instruction sent to completion style models
func BuildPrompt(sourceLang, targetLang, text string) string {
	return fmt.Sprintf(`You are a professional translator. Translate ONLY the text content from %s to %s.

CRITICAL RULES - Follow these strictly:
- Do NOT add any markdown syntax (no `+"```"+`, ---, #, *, _, etc.) that is not in the input
- Do NOT add extra paragraphs or line breaks beyond what exists in the original
- Keep inline markup such as **bold**, `+"`code`"+` and [links](url) exactly where it is
- Keep the same number of lines as the input
- Copy lines that read %s unchanged
- Translate ONLY the text content, nothing else

INPUT TEXT:
%s

OUTPUT (translated text only, no explanations):`, LanguageName(sourceLang), LanguageName(targetLang), document.ItemBreak, text)
}

// systemPrompt is used by chat style models
func systemPrompt(sourceLang, targetLang string) string {
	return fmt.Sprintf("You translate Markdown fragments from %s to %s. "+
		"Reply with the translation only. Preserve inline Markdown, line breaks and the number of lines. "+
		"Copy lines that read %s unchanged.",
		LanguageName(sourceLang), LanguageName(targetLang), document.ItemBreak)
}
