package render

import "strings"

const fallbackFlag = "🌐"

var languageFlags = map[string]string{
	"en": "🇺🇸",
	"pt": "🇧🇷",
	"es": "🇪🇸",
	"fr": "🇫🇷",
	"de": "🇩🇪",
	"it": "🇮🇹",
	"ja": "🇯🇵",
	"ko": "🇰🇷",
	"ru": "🇷🇺",
	"pl": "🇵🇱",
	"nl": "🇳🇱",
	"sv": "🇸🇪",
	"no": "🇳🇴",
	"da": "🇩🇰",
	"fi": "🇫🇮",
	"tr": "🇹🇷",
	"ar": "🇸🇦",
	"hi": "🇮🇳",
	"th": "🇹🇭",
	"vi": "🇻🇳",
	"id": "🇮🇩",
}

// LanguageFlag looks up code, then its primary subtag, then falls back to a globe.
func LanguageFlag(code string) string {
	if flag, ok := languageFlags[code]; ok {
		return flag
	}
	primary, _, _ := strings.Cut(code, "-")
	if flag, ok := languageFlags[primary]; ok {
		return flag
	}
	return fallbackFlag
}
