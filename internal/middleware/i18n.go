// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// I18nMiddleware resolves the response language from Accept-Language and
// stores it under "lang" for handlers and the response helpers.
func I18nMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := resolveLanguage(c.GetHeader("Accept-Language"))
		c.Set("lang", lang)
		c.Header("Content-Language", lang)
		c.Next()
	}
}

// resolveLanguage picks the highest-priority tag and maps it onto a locale
// this service ships. Unknown tags fall back to English.
func resolveLanguage(header string) string {
	first := header
	if i := strings.IndexByte(first, ','); i >= 0 {
		first = first[:i]
	}
	if i := strings.IndexByte(first, ';'); i >= 0 {
		first = first[:i]
	}
	first = strings.ToLower(strings.TrimSpace(first))

	switch first {
	case "zh-tw", "zh_tw", "zh-hant":
		return "zh_TW"
	case "zh-cn", "zh_cn", "zh-hans":
		return "zh_CN"
	default:
		return "en"
	}
}
