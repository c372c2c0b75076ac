package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// StringToInt converts string to int, returns 0 if error
func StringToInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return i
}

// Initials derives an avatar label from an author name: first letter of
// each word, upper-cased, at most two characters. Empty name gives "".
func Initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			b.WriteRune(r)
			break
		}
	}
	initials := strings.ToUpper(b.String())
	runes := []rune(initials)
	if len(runes) > 2 {
		return string(runes[:2])
	}
	return initials
}

// TimeAgo renders a compact relative timestamp for comment headers.
func TimeAgo(t time.Time) string {
	seconds := int(time.Since(t).Seconds())
	if seconds < 60 {
		return "just now"
	}
	if seconds < 3600 {
		return fmt.Sprintf("%dm ago", seconds/60)
	}
	if seconds < 86400 {
		return fmt.Sprintf("%dh ago", seconds/3600)
	}
	return fmt.Sprintf("%dd ago", seconds/86400)
}

// TruncateRunes caps s at n runes.
func TruncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
