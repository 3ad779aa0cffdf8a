package dialogue

import (
	"strconv"
	"strings"

	"citaflow/utils"
)

// ResolveChoice matches free text against an ordered option list:
// 1-based index first, then exact label, then substring, then a word
// starting with the text. Returns the matched index or -1.
func ResolveChoice(options []string, text string) int {
	text = strings.TrimSpace(text)
	if text == "" || len(options) == 0 {
		return -1
	}

	if n, err := strconv.Atoi(text); err == nil {
		if n >= 1 && n <= len(options) {
			return n - 1
		}
		return -1
	}

	folded := utils.FoldText(text)
	for i, opt := range options {
		if utils.FoldText(opt) == folded {
			return i
		}
	}
	for i, opt := range options {
		if strings.Contains(utils.FoldText(opt), folded) {
			return i
		}
	}
	for i, opt := range options {
		for _, word := range strings.Fields(utils.FoldText(opt)) {
			if strings.HasPrefix(word, folded) {
				return i
			}
		}
	}
	return -1
}
