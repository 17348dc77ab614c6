package finance

import "strings"

// Category is the canonical (English) key stored for an entry.
type Category string

const (
	Salary     Category = "Salary"
	Gift       Category = "Gift"
	Investment Category = "Inves"
	Other      Category = "Other"
	Reward     Category = "Reward"
	Saving     Category = "Saving"

	Food      Category = "Food"
	Transport Category = "Transport"
	Rent      Category = "Rent"
	Play      Category = "Play"
	Health    Category = "Health"
	Transfer  Category = "Transfer"
	Study     Category = "Study"
)

// Language is a display language for labels and messages.
type Language string

const (
	English Language = "en"
	Chinese Language = "zh"
)

// ParseLanguage falls back to English for anything it does not know.
func ParseLanguage(s string) Language {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "zh", "zh-cn", "zh_cn", "cn", "chinese":
		return Chinese
	default:
		return English
	}
}

// ValidLanguage reports whether s names a supported language.
func ValidLanguage(s string) bool {
	switch Language(s) {
	case English, Chinese:
		return true
	}
	return false
}

var (
	incomeCategories  = []Category{Salary, Gift, Investment, Other, Reward, Saving}
	expenseCategories = []Category{Food, Transport, Rent, Play, Health, Transfer, Study}
)

var labels = map[Language]map[Category]string{
	English: {
		Salary:     "Salary",
		Gift:       "Gift",
		Investment: "Inves",
		Other:      "Other",
		Reward:     "Reward",
		Saving:     "Saving",
		Food:       "Food",
		Transport:  "Transport",
		Rent:       "Rent",
		Play:       "Play",
		Health:     "Health",
		Transfer:   "Transfer",
		Study:      "Study",
	},
	Chinese: {
		Salary:     "薪水",
		Gift:       "礼物",
		Investment: "投资",
		Other:      "其他",
		Reward:     "奖励",
		Saving:     "储蓄",
		Food:       "食品",
		Transport:  "交通",
		Rent:       "租金",
		Play:       "娱乐",
		Health:     "健康",
		Transfer:   "转账",
		Study:      "学习",
	},
}

// 中文别名（历史数据里出现过的写法）
var aliases = map[string]Category{
	"食物":         Food,
	"investment": Investment,
}

// reverse index: any known label or key -> canonical key
var canonical = buildCanonical()

func buildCanonical() map[string]Category {
	m := make(map[string]Category)
	for _, byCat := range labels {
		for cat, label := range byCat {
			m[strings.ToLower(string(cat))] = cat
			m[strings.ToLower(label)] = cat
		}
	}
	for alias, cat := range aliases {
		m[strings.ToLower(alias)] = cat
	}
	return m
}

// Normalize maps a stored category in either language to its canonical key.
// Unknown names come back unchanged.
func Normalize(name string) Category {
	trimmed := strings.TrimSpace(name)
	if c, ok := canonical[strings.ToLower(trimmed)]; ok {
		return c
	}
	return Category(trimmed)
}

// Label returns the localized name of c, or c itself when there is none.
func Label(c Category, lang Language) string {
	if byCat, ok := labels[lang]; ok {
		if l, ok := byCat[c]; ok {
			return l
		}
	}
	return string(c)
}

// CategoriesFor returns the allow-list for a direction.
func CategoriesFor(dir Direction) []Category {
	src := expenseCategories
	if dir == Income {
		src = incomeCategories
	}
	out := make([]Category, len(src))
	copy(out, src)
	return out
}

// Allowed reports whether c is in the allow-list of dir.
func Allowed(c Category, dir Direction) bool {
	for _, a := range CategoriesFor(dir) {
		if a == c {
			return true
		}
	}
	return false
}
