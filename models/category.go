package models

type Category struct {
	Label string `json:"label"`
	Code  string `json:"code"`
}

// Categories a post can be filed under. The code is what gets persisted
// and rendered as a hashtag on the channel.
var Categories = []Category{
	{Label: "🙏 Pray For Me", Code: "PrayForMe"},
	{Label: "📖 Bible", Code: "Bible"},
	{Label: "💼 Work and Life", Code: "WorkLife"},
	{Label: "🕊 Spiritual Life", Code: "SpiritualLife"},
	{Label: "⚔️ Christian Challenges", Code: "ChristianChallenges"},
	{Label: "❤️ Relationship", Code: "Relationship"},
	{Label: "💍 Marriage", Code: "Marriage"},
	{Label: "🧑‍🤝‍🧑 Youth", Code: "Youth"},
	{Label: "💰 Finance", Code: "Finance"},
	{Label: "🔖 Other", Code: "Other"},
}

// IsValidCategory reports whether code names a known category.
func IsValidCategory(code string) bool {
	for _, c := range Categories {
		if c.Code == code {
			return true
		}
	}
	return false
}
