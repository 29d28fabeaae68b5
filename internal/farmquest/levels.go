package farmquest

import "fmt"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyEpic   Difficulty = "epic"
)

type Position struct {
	X float64
	Y float64
}

type Level struct {
	ID                        int
	Title                     string
	Description               string
	Difficulty                Difficulty
	DurationLabel             string
	Position                  Position
	MaxQuestionsFailedAllowed int
}

var levels = []Level{
	{
		ID:                        1,
		Title:                     "Eyes in Orbit",
		Description:               "How satellites see a field: bands, pixels and revisit times.",
		Difficulty:                DifficultyEasy,
		DurationLabel:             "5 min",
		Position:                  Position{X: 12, Y: 78},
		MaxQuestionsFailedAllowed: 2,
	},
	{
		ID:                        2,
		Title:                     "Green Signals",
		Description:               "Reading vegetation health with NDVI.",
		Difficulty:                DifficultyEasy,
		DurationLabel:             "5 min",
		Position:                  Position{X: 30, Y: 60},
		MaxQuestionsFailedAllowed: 2,
	},
	{
		ID:                        3,
		Title:                     "Thirsty Soil",
		Description:               "Soil moisture from SMAP and when to irrigate.",
		Difficulty:                DifficultyMedium,
		DurationLabel:             "8 min",
		Position:                  Position{X: 48, Y: 72},
		MaxQuestionsFailedAllowed: 2,
	},
	{
		ID:                        4,
		Title:                     "Rain and Heat",
		Description:               "Precipitation and land surface temperature over the season.",
		Difficulty:                DifficultyMedium,
		DurationLabel:             "8 min",
		Position:                  Position{X: 62, Y: 48},
		MaxQuestionsFailedAllowed: 2,
	},
	{
		ID:                        5,
		Title:                     "Storm Watch",
		Description:               "Frost, drought and flood alerts from orbit.",
		Difficulty:                DifficultyHard,
		DurationLabel:             "10 min",
		Position:                  Position{X: 78, Y: 34},
		MaxQuestionsFailedAllowed: 1,
	},
	{
		ID:                        6,
		Title:                     "Harvest Master",
		Description:               "Put every signal together to plan a full season.",
		Difficulty:                DifficultyEpic,
		DurationLabel:             "12 min",
		Position:                  Position{X: 90, Y: 14},
		MaxQuestionsFailedAllowed: 1,
	},
}

// Levels returns the fixed level table ordered by id.
func Levels() []Level {
	return append([]Level(nil), levels...)
}

// LevelByID looks up id in defs.
func LevelByID(defs []Level, id int) (Level, bool) {
	for _, l := range defs {
		if l.ID == id {
			return l, true
		}
	}
	return Level{}, false
}

// MaxFailedFor returns the failure tolerance for id, or the default when the
// level is not defined.
func MaxFailedFor(defs []Level, id int) int {
	if l, ok := LevelByID(defs, id); ok {
		return l.MaxQuestionsFailedAllowed
	}
	return DefaultMaxQuestionsFailed
}

type Language string

const (
	LanguageSpanish Language = "es"
	LanguageEnglish Language = "en"

	DefaultLanguage = LanguageSpanish
)

func ParseLanguage(s string) (Language, error) {
	switch Language(s) {
	case LanguageSpanish, LanguageEnglish:
		return Language(s), nil
	}
	return "", fmt.Errorf("unsupported language %q", s)
}
