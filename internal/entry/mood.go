package entry

import "strings"

// Mood is the classification label produced by mood analysis.
type Mood string

const (
	MoodHappy      Mood = "happy"
	MoodSad        Mood = "sad"
	MoodPeaceful   Mood = "peaceful"
	MoodAnxious    Mood = "anxious"
	MoodExcited    Mood = "excited"
	MoodThoughtful Mood = "thoughtful"
	MoodNeutral    Mood = "neutral"
)

// Moods lists every mood label in display order.
var Moods = []Mood{
	MoodHappy,
	MoodSad,
	MoodPeaceful,
	MoodAnxious,
	MoodExcited,
	MoodThoughtful,
	MoodNeutral,
}

var moodIcons = map[Mood]string{
	MoodHappy:      "😊",
	MoodSad:        "😢",
	MoodPeaceful:   "😌",
	MoodAnxious:    "😰",
	MoodExcited:    "🤩",
	MoodThoughtful: "🤔",
	MoodNeutral:    "😐",
}

// ParseMood matches s case-insensitively against the mood labels.
func ParseMood(s string) (Mood, bool) {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := moodIcons[m]; ok {
		return m, true
	}
	return "", false
}

// MoodIcon maps a mood label to its display glyph. Absent or unknown labels
// get the neutral glyph.
func MoodIcon(m Mood) string {
	if parsed, ok := ParseMood(string(m)); ok {
		return moodIcons[parsed]
	}
	return moodIcons[MoodNeutral]
}

// Icon is shorthand for MoodIcon(m).
func (m Mood) Icon() string {
	return MoodIcon(m)
}

// Valid reports whether m is one of the known labels.
func (m Mood) Valid() bool {
	_, ok := moodIcons[m]
	return ok
}
