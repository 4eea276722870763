package placement

import "math/rand"

// DefaultMaxColor is the highest callout color index.
const DefaultMaxColor = 13

// DefaultEmojis are the emoji ids callouts are decorated with.
var DefaultEmojis = []string{
	"smile", "heart", "ok", "bulb", "star", "sun", "moon", "cloud", "rain", "zap",
	"trophy", "medal", "gift", "fire", "leaf", "music", "bell", "thumbsup", "coffee",
	"game", "flag", "book", "gear", "clock", "rocket", "target", "calendar", "pin",
	"paperclip", "scissors", "pencil", "folder", "inbox", "camera", "video",
	"microphone", "headphones", "art", "chart", "graph", "link", "lock", "key",
	"hammer", "wrench", "package", "truck",
}

// Palette picks callout decorations.
type Palette struct {
	MaxColor int
	Emojis   []string
}

// DefaultPalette returns colors 1..13 and the default emoji set.
func DefaultPalette() Palette {
	return Palette{MaxColor: DefaultMaxColor, Emojis: DefaultEmojis}
}

// Pick returns a background color and border color in [1, MaxColor] and an
// emoji id, each drawn independently.
func (p Palette) Pick(rng *rand.Rand) (background, border int, emoji string) {
	maxColor := p.MaxColor
	if maxColor < 1 {
		maxColor = DefaultMaxColor
	}
	emojis := p.Emojis
	if len(emojis) == 0 {
		emojis = DefaultEmojis
	}
	background = rng.Intn(maxColor) + 1
	border = rng.Intn(maxColor) + 1
	emoji = emojis[rng.Intn(len(emojis))]
	return background, border, emoji
}
