package ephemeris

// Body is one of the tracked celestial bodies.
type Body struct {
	Index   int
	Name    string
	Display string
}

// Sign is a 30° band of ecliptic longitude. Display is the genitive Russian
// form used after "в знаке".
type Sign struct {
	Index   int
	Name    string
	Display string
}

const (
	Sun = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
)

var bodies = [...]Body{
	{Sun, "Sun", "Солнце"},
	{Moon, "Moon", "Луна"},
	{Mercury, "Mercury", "Меркурий"},
	{Venus, "Venus", "Венера"},
	{Mars, "Mars", "Марс"},
	{Jupiter, "Jupiter", "Юпитер"},
	{Saturn, "Saturn", "Сатурн"},
}

var signs = [...]Sign{
	{0, "Aries", "Овна"},
	{1, "Taurus", "Тельца"},
	{2, "Gemini", "Близнецов"},
	{3, "Cancer", "Рака"},
	{4, "Leo", "Льва"},
	{5, "Virgo", "Девы"},
	{6, "Libra", "Весов"},
	{7, "Scorpio", "Скорпиона"},
	{8, "Sagittarius", "Стрельца"},
	{9, "Capricorn", "Козерога"},
	{10, "Aquarius", "Водолея"},
	{11, "Pisces", "Рыб"},
}
