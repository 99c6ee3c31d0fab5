package entity

// Category is the coarse class of an entity.
type Category string

const (
	CategoryPerson Category = "person"
	CategoryPlace  Category = "place"
	CategoryTheme  Category = "theme"
)

// Valid reports whether c is one of the three known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryPerson, CategoryPlace, CategoryTheme:
		return true
	}
	return false
}

// Classifier assigns exactly one category to an entity.
type Classifier interface {
	Classify(entity string) Category
}

var personLexicon = []string{
	"Jesus", "Moses", "Abraham", "David", "Paul", "Peter", "John", "Mary",
	"Isaac", "Jacob", "Noah", "Adam", "Eve", "Joseph", "Solomon", "Elijah",
	"Isaiah", "Sarah", "Aaron", "Daniel", "Ruth", "Samuel", "Saul", "Timothy",
}

var placeLexicon = []string{
	"Jerusalem", "Israel", "Egypt", "Bethlehem", "Galilee", "Nazareth", "Babylon",
	"Judea", "Jordan", "Zion", "Rome", "Canaan", "Samaria", "Sinai", "Eden",
	"Corinth", "Ephesus", "Damascus",
}

// LexiconClassifier looks entities up in fixed person and place lists; the
// rest are themes.
type LexiconClassifier struct {
	people map[string]struct{}
	places map[string]struct{}
}

// NewLexiconClassifier returns the classifier over the built-in lexicons.
func NewLexiconClassifier() *LexiconClassifier {
	return &LexiconClassifier{
		people: toSet(personLexicon),
		places: toSet(placeLexicon),
	}
}

// Classify is case-sensitive: "jesus" is a theme.
func (c *LexiconClassifier) Classify(entity string) Category {
	if _, ok := c.people[entity]; ok {
		return CategoryPerson
	}
	if _, ok := c.places[entity]; ok {
		return CategoryPlace
	}
	return CategoryTheme
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
