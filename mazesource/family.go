package mazesource

import "github.com/beka-birhanu/family-labyrinth/labyrinth"

// Member is a family member that can be hidden in a labyrinth.
type Member struct {
	ID        labyrinth.TargetID
	NameLocal string // Darija.
	NameAlt   string // French.
}

// Family lists the members the generator hides.
var Family = []Member{
	{ID: "book", NameLocal: "بوك", NameAlt: "ton père"},
	{ID: "ommik", NameLocal: "أمّك", NameAlt: "ta mère"},
	{ID: "jeddek", NameLocal: "جدّك", NameAlt: "ton grand-père"},
	{ID: "jeddekta", NameLocal: "جدّتك", NameAlt: "ta grand-mère"},
	{ID: "khouk", NameLocal: "خوك", NameAlt: "ton frère"},
	{ID: "okhtik", NameLocal: "أختك", NameAlt: "ta sœur"},
}
