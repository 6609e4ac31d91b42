package schema

// PoetryPoemTable represents the 'poetry.poem' table
type PoetryPoemTable struct {
	Table string
	ID    string
	Title string
}

// PoetryPoem is the schema definition for poetry.poem
var PoetryPoem = PoetryPoemTable{
	Table: "poetry.poem",
	ID:    "id",
	Title: "title",
}
