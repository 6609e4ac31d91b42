package schema

// PoetryPoemTagTable represents the 'poetry.poem_tag' junction table
type PoetryPoemTagTable struct {
	Table  string
	PoemID string
	TagID  string
}

// PoetryPoemTag is the schema definition for poetry.poem_tag
var PoetryPoemTag = PoetryPoemTagTable{
	Table:  "poetry.poem_tag",
	PoemID: "poem_id",
	TagID:  "tag_id",
}
