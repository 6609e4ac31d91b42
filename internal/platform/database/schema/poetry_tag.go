package schema

// PoetryTagTable represents the 'poetry.tag' table
type PoetryTagTable struct {
	Table              string
	ID                 string
	Name               string
	NameLocalized      string
	Type               string
	TypeLocalized      string
	Introduce          string
	IntroduceLocalized string
}

// PoetryTag is the schema definition for poetry.tag
var PoetryTag = PoetryTagTable{
	Table:              "poetry.tag",
	ID:                 "id",
	Name:               "name",
	NameLocalized:      "name_localized",
	Type:               "type",
	TypeLocalized:      "type_localized",
	Introduce:          "introduce",
	IntroduceLocalized: "introduce_localized",
}

func (t PoetryTagTable) Columns() []string {
	return []string{t.ID, t.Name, t.NameLocalized, t.Type, t.TypeLocalized, t.Introduce, t.IntroduceLocalized}
}
