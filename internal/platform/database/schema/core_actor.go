// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreActorTable represents the 'core.actor' table
type CoreActorTable struct {
	Table        string
	ID           string
	Slug         string
	Name         string
	Description  string
	DateOfBirth  string
	DateOfDeath  string
	PlaceOfBirth string
	Portrait     string
	CreatedAt    string
	UpdatedAt    string
}

// CoreActor is the schema definition for core.actor
var CoreActor = CoreActorTable{
	Table:        "core.actor",
	ID:           "id",
	Slug:         "slug",
	Name:         "name",
	Description:  "description",
	DateOfBirth:  "dateofbirth",
	DateOfDeath:  "dateofdeath",
	PlaceOfBirth: "placeofbirth",
	Portrait:     "portrait",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

// Columns lists every column in scan order.
func (t CoreActorTable) Columns() []string {
	return []string{
		t.ID, t.Slug, t.Name, t.Description, t.DateOfBirth, t.DateOfDeath,
		t.PlaceOfBirth, t.Portrait, t.CreatedAt, t.UpdatedAt,
	}
}
