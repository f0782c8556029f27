package model

import "time"

// Layout is a named, user-defined subset of bags used to filter the
// loading view. BagIDs is a weak relation: ids may point at bags that
// have since been deleted, and readers drop those at lookup time.
// At most one layout is active at any time; none active means "show all".
type Layout struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	BagIDs    []string  `json:"bagIds"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LayoutUpdate describes a partial layout update.
type LayoutUpdate struct {
	Name   *string
	BagIDs *[]string
}

// Apply copies the set fields onto the layout.
func (u LayoutUpdate) Apply(l *Layout) {
	if u.Name != nil {
		l.Name = *u.Name
	}
	if u.BagIDs != nil {
		l.BagIDs = *u.BagIDs
	}
}
