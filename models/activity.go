package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Activity is one audit trail entry.
type Activity struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UserEmail   string    `json:"userEmail"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
}

func (a *Activity) UnmarshalJSON(data []byte) error {
	type alias Activity
	aux := struct {
		*alias
		MongoID string `json:"_id"`
	}{alias: (*alias)(a)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if a.ID == "" {
		a.ID = aux.MongoID
	}
	return nil
}

func (a Activity) Kind() ActivityKind {
	return ParseCategory(a.Category)
}

type Entity int

const (
	EntityProduct Entity = iota
	EntityTemplate
)

func (e Entity) String() string {
	if e == EntityTemplate {
		return "template"
	}
	return "product"
}

func (e Entity) Badge() string {
	if e == EntityTemplate {
		return "violet"
	}
	return "amber"
}

type Action int

const (
	ActionOther Action = iota
	ActionAdd
	ActionUpdate
	ActionDelete
)

var actionLabels = map[Action]string{
	ActionAdd:    "Added",
	ActionUpdate: "Updated",
	ActionDelete: "Deleted",
	ActionOther:  "Action",
}

var actionBadges = map[Action]string{
	ActionAdd:    "emerald",
	ActionUpdate: "blue",
	ActionDelete: "rose",
	ActionOther:  "gray",
}

func (a Action) Label() string { return actionLabels[a] }
func (a Action) Badge() string { return actionBadges[a] }

// ActivityKind is the parsed form of a free-text category such as
// "Template Added" or "Course Deleted".
type ActivityKind struct {
	Entity Entity
	Action Action
}

func ParseCategory(category string) ActivityKind {
	words := strings.Fields(strings.ToLower(strings.ReplaceAll(category, "_", " ")))
	var k ActivityKind
	if len(words) == 0 {
		return k
	}
	if words[0] == "template" {
		k.Entity = EntityTemplate
	}
	switch words[len(words)-1] {
	case "add", "added":
		k.Action = ActionAdd
	case "update", "updated":
		k.Action = ActionUpdate
	case "delete", "deleted":
		k.Action = ActionDelete
	}
	return k
}

// Display is the human label, e.g. "Template Added".
func (k ActivityKind) Display() string {
	entity := "Product"
	if k.Entity == EntityTemplate {
		entity = "Template"
	}
	if k.Action == ActionOther {
		return entity + " Action"
	}
	return entity + " " + k.Action.Label()
}
