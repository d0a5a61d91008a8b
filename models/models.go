package models

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// User is the identity record returned by the backend on login.
type User struct {
	ID             string `json:"id"`
	Name           string `json:"name,omitempty"`
	Email          string `json:"email"`
	Role           Role   `json:"role"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

func (u *User) UnmarshalJSON(data []byte) error {
	type alias User
	aux := struct {
		*alias
		MongoID string `json:"_id"`
		UserID  string `json:"userId"`
	}{alias: (*alias)(u)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if u.ID == "" {
		u.ID = firstNonEmpty(aux.MongoID, aux.UserID)
	}
	return nil
}

// EffectiveRole falls back to Viewer when the record carries no role.
func (u *User) EffectiveRole() Role {
	if u == nil {
		return RoleViewer
	}
	r := Role(strings.TrimSpace(string(u.Role)))
	if r == "" {
		return RoleViewer
	}
	return r
}

// Ref is an owner reference that the backend sends either as a bare id or
// as an embedded document.
type Ref string

func (r *Ref) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = Ref(s)
		return nil
	}
	var doc struct {
		MongoID string `json:"_id"`
		ID      string `json:"id"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	*r = Ref(firstNonEmpty(doc.MongoID, doc.ID))
	return nil
}

// SafeQuestion is the exam-facing projection of a question: it never
// carries the correct option.
type SafeQuestion struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// Question is the authoring projection.
type Question struct {
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}

// OptionsPerQuestion is fixed for every exam question.
const OptionsPerQuestion = 4

type Course struct {
	ID                     string              `json:"id"`
	Name                   string              `json:"courseName"`
	Price                  decimal.NullDecimal `json:"price"`
	Description            string              `json:"description,omitempty"`
	ThumbnailURL           string              `json:"thumbnailUrl,omitempty"`
	VideoURL               string              `json:"videoUrl,omitempty"`
	PPTURL                 string              `json:"pptUrl,omitempty"`
	CertificateTemplateURL string              `json:"certificateTemplateUrl,omitempty"`
	CreatedBy              Ref                 `json:"createdBy,omitempty"`
	Questions              []SafeQuestion      `json:"questions"`
}

func (c *Course) UnmarshalJSON(data []byte) error {
	type alias Course
	aux := struct {
		*alias
		MongoID string `json:"_id"`
	}{alias: (*alias)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = aux.MongoID
	}
	return nil
}

// ExamResult is the backend's verdict on one attempt. Every field is
// authoritative and is passed through untouched.
type ExamResult struct {
	Score                  int     `json:"score"`
	Total                  int     `json:"total"`
	Percent                float64 `json:"percent"`
	Passed                 bool    `json:"passed"`
	CertificateTemplateURL string  `json:"certificateTemplateUrl,omitempty"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
