package models

import "go.mongodb.org/mongo-driver/bson"

// Enrollment is a student's record of taking one course at one level.
type Enrollment struct {
	Name string `json:"name"`
	// Level is a digit "1".."4" or a level word such as "beginner".
	Level string `json:"level"`
	// ClassNumber is the assigned class quota, string encoded and possibly empty.
	ClassNumber string `json:"classNumber"`
	Completed   bool   `json:"completed"`
	Certificate bool   `json:"certificate"`
	// Status is free text and may disagree with Completed.
	Status    string `json:"status,omitempty"`
	StartDate string `json:"startDate,omitempty"`

	// Stored is the element as read, including fields owned by other
	// workflows. Writes merge changed fields into it.
	Stored bson.D `json:"-"`
}
