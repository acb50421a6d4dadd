package models

import "go.mongodb.org/mongo-driver/bson"

// Task is one logged class activity of a student.
type Task struct {
	// Course is a free-text label, e.g. "3D Printing|1" or "Python Level 2".
	Course   string `json:"course"`
	Task     string `json:"task"`
	DateTime string `json:"dateTime"`
	// Status is "complete" or "ongoing" in practice, in any case.
	Status string `json:"status"`

	// Stored is the element as read; see Enrollment.Stored.
	Stored bson.D `json:"-"`
}
