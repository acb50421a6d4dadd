package models

// Student is a learner document from the students collection. Optional
// fields are filled with zero values at the decode boundary, so callers never
// see missing-field ambiguity.
type Student struct {
	ID         string       `json:"id"`
	PrnNumber  string       `json:"PrnNumber"`
	Name       string       `json:"name"`
	Email      string       `json:"email,omitempty"`
	Phone      string       `json:"phone,omitempty"`
	Tasks      []Task       `json:"tasks"`
	Courses    []Enrollment `json:"courses"`
	NextCourse string       `json:"nextCourse,omitempty"`

	// CourseClassNumbers is the legacy label -> quota mapping, kept in stored
	// order. Nil when the document has no such field.
	CourseClassNumbers []LegacyClassNumber `json:"courseClassNumbers,omitempty"`
}

// LegacyClassNumber is one entry of the legacy courseClassNumbers map. Label
// may embed the level as "Name|Level" or "Name Level N".
type LegacyClassNumber struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// StudentFilter narrows student listings.
type StudentFilter struct {
	Search   string
	Page     int
	PageSize int
}

// StudentSummary is the listing projection of a student.
type StudentSummary struct {
	ID          string `json:"id"`
	PrnNumber   string `json:"PrnNumber"`
	Name        string `json:"name"`
	CourseCount int    `json:"courseCount"`
	TaskCount   int    `json:"taskCount"`
}
