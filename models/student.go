package models

// TeacherRef is a teacher assignment as listed on the student roster:
// just the name and the subject they teach that student.
type TeacherRef struct {
	Name    string `json:"name"`
	Subject string `json:"subject"`
}

// Student is a read-only directory record keyed by enrollment id.
type Student struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Course   string       `json:"course"`
	Grade    string       `json:"grade"`
	Shift    string       `json:"shift"`
	Teachers []TeacherRef `json:"teachers"`
}
