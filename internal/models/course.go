package models

// Course is an entry of the read-only course catalog.
type Course struct {
	ID              int64  `db:"id" json:"id" mapstructure:"id" validate:"required,gt=0"`
	Title           string `db:"title" json:"title" mapstructure:"title" validate:"required"`
	Subject         string `db:"subject" json:"subject" mapstructure:"subject" validate:"required"`
	GradeLevel      int    `db:"grade_level" json:"gradeLevel" mapstructure:"grade_level" validate:"min=1,max=12"`
	Difficulty      string `db:"difficulty" json:"difficulty" mapstructure:"difficulty" validate:"required"`
	PassMarks       int    `db:"pass_marks" json:"passMarks" mapstructure:"pass_marks" validate:"min=0,max=100"`
	AssignmentCount int    `db:"assignment_count" json:"assignmentCount" mapstructure:"assignment_count" validate:"min=0"`
	Description     string `db:"description" json:"description" mapstructure:"description"`
	Objectives      string `db:"objectives" json:"objectives" mapstructure:"objectives"`
	Syllabus        string `db:"syllabus" json:"syllabus" mapstructure:"syllabus"`
}

// CourseFilter is a conjunctive predicate over the catalog. Nil fields are unconstrained.
// Subject and Difficulty match exactly and case-sensitively.
type CourseFilter struct {
	Subject    *string
	GradeLevel *int
	Difficulty *string
}

// Matches reports whether the course satisfies every constrained field.
func (f CourseFilter) Matches(c Course) bool {
	if f.Subject != nil && c.Subject != *f.Subject {
		return false
	}
	if f.GradeLevel != nil && c.GradeLevel != *f.GradeLevel {
		return false
	}
	if f.Difficulty != nil && c.Difficulty != *f.Difficulty {
		return false
	}
	return true
}

// Empty reports whether the filter constrains nothing.
func (f CourseFilter) Empty() bool {
	return f.Subject == nil && f.GradeLevel == nil && f.Difficulty == nil
}
