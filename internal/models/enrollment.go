package models

import "time"

// Enrollment is an append-only record of a student enrolling in a course.
type Enrollment struct {
	ID          int64     `db:"id" json:"-"`
	Student     string    `db:"student" json:"student"`
	CourseID    int64     `db:"course_id" json:"courseId"`
	GradeLevel  int       `db:"grade_level" json:"gradeLevel"`
	StudentName string    `db:"student_name" json:"studentName"`
	EnrolledAt  time.Time `db:"enrolled_at" json:"enrollmentDate"`
}

// Grade bounds accepted for enrollments and catalog entries.
const (
	MinGradeLevel = 1
	MaxGradeLevel = 12
)
