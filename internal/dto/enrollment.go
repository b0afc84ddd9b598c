package dto

// SubmitEnrollmentRequest enrolls the caller in a course.
type SubmitEnrollmentRequest struct {
	CourseID   int64 `json:"courseId"`
	GradeLevel int   `json:"gradeLevel"`
}
