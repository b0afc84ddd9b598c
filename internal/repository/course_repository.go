package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edu-portal-api/internal/models"
)

const courseColumns = `id, title, subject, grade_level, difficulty, pass_marks, assignment_count, description, objectives, syllabus`

// CourseRepository reads the course catalog.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// ListAll returns every course ordered by id. The order is the catalog's iteration order.
func (r *CourseRepository) ListAll(ctx context.Context) ([]models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses ORDER BY id ASC`
	courses := make([]models.Course, 0)
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindByID returns a course or sql.ErrNoRows.
func (r *CourseRepository) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// Exists reports whether a course id is present.
func (r *CourseRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM courses WHERE id = $1)`, id); err != nil {
		return false, fmt.Errorf("check course: %w", err)
	}
	return exists, nil
}

// InsertMissing seeds courses whose id is not yet present and returns how many were inserted.
// Existing rows are never modified.
func (r *CourseRepository) InsertMissing(ctx context.Context, courses []models.Course) (int, error) {
	if len(courses) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin seed tx: %w", err)
	}
	const query = `INSERT INTO courses (` + courseColumns + `)
VALUES (:id, :title, :subject, :grade_level, :difficulty, :pass_marks, :assignment_count, :description, :objectives, :syllabus)
ON CONFLICT (id) DO NOTHING`
	inserted := 0
	for i := range courses {
		res, err := tx.NamedExecContext(ctx, query, courses[i])
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("seed course %d: %w", courses[i].ID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed tx: %w", err)
	}
	return inserted, nil
}
