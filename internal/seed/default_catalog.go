package seed

import "github.com/noah-isme/edu-portal-api/internal/models"

// DefaultCatalog is the catalog installed on a fresh database.
func DefaultCatalog() []models.Course {
	return []models.Course{
		{
			ID: 1, Title: "Foundations of Arithmetic", Subject: "Mathematics", GradeLevel: 1, Difficulty: "Easy",
			PassMarks: 35, AssignmentCount: 8,
			Description: "Counting, place value and the four operations on small numbers.",
			Objectives:  "Read and write numbers to 100; add and subtract within 20.",
			Syllabus:    "Numbers to 100; addition; subtraction; shapes; measurement.",
		},
		{
			ID: 2, Title: "Fractions and Decimals", Subject: "Mathematics", GradeLevel: 5, Difficulty: "Medium",
			PassMarks: 40, AssignmentCount: 10,
			Description: "Working with parts of a whole and their decimal form.",
			Objectives:  "Compare, add and subtract fractions; convert between fractions and decimals.",
			Syllabus:    "Equivalent fractions; operations; decimals; percentages.",
		},
		{
			ID: 3, Title: "Algebra and Geometry", Subject: "Mathematics", GradeLevel: 9, Difficulty: "Hard",
			PassMarks: 40, AssignmentCount: 14,
			Description: "Linear equations, polynomials and Euclidean geometry.",
			Objectives:  "Solve linear equations in two variables; prove basic theorems on triangles.",
			Syllabus:    "Polynomials; coordinate geometry; linear equations; triangles; circles.",
		},
		{
			ID: 4, Title: "Our Environment", Subject: "Science", GradeLevel: 3, Difficulty: "Easy",
			PassMarks: 35, AssignmentCount: 6,
			Description: "Plants, animals and the world around us.",
			Objectives:  "Identify living and non-living things; describe simple habitats.",
			Syllabus:    "Living things; plants; animals; water; weather.",
		},
		{
			ID: 5, Title: "Physics, Chemistry and Biology", Subject: "Science", GradeLevel: 10, Difficulty: "Hard",
			PassMarks: 40, AssignmentCount: 16,
			Description: "Core concepts across the three sciences.",
			Objectives:  "Apply laws of motion; balance chemical equations; explain life processes.",
			Syllabus:    "Chemical reactions; life processes; electricity; light; heredity.",
		},
		{
			ID: 6, Title: "Reading and Grammar", Subject: "English", GradeLevel: 4, Difficulty: "Easy",
			PassMarks: 35, AssignmentCount: 8,
			Description: "Comprehension, vocabulary and sentence structure.",
			Objectives:  "Read short passages fluently; use tenses and punctuation correctly.",
			Syllabus:    "Reading comprehension; nouns and verbs; tenses; composition.",
		},
		{
			ID: 7, Title: "Literature and Writing", Subject: "English", GradeLevel: 8, Difficulty: "Medium",
			PassMarks: 40, AssignmentCount: 12,
			Description: "Prose, poetry and formal writing.",
			Objectives:  "Analyse literary texts; write letters, reports and essays.",
			Syllabus:    "Prose; poetry; drama; letter writing; essay writing.",
		},
		{
			ID: 8, Title: "Hindi Vyakaran", Subject: "Hindi", GradeLevel: 6, Difficulty: "Medium",
			PassMarks: 35, AssignmentCount: 10,
			Description: "Hindi grammar and reading.",
			Objectives:  "Use sandhi and samas correctly; read and summarise passages.",
			Syllabus:    "Varna vichar; sandhi; samas; muhavare; nibandh lekhan.",
		},
		{
			ID: 9, Title: "History and Civics", Subject: "Social Studies", GradeLevel: 7, Difficulty: "Medium",
			PassMarks: 35, AssignmentCount: 10,
			Description: "Medieval history and how democratic government works.",
			Objectives:  "Describe major medieval kingdoms; explain the role of state government.",
			Syllabus:    "Medieval kingdoms; state government; media; markets.",
		},
		{
			ID: 10, Title: "Geography and Economics", Subject: "Social Studies", GradeLevel: 12, Difficulty: "Hard",
			PassMarks: 33, AssignmentCount: 12,
			Description: "Human geography and introductory macroeconomics.",
			Objectives:  "Interpret population data; explain national income and money supply.",
			Syllabus:    "Population; resources; national income; money and banking.",
		},
	}
}
