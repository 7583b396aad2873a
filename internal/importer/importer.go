// Package importer bulk-loads students and course enrollments from xlsx
// worksheets. Rows are four columns in order: student ID, class ID, name,
// sex (M/F, may be blank).
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gradehub/gradehub-backend/internal/model"
	"github.com/gradehub/gradehub-backend/internal/repository"
	"github.com/gradehub/gradehub-backend/internal/service"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// row is one parsed worksheet line.
type row struct {
	SID     string
	ClassID string
	Name    string
	Sex     model.Sex
}

// Importer turns worksheets into student accounts and enrollments. It goes
// through the services so every imported row runs the full creation path,
// permission propagation included.
type Importer struct {
	pool        *pgxpool.Pool
	students    *service.StudentService
	enrollments *service.EnrollmentService
	log         zerolog.Logger
}

// New creates an Importer.
func New(pool *pgxpool.Pool, students *service.StudentService, enrollments *service.EnrollmentService, log zerolog.Logger) *Importer {
	return &Importer{
		pool:        pool,
		students:    students,
		enrollments: enrollments,
		log:         log.With().Str("component", "importer").Logger(),
	}
}

// ImportStudents creates a student account per row. Rows whose student ID
// is already registered or whose class is unknown are skipped. The initial
// username and password are both the student ID. Returns the number of
// accounts created.
func (im *Importer) ImportStudents(ctx context.Context, r io.Reader) (int, error) {
	rows, err := parseSheet(r)
	if err != nil {
		return 0, err
	}

	studentRepo := repository.NewStudentRepository(im.pool)
	classRepo := repository.NewClassRepository(im.pool)

	count := 0
	for _, row := range rows {
		if _, err := studentRepo.GetBySID(ctx, row.SID); err == nil {
			continue
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return count, err
		}

		class, err := classRepo.GetByClassID(ctx, row.ClassID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				im.log.Warn().Str("s_id", row.SID).Str("class_id", row.ClassID).
					Msg("skipping row with unknown class")
				continue
			}
			return count, err
		}

		_, err = im.students.Create(ctx, &model.CreateStudentRequest{
			SID:      row.SID,
			Name:     row.Name,
			Sex:      row.Sex,
			ClassID:  class.ID,
			Username: row.SID,
			Password: row.SID,
		})
		if err != nil {
			return count, fmt.Errorf("import student %s: %w", row.SID, err)
		}
		count++
	}

	im.log.Info().Int("imported", count).Int("rows", len(rows)).Msg("student import finished")
	return count, nil
}

// ImportTakes enrolls the listed students into a course. Unknown student
// IDs and existing enrollments are skipped. Returns the number of
// enrollments created.
func (im *Importer) ImportTakes(ctx context.Context, r io.Reader, courseID int64) (int, error) {
	rows, err := parseSheet(r)
	if err != nil {
		return 0, err
	}

	studentRepo := repository.NewStudentRepository(im.pool)
	takesRepo := repository.NewTakesRepository(im.pool)

	count := 0
	for _, row := range rows {
		stu, err := studentRepo.GetBySID(ctx, row.SID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				im.log.Warn().Str("s_id", row.SID).Msg("skipping unknown student")
				continue
			}
			return count, err
		}

		enrolled, err := takesRepo.Exists(ctx, stu.ID, courseID)
		if err != nil {
			return count, err
		}
		if enrolled {
			continue
		}

		_, err = im.enrollments.Create(ctx, &model.CreateTakesRequest{
			StudentID: stu.ID,
			CourseID:  courseID,
		})
		if err != nil {
			return count, fmt.Errorf("enroll student %s: %w", row.SID, err)
		}
		count++
	}

	im.log.Info().Int("imported", count).Int64("course_id", courseID).Msg("enrollment import finished")
	return count, nil
}

// parseSheet reads the first worksheet into rows. A leading header line is
// detected by a non-numeric first cell and dropped.
func parseSheet(r io.Reader) ([]row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}

	var rows []row
	for i, line := range cells {
		if len(line) < 3 {
			continue
		}
		sid := strings.TrimSpace(line[0])
		if sid == "" {
			continue
		}
		if i == 0 && !isDigits(sid) {
			continue // header line
		}
		if !isDigits(sid) {
			return nil, fmt.Errorf("row %d: student ID %q is not numeric", i+1, sid)
		}

		parsed := row{
			SID:     sid,
			ClassID: strings.TrimSpace(line[1]),
			Name:    strings.TrimSpace(line[2]),
		}
		if len(line) > 3 {
			switch strings.ToUpper(strings.TrimSpace(line[3])) {
			case "M":
				parsed.Sex = model.SexMale
			case "F":
				parsed.Sex = model.SexFemale
			}
		}
		rows = append(rows, parsed)
	}
	return rows, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
