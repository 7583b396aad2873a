package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gradehub/gradehub-backend/internal/config"
	"github.com/gradehub/gradehub-backend/internal/database"
	"github.com/gradehub/gradehub-backend/internal/logger"
	"github.com/gradehub/gradehub-backend/internal/model"
	"github.com/gradehub/gradehub-backend/internal/repository"
	"github.com/gradehub/gradehub-backend/internal/service"
)

// Seeds a small demo campus: two classes, two instructors, two courses with
// teaching assignments, and twenty enrolled students. Everything goes through
// the services so permission propagation runs exactly as in production.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	userRepo := repository.NewUserRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)

	authService := service.NewAuthService(cfg, rdb, userRepo, roleRepo)
	classService := service.NewClassService(pool, log)
	studentService := service.NewStudentService(pool, authService, log)
	instructorService := service.NewInstructorService(pool, authService, log)
	courseService := service.NewCourseService(pool, log)
	enrollmentService := service.NewEnrollmentService(pool, log)
	teachingService := service.NewTeachingService(pool, log)

	fmt.Println("=== Seeding demo data ===")

	classIDs := make([]int64, 0, 2)
	for _, cid := range []string{"2023010101", "2023010102"} {
		class, err := classService.Create(ctx, &model.CreateClassRequest{ClassID: cid})
		if err != nil {
			log.Fatal().Err(err).Str("class_id", cid).Msg("Failed to create class")
		}
		classIDs = append(classIDs, class.ID)
	}
	fmt.Printf("Created %d classes\n", len(classIDs))

	instructorNames := []string{"Alice Turner", "Robert Chen"}
	instructorIDs := make([]int64, 0, len(instructorNames))
	for i, name := range instructorNames {
		instID := fmt.Sprintf("1%04d", i+1)
		sex := model.SexFemale
		if i%2 != 0 {
			sex = model.SexMale
		}
		inst, err := instructorService.Create(ctx, &model.CreateInstructorRequest{
			InstID:   instID,
			Name:     name,
			Sex:      sex,
			Username: instID,
			Password: "gradehub-demo",
		})
		if err != nil {
			log.Fatal().Err(err).Str("name", name).Msg("Failed to create instructor")
		}
		instructorIDs = append(instructorIDs, inst.ID)
	}
	fmt.Printf("Created %d instructors\n", len(instructorIDs))

	courses := []model.CreateCourseRequest{
		{Title: "Operating Systems", Year: 2026, Semester: model.SemesterAutumn, MinGroupSize: 2, MaxGroupSize: 4},
		{Title: "Databases", Year: 2026, Semester: model.SemesterAutumn, MinGroupSize: 2, MaxGroupSize: 5},
	}
	courseIDs := make([]int64, 0, len(courses))
	for i := range courses {
		course, err := courseService.Create(ctx, &courses[i])
		if err != nil {
			log.Fatal().Err(err).Str("title", courses[i].Title).Msg("Failed to create course")
		}
		courseIDs = append(courseIDs, course.ID)
	}
	fmt.Printf("Created %d courses\n", len(courseIDs))

	for i, courseID := range courseIDs {
		_, err := teachingService.Create(ctx, &model.CreateTeachesRequest{
			InstructorID: instructorIDs[i%len(instructorIDs)],
			CourseID:     courseID,
		})
		if err != nil {
			log.Fatal().Err(err).Int64("course_id", courseID).Msg("Failed to assign instructor")
		}
	}

	names := []string{
		"Emma Wilson", "Liam Harris", "Olivia Clark", "Noah Lewis", "Ava Walker",
		"Ethan Hall", "Sophia Allen", "Mason Young", "Isabella King", "Logan Wright",
		"Mia Lopez", "Lucas Hill", "Charlotte Scott", "Jacob Green", "Amelia Adams",
		"Daniel Baker", "Harper Nelson", "Henry Carter", "Evelyn Mitchell", "Jack Perez",
	}

	successCount := 0
	for i, name := range names {
		sid := fmt.Sprintf("20260%03d", i+1)
		sex := model.SexMale
		if i%2 != 0 {
			sex = model.SexFemale
		}
		student, err := studentService.Create(ctx, &model.CreateStudentRequest{
			SID:      sid,
			Name:     name,
			Sex:      sex,
			ClassID:  classIDs[i%len(classIDs)],
			Username: sid,
			Password: "gradehub-demo",
		})
		if err != nil {
			fmt.Printf("Error creating student %s (s_id %s): %v\n", name, sid, err)
			continue
		}
		successCount++

		_, err = enrollmentService.Create(ctx, &model.CreateTakesRequest{
			StudentID: student.ID,
			CourseID:  courseIDs[i%len(courseIDs)],
		})
		if err != nil {
			fmt.Printf("Error enrolling student %s: %v\n", name, err)
		}
	}

	fmt.Printf("\nSeed completed! Added %d/%d students.\n", successCount, len(names))
}
