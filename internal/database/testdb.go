package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	m "github.com/codingburgas/job-tracking-DKGeorgiev21/internal/model"
	"github.com/codingburgas/job-tracking-DKGeorgiev21/internal/utilities"
)

var testDBInstance *DBinstanceStruct
var teardown func(context.Context, ...testcontainers.TerminateOption) error

// Exported seeded records for tests
var (
	TestAdminUser m.User
	TestUserAlice m.User
	TestUserBob   m.User

	// TestSeedPassword is the plain password shared by all seeded users
	TestSeedPassword = "SeedPass123!"

	// TestJobPosting3 is seeded inactive; the other two are active
	TestJobPosting1 m.JobPosting
	TestJobPosting2 m.JobPosting
	TestJobPosting3 m.JobPosting

	// TestApplication1 is Alice's application to TestJobPosting1
	TestApplication1 m.Application
)

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, *DBinstanceStruct, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	// Database configuration
	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &DBConfig{
		useConstr: true,
		Constr:    fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	db, err := NewDBInstance(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts sample users, postings and one application if empty.
func seedTestData(db *DBinstanceStruct) error {
	var userCount int64
	if err := db.Model(&m.User{}).Count(&userCount).Error; err != nil {
		return err
	}

	// Ignore admin user that may get created during NewDBInstance
	if userCount > 1 {
		return loadTestData(db)
	}

	hashedPwd, err := utilities.HashPassword(TestSeedPassword)
	if err != nil {
		return err
	}

	users := []m.User{
		{
			FirstName: "Site",
			LastName:  "Admin",
			Username:  "seed_admin",
			Password:  hashedPwd,
			Role:      m.RoleAdmin,
		},
		{
			FirstName:  "Alice",
			MiddleName: "Marie",
			LastName:   "Petrova",
			Username:   "seed_alice",
			Password:   hashedPwd,
			Role:       m.RoleUser,
		},
		{
			FirstName: "Bob",
			LastName:  "Ivanov",
			Username:  "seed_bob",
			Password:  hashedPwd,
			Role:      m.RoleUser,
		},
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}
	TestAdminUser = users[0]
	TestUserAlice = users[1]
	TestUserBob = users[2]

	postings := []m.JobPosting{
		{
			EditableJobPostingInfo: m.EditableJobPostingInfo{
				Title:       "Backend Engineer",
				CompanyName: "Acme Corp",
				Description: "Build and maintain Go services.",
				IsActive:    true,
			},
			CreatedByUserID: TestAdminUser.ID,
		},
		{
			EditableJobPostingInfo: m.EditableJobPostingInfo{
				Title:       "Frontend Developer",
				CompanyName: "Initech",
				Description: "Angular component work.",
				IsActive:    true,
			},
			CreatedByUserID: TestAdminUser.ID,
		},
		{
			EditableJobPostingInfo: m.EditableJobPostingInfo{
				Title:       "Data Analyst",
				CompanyName: "Globex",
				Description: "Dashboards and reporting.",
			},
			CreatedByUserID: TestAdminUser.ID,
		},
	}
	if err := db.Create(&postings).Error; err != nil {
		return err
	}

	// The third posting is seeded inactive; gorm skips zero-value bools
	// on create so flip it with an explicit update.
	if err := db.Model(&postings[2]).Update("is_active", false).Error; err != nil {
		return err
	}
	postings[2].IsActive = false

	TestJobPosting1 = postings[0]
	TestJobPosting2 = postings[1]
	TestJobPosting3 = postings[2]

	application := m.Application{
		UserID:       TestUserAlice.ID,
		JobPostingID: TestJobPosting1.ID,
		Status:       m.StatusSubmitted,
	}
	if err := db.Create(&application).Error; err != nil {
		return err
	}
	if err := db.Preload("User").Preload("JobPosting").
		First(&TestApplication1, application.ID).Error; err != nil {
		return err
	}

	return nil
}

// loadTestData populates exported variables when records already exist.
func loadTestData(db *DBinstanceStruct) error {
	var users []m.User
	if err := db.Where("username IN ?", []string{
		"seed_admin", "seed_alice", "seed_bob",
	}).Find(&users).Error; err != nil {
		return err
	}
	for _, u := range users {
		switch u.Username {
		case "seed_admin":
			TestAdminUser = u
		case "seed_alice":
			TestUserAlice = u
		case "seed_bob":
			TestUserBob = u
		}
	}

	var postings []m.JobPosting
	if err := db.Order("id ASC").Limit(3).Find(&postings).Error; err == nil {
		if len(postings) > 0 {
			TestJobPosting1 = postings[0]
		}
		if len(postings) > 1 {
			TestJobPosting2 = postings[1]
		}
		if len(postings) > 2 {
			TestJobPosting3 = postings[2]
		}
	}

	_ = db.Preload("User").Preload("JobPosting").
		Where("user_id = ? AND job_posting_id = ?", TestUserAlice.ID, TestJobPosting1.ID).
		First(&TestApplication1).Error

	return nil
}
