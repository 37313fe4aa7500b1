package controllers

import (
	"encoding/json"
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	validators "lms/validators/enrollment"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestApp builds a Fiber app over an in-memory sqlite database with the
// same route/middleware chains the routers install in production.
func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	config.LoadConfig()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // one connection, one in-memory database

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.CoursePriceOption{},
		&models.Enrollment{},
		&models.Message{},
		&models.PaymentEvent{},
	))

	database.Database = database.DbInstance{Db: db}

	app := fiber.New()

	app.Post("/payment/create-order", middleware.JWTMiddleware, validators.CreateOrder(), CreateOrder)
	app.Post("/payment/payaid/callback", PayaidCallback)

	group := app.Group("/enrollment", middleware.JWTMiddleware)
	group.Post("/assign-trainer", middleware.RequireRole(models.RoleAdmin), validators.AssignTrainer(), AssignTrainer)
	group.Get("/pending-assignments", middleware.RequireRole(models.RoleAdmin), GetPendingAssignments)
	group.Get("/available-trainers", middleware.RequireRole(models.RoleAdmin), GetAvailableTrainers)
	group.Get("/trainer-report", middleware.RequireRole(models.RoleAdmin), GetTrainerReport)
	group.Get("/payments", middleware.RequireRole(models.RoleAdmin), GetAllPayments)
	group.Get("/list", middleware.RequireRole(models.RoleAdmin), GetAllEnrollments)
	group.Get("/trainer/students", middleware.RequireRole(models.RoleTrainer), GetTrainerStudents)
	group.Get("/student/enrollments", GetStudentEnrollments)
	group.Get("/student/enrollment/:id/trainer", GetStudentTrainer)
	group.Put("/:id/progress", middleware.RequireRole(models.RoleTrainer, models.RoleAdmin), validators.UpdateProgress(), UpdateProgress)
	group.Get("/:id", middleware.RequireRole(models.RoleAdmin), GetEnrollmentByID)

	return app
}

// stubGateway points the package's PayAid client at a local test server.
// orderStatus/statusBody control the status endpoint; the order endpoint
// validates the request hash before answering like the real gateway.
func stubGateway(t *testing.T, statusCode int, statusBody string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v2/getpaymentrequesturl", func(w http.ResponseWriter, r *http.Request) {
		var params map[string]string
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		received := params["hash"]
		delete(params, "hash")
		if !utils.VerifyPayaidHash(params, config.AppConfig.PayaidSalt, received) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"url":"https://pay.example.com/checkout/abc","uuid":"uuid-123"}}`))
	})
	mux.HandleFunc("/v2/paymentstatus", func(w http.ResponseWriter, r *http.Request) {
		if statusCode != http.StatusOK {
			w.WriteHeader(statusCode)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(statusBody))
	})

	server := httptest.NewServer(mux)

	gateway = utils.NewPayaidClient()
	gateway.SetBaseURLs(server.URL+"/v2/getpaymentrequesturl", server.URL+"/v2/paymentstatus")

	t.Cleanup(func() {
		gateway = nil
		server.Close()
	})
	return server
}

func createTestUser(t *testing.T, name, email, role string) models.User {
	t.Helper()
	user := models.User{
		Name:     name,
		Email:    email,
		Role:     role,
		Password: "hashed-password",
	}
	require.NoError(t, database.Database.Db.Create(&user).Error)
	return user
}

func createTestCourse(t *testing.T, title string) models.Course {
	t.Helper()
	course := models.Course{
		Title:  title,
		Stages: datatypes.JSON([]byte(`[{"id":1,"title":"Basics","completed":false,"feedback":""},{"id":2,"title":"Advanced","completed":false,"feedback":""}]`)),
	}
	require.NoError(t, database.Database.Db.Create(&course).Error)
	return course
}

func authHeader(t *testing.T, user models.User) string {
	t.Helper()
	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email, user.Mobile)
	require.NoError(t, err)
	return "Bearer " + token
}

// signedCallbackRequest builds a form-encoded callback carrying a valid hash
// over the given fields.
func signedCallbackRequest(fields map[string]string) *http.Request {
	form := url.Values{}
	for k, v := range fields {
		form.Set(k, v)
	}
	form.Set("hash", utils.CalculatePayaidHash(fields, config.AppConfig.PayaidSalt))

	req := httptest.NewRequest(http.MethodPost, "/payment/payaid/callback", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func jsonRequest(method, target, authorization string, body interface{}) *http.Request {
	var reader *strings.Reader
	if body != nil {
		encoded, _ := json.Marshal(body)
		reader = strings.NewReader(string(encoded))
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	return req
}
