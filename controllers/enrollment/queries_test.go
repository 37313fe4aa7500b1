package controllers

import (
	"encoding/json"
	"fmt"
	"lms/database"
	"lms/models"
	validators "lms/validators/enrollment"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStudentEnrollments(t *testing.T) {
	app := setupTestApp(t)

	student := createTestUser(t, "Asha", "asha@example.com", models.RoleStudent)
	other := createTestUser(t, "Nina", "nina@example.com", models.RoleStudent)
	course := createTestCourse(t, "Strength Training 101")
	seedEnrollment(t, student, course)
	seedEnrollment(t, other, course)

	req := jsonRequest(http.MethodGet, "/enrollment/student/enrollments", authHeader(t, student), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data []models.Enrollment `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, student.ID, body.Data[0].StudentID)
}

func TestGetStudentEnrollmentsEmpty(t *testing.T) {
	app := setupTestApp(t)

	student := createTestUser(t, "Asha", "asha@example.com", models.RoleStudent)

	req := jsonRequest(http.MethodGet, "/enrollment/student/enrollments", authHeader(t, student), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetStudentTrainerOwnershipEnforced(t *testing.T) {
	app := setupTestApp(t)

	student := createTestUser(t, "Asha", "asha@example.com", models.RoleStudent)
	other := createTestUser(t, "Nina", "nina@example.com", models.RoleStudent)
	course := createTestCourse(t, "Strength Training 101")
	enrollment := seedEnrollment(t, student, course)

	target := fmt.Sprintf("/enrollment/student/enrollment/%d/trainer", enrollment.ID)

	// Someone else's enrollment id is indistinguishable from a missing one.
	req := jsonRequest(http.MethodGet, target, authHeader(t, other), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	req = jsonRequest(http.MethodGet, target, authHeader(t, student), nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetTrainerStudents(t *testing.T) {
	app := setupTestApp(t)

	trainer := createTestUser(t, "Ravi", "ravi@example.com", models.RoleTrainer)
	student := createTestUser(t, "Asha", "asha@example.com", models.RoleStudent)
	course := createTestCourse(t, "Strength Training 101")

	enrollment := seedEnrollment(t, student, course)
	require.NoError(t, database.Database.Db.Model(&enrollment).Updates(map[string]interface{}{
		"trainer_id": trainer.ID,
		"status":     models.EnrollmentStatusTrainerAssigned,
	}).Error)

	req := jsonRequest(http.MethodGet, "/enrollment/trainer/students", authHeader(t, trainer), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Count       int                 `json:"count"`
			Enrollments []models.Enrollment `json:"enrollments"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, 1, body.Data.Count)
	assert.Equal(t, student.ID, body.Data.Enrollments[0].StudentID)
}

func TestUpdateProgress(t *testing.T) {
	app := setupTestApp(t)

	trainer := createTestUser(t, "Ravi", "ravi@example.com", models.RoleTrainer)
	student := createTestUser(t, "Asha", "asha@example.com", models.RoleStudent)
	course := createTestCourse(t, "Strength Training 101")
	enrollment := seedEnrollment(t, student, course)

	require.NoError(t, database.Database.Db.Model(&enrollment).
		Update("course_stages", course.Stages).Error)

	req := jsonRequest(http.MethodPut, fmt.Sprintf("/enrollment/%d/progress", enrollment.ID), authHeader(t, trainer), validators.UpdateProgressRequest{
		StageID:   1,
		Completed: true,
		Feedback:  "Good form, keep practicing",
	})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Enrollment
	require.NoError(t, database.Database.Db.First(&updated, enrollment.ID).Error)

	var stages []models.CourseStage
	require.NoError(t, json.Unmarshal(updated.CourseStages, &stages))
	require.Len(t, stages, 2)
	assert.True(t, stages[0].Completed)
	assert.Equal(t, "Good form, keep practicing", stages[0].Feedback)
	assert.False(t, stages[1].Completed)
}

func TestUpdateProgressUnknownStage(t *testing.T) {
	app := setupTestApp(t)

	trainer := createTestUser(t, "Ravi", "ravi@example.com", models.RoleTrainer)
	student := createTestUser(t, "Asha", "asha@example.com", models.RoleStudent)
	course := createTestCourse(t, "Strength Training 101")
	enrollment := seedEnrollment(t, student, course)
	require.NoError(t, database.Database.Db.Model(&enrollment).
		Update("course_stages", course.Stages).Error)

	req := jsonRequest(http.MethodPut, fmt.Sprintf("/enrollment/%d/progress", enrollment.ID), authHeader(t, trainer), validators.UpdateProgressRequest{
		StageID:   42,
		Completed: true,
	})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetAllPayments(t *testing.T) {
	app := setupTestApp(t)

	admin := createTestUser(t, "Admin", "admin@example.com", models.RoleAdmin)
	student := createTestUser(t, "Asha", "asha@example.com", models.RoleStudent)
	other := createTestUser(t, "Nina", "nina@example.com", models.RoleStudent)
	course := createTestCourse(t, "Strength Training 101")
	seedEnrollment(t, student, course)
	seedEnrollment(t, other, course)

	req := jsonRequest(http.MethodGet, "/enrollment/payments?page=1&limit=10", authHeader(t, admin), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Pagination struct {
				TotalCount int `json:"totalCount"`
				TotalPages int `json:"totalPages"`
			} `json:"pagination"`
			Totals struct {
				TotalAmount float64 `json:"totalAmount"`
			} `json:"totals"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 2, body.Data.Pagination.TotalCount)
	assert.Equal(t, 1, body.Data.Pagination.TotalPages)
	assert.Equal(t, 3000.0, body.Data.Totals.TotalAmount)
}

func TestGetTrainerReport(t *testing.T) {
	app := setupTestApp(t)

	admin := createTestUser(t, "Admin", "admin@example.com", models.RoleAdmin)
	trainer := createTestUser(t, "Ravi", "ravi@example.com", models.RoleTrainer)
	idle := createTestUser(t, "Meera", "meera@example.com", models.RoleTrainer)
	student := createTestUser(t, "Asha", "asha@example.com", models.RoleStudent)
	course := createTestCourse(t, "Strength Training 101")

	enrollment := seedEnrollment(t, student, course)
	require.NoError(t, database.Database.Db.Model(&enrollment).Updates(map[string]interface{}{
		"trainer_id": trainer.ID,
		"status":     models.EnrollmentStatusTrainerAssigned,
	}).Error)

	req := jsonRequest(http.MethodGet, "/enrollment/trainer-report", authHeader(t, admin), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Count int `json:"count"`
			Data  []struct {
				TrainerID       uint  `json:"trainerId"`
				StudentsHandled int64 `json:"studentsHandled"`
			} `json:"data"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, 2, body.Data.Count)

	counts := make(map[uint]int64)
	for _, row := range body.Data.Data {
		counts[row.TrainerID] = row.StudentsHandled
	}
	assert.Equal(t, int64(1), counts[trainer.ID])
	assert.Equal(t, int64(0), counts[idle.ID])
}
