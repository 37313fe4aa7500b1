package enrollmentValidator

import (
	"lms/middleware"
	"regexp"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CreateOrderRequest carries the fields the frontend submits to start a
// payment. udf1..udf3 are opaque correlation ids (student, course, selected
// price option) that travel through the gateway and come back in the
// callback; they are the only link from a payment to internal entities.
type CreateOrderRequest struct {
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	OrderID   string `json:"order_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	ReturnURL string `json:"return_url"`

	Description string `json:"description"`

	UDF1 string `json:"udf1"` // studentId
	UDF2 string `json:"udf2"` // courseId
	UDF3 string `json:"udf3"` // selectedOptionId
}

// AssignTrainerRequest is the admin's assignment command.
type AssignTrainerRequest struct {
	EnrollmentID uint `json:"enrollmentId"`
	TrainerID    uint `json:"trainerId"`
}

// UpdateProgressRequest updates one stage inside an enrollment's stage list.
type UpdateProgressRequest struct {
	StageID   uint   `json:"stageId"`
	Completed bool   `json:"completed"`
	Feedback  string `json:"feedback"`
}

// Helper to validate email format
func isValidEmail(email string) bool {
	re := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return re.MatchString(email)
}

// CreateOrder validates the payment order request. Amount, order id, payer
// name, email and return URL are mandatory; the rest may be empty.
func CreateOrder() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateOrderRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Amount) == "" {
			errors["amount"] = "Amount is required!"
		} else if amount, err := strconv.ParseFloat(reqData.Amount, 64); err != nil || amount <= 0 {
			errors["amount"] = "Amount must be a positive number!"
		}

		if strings.TrimSpace(reqData.OrderID) == "" {
			errors["order_id"] = "Order ID is required!"
		}

		if strings.TrimSpace(reqData.Name) == "" {
			errors["name"] = "Name is required!"
		}

		if reqData.Email == "" || !isValidEmail(reqData.Email) {
			errors["email"] = "Invalid email!"
		}

		if strings.TrimSpace(reqData.ReturnURL) == "" {
			errors["return_url"] = "Return URL is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		if reqData.Currency == "" {
			reqData.Currency = "INR"
		}

		c.Locals("validatedCreateOrder", reqData)
		return c.Next()
	}
}

// AssignTrainer validates the assignment command.
func AssignTrainer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AssignTrainerRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.EnrollmentID == 0 {
			errors["enrollmentId"] = "Enrollment ID is required!"
		}

		if reqData.TrainerID == 0 {
			errors["trainerId"] = "Trainer ID is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAssignTrainer", reqData)
		return c.Next()
	}
}

// UpdateProgress validates a stage progress update.
func UpdateProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateProgressRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.StageID == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"stageId": "Stage ID is required!",
			})
		}

		c.Locals("validatedUpdateProgress", reqData)
		return c.Next()
	}
}
