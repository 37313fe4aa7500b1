package controllers

import (
	"encoding/json"
	"errors"
	"lms/config"
	"lms/database"
	"lms/models"
	"lms/utils"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// parseCallbackFields flattens the gateway's POST body (JSON or form
// encoded) into the string field map the hash is computed over.
func parseCallbackFields(c *fiber.Ctx) (map[string]string, error) {
	fields := make(map[string]string)

	contentType := string(c.Request().Header.ContentType())
	if strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
		var raw map[string]interface{}
		if err := json.Unmarshal(c.Body(), &raw); err != nil {
			return nil, err
		}
		for k, v := range raw {
			fields[k] = stringifyField(v)
		}
		return fields, nil
	}

	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		fields[string(key)] = string(value)
	})
	return fields, nil
}

// stringifyField renders a JSON value the way the gateway would have sent it
// in a form post. Whole numbers must not grow a trailing ".0" or the hash
// would change.
func stringifyField(v interface{}) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	case nil:
		return ""
	default:
		encoded, _ := json.Marshal(value)
		return string(encoded)
	}
}

// recordPaymentEvent keeps an audit row for every callback delivery,
// accepted or rejected. Best effort: an audit failure never changes the
// response to the gateway.
func recordPaymentEvent(db *gorm.DB, fields map[string]string, verdict string) {
	payload, err := json.Marshal(fields)
	if err != nil {
		payload = []byte("{}")
	}

	event := models.PaymentEvent{
		EventID:       uuid.NewString(),
		OrderID:       fields["order_id"],
		TransactionID: fields["transaction_id"],
		ResponseCode:  fields["response_code"],
		Verdict:       verdict,
		RawPayload:    datatypes.JSON(payload),
	}
	if err := db.Create(&event).Error; err != nil {
		log.Printf("[PAYAID-CALLBACK] Could not record payment event for order %s: %v", event.OrderID, err)
	}
}

// PayaidCallback handles the gateway's asynchronous payment notification.
// The payload is untrusted until its signature is verified; only a verified
// callback may create an enrollment, and duplicate deliveries for the same
// student/course pair must end up with exactly one.
func PayaidCallback(c *fiber.Ctx) error {
	db := database.Database.Db

	fields, err := parseCallbackFields(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid payload")
	}

	receivedHash := fields["hash"]
	delete(fields, "hash")

	if !utils.VerifyPayaidHash(fields, config.AppConfig.PayaidSalt, receivedHash) {
		// Log enough to investigate, never the salt or the digests.
		log.Printf("[PAYAID-CALLBACK] Hash mismatch for order %s txn %s",
			fields["order_id"], fields["transaction_id"])
		recordPaymentEvent(db, fields, models.PaymentEventHashMismatch)
		return c.Status(fiber.StatusBadRequest).SendString("Hash mismatch")
	}

	// Reconfirm against the gateway's live state when possible. A confirmed
	// success overrides whatever the payload claims; a query failure is
	// non-fatal and falls back to the payload's own response code.
	confirmed := false
	if code, _, err := payaidGateway().QueryPaymentStatus(fields["order_id"], fields["transaction_id"]); err != nil {
		log.Printf("[PAYAID-CALLBACK] Status reconfirmation unavailable for order %s: %v", fields["order_id"], err)
	} else if code == 0 {
		confirmed = true
	}

	if !confirmed && strings.TrimSpace(fields["response_code"]) != "0" {
		recordPaymentEvent(db, fields, models.PaymentEventPaymentFailed)
		return c.Status(fiber.StatusOK).SendString("Payment failed")
	}

	outcome, err := applyVerifiedCallback(db, fields)
	if err != nil {
		log.Printf("[PAYAID-CALLBACK] Enrollment creation failed for order %s: %v", fields["order_id"], err)
		recordPaymentEvent(db, fields, models.PaymentEventError)
		return c.Status(fiber.StatusInternalServerError).SendString("Server error")
	}

	recordPaymentEvent(db, fields, outcome.verdict)
	return c.Status(fiber.StatusOK).SendString(outcome.body)
}

type callbackOutcome struct {
	verdict string
	body    string
}

// applyVerifiedCallback resolves the correlation fields and idempotently
// creates the enrollment. Unresolvable ids and duplicates are expected
// outcomes, not errors: the gateway must still get a definitive 200 so it
// stops retrying.
func applyVerifiedCallback(db *gorm.DB, fields map[string]string) (callbackOutcome, error) {
	studentID, _ := strconv.ParseUint(fields["udf1"], 10, 64)
	courseID, _ := strconv.ParseUint(fields["udf2"], 10, 64)
	optionID, _ := strconv.ParseUint(fields["udf3"], 10, 64)

	var student models.User
	if err := db.Where("id = ? AND is_deleted = false", studentID).First(&student).Error; err != nil {
		return callbackOutcome{models.PaymentEventInvalidMapping, "Invalid mapping"}, ignoreNotFound(err)
	}

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = false", courseID).First(&course).Error; err != nil {
		return callbackOutcome{models.PaymentEventInvalidMapping, "Invalid mapping"}, ignoreNotFound(err)
	}

	var selectedOptionID *uint
	if optionID != 0 {
		var option models.CoursePriceOption
		if err := db.Where("id = ? AND is_deleted = false", optionID).First(&option).Error; err == nil {
			selectedOptionID = &option.ID
		}
	}

	var existing models.Enrollment
	err := db.Where("student_id = ? AND course_id = ?", studentID, courseID).
		Where(models.ActiveEnrollmentFilter).
		First(&existing).Error
	if err == nil {
		return callbackOutcome{models.PaymentEventAlreadyEnrolled, "Already enrolled"}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return callbackOutcome{}, err
	}

	amount, err := strconv.ParseFloat(fields["amount"], 64)
	if err != nil {
		// Keep the enrollment (the signature already verified the payment);
		// the audit row retains the raw value for reconciliation.
		log.Printf("[PAYAID-CALLBACK] Unparseable amount %q for order %s, storing 0",
			fields["amount"], fields["order_id"])
		amount = 0
	}

	payload, err := json.Marshal(fields)
	if err != nil {
		return callbackOutcome{}, err
	}

	stages := course.Stages
	if len(stages) == 0 {
		stages = datatypes.JSON([]byte("[]"))
	}

	enrollment := models.Enrollment{
		StudentID:             student.ID,
		CourseID:              course.ID,
		SelectedOptionID:      selectedOptionID,
		StudentName:           student.Name,
		StudentEmail:          student.Email,
		Amount:                amount,
		PaymentMethod:         "payaid",
		ExternalTransactionID: fields["transaction_id"],
		ExternalResponse:      datatypes.JSON(payload),
		CourseStages:          stages,
		Status:                models.EnrollmentStatusEnrolled,
	}

	tx := db.Begin()
	if err := tx.Create(&enrollment).Error; err != nil {
		tx.Rollback()
		// Loser of a concurrent duplicate delivery hits the partial unique
		// index; that is the idempotent outcome, not an error.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return callbackOutcome{models.PaymentEventAlreadyEnrolled, "Already enrolled"}, nil
		}
		return callbackOutcome{}, err
	}
	tx.Commit()

	go utils.SendEnrollmentEmail(student.Email, student.Name, course.Title)

	return callbackOutcome{models.PaymentEventAccepted, "OK"}, nil
}

// ignoreNotFound keeps record-not-found out of the error path; anything else
// is a real storage failure.
func ignoreNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
