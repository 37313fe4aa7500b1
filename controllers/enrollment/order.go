package controllers

import (
	"errors"
	"fmt"
	"lms/config"
	"lms/middleware"
	"lms/utils"
	validators "lms/validators/enrollment"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// gateway is created lazily so config is loaded first; tests swap it for a
// client pointed at a stub server.
var gateway *utils.PayaidClient

func payaidGateway() *utils.PayaidClient {
	if gateway == nil {
		gateway = utils.NewPayaidClient()
	}
	return gateway
}

// CreateOrder builds a signed PayAid order and returns the hosted payment
// page URL. Nothing is persisted here; enrollment happens only when the
// gateway's callback is verified.
func CreateOrder(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCreateOrder").(*validators.CreateOrderRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	amount, err := strconv.ParseFloat(reqData.Amount, 64)
	if err != nil || amount <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid amount!", nil)
	}

	description := reqData.Description
	if description == "" {
		description = "Payment for " + reqData.OrderID
	}

	params := map[string]string{
		"api_key":     config.AppConfig.PayaidApiKey,
		"order_id":    reqData.OrderID,
		"amount":      fmt.Sprintf("%.2f", amount),
		"currency":    reqData.Currency,
		"description": description,
		"name":        reqData.Name,
		"email":       reqData.Email,
		"phone":       reqData.Phone,
		"mode":        config.AppConfig.PayaidMode,
		"return_url":  reqData.ReturnURL,
		"udf1":        reqData.UDF1,
		"udf2":        reqData.UDF2,
		"udf3":        reqData.UDF3,
	}
	params["hash"] = utils.CalculatePayaidHash(params, config.AppConfig.PayaidSalt)

	paymentURL, uuid, err := payaidGateway().CreatePaymentURL(params)
	if err != nil {
		if errors.Is(err, utils.ErrGatewayUnavailable) {
			return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Payment gateway unavailable, try again later!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Order creation failed!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Order created successfully!", fiber.Map{
		"paymentUrl": paymentURL,
		"uuid":       uuid,
		"orderId":    reqData.OrderID,
		"amount":     fmt.Sprintf("%.2f", amount),
	})
}
