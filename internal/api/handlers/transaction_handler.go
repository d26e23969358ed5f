package handlers

import (
	"Grocery-Tracker/domain"
	"Grocery-Tracker/internal/api/presenters"
	"Grocery-Tracker/pkg/transaction"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	TransactionHandler interface {
		CreateTransaction(c *fiber.Ctx) error
		GetTransactions(c *fiber.Ctx) error
		GetTransaction(c *fiber.Ctx) error
		UpdateTransaction(c *fiber.Ctx) error
		DeleteTransaction(c *fiber.Ctx) error
		UploadReceipt(c *fiber.Ctx) error
		EstimateMissed(c *fiber.Ctx) error
	}

	transactionHandler struct {
		transactionService transaction.TransactionService
		validator          *validator.Validate
	}
)

func NewTransactionHandler(transactionService transaction.TransactionService, validator *validator.Validate) TransactionHandler {
	return &transactionHandler{
		transactionService: transactionService,
		validator:          validator,
	}
}

func (h *transactionHandler) CreateTransaction(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.CreateTransactionRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateTransaction, err)
	}

	res, err := h.transactionService.CreateTransaction(c.Context(), *req, userID)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedCreateTransaction, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateTransaction)
}

func (h *transactionHandler) GetTransactions(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	page, limit := pagination(c)

	filter := domain.TransactionFilter{
		TransactionType: c.Query("transaction_type"),
		Page:            page,
		Limit:           limit,
	}

	var err error
	if filter.DateFrom, err = dateQuery(c, "date_from"); err != nil {
		return presenters.ServiceError(c, domain.MessageFailedGetTransactions, err)
	}
	if filter.DateTo, err = dateQuery(c, "date_to"); err != nil {
		return presenters.ServiceError(c, domain.MessageFailedGetTransactions, err)
	}

	transactions, count, err := h.transactionService.GetTransactions(c.Context(), userID, filter)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedGetTransactions, err)
	}

	return presenters.SuccessResponse(c, paginated("transactions", transactions, page, limit, count), fiber.StatusOK, domain.MessageSuccessGetTransactions)
}

func (h *transactionHandler) GetTransaction(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.transactionService.GetTransactionByID(c.Context(), c.Params("id"), userID)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedGetTransaction, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetTransaction)
}

func (h *transactionHandler) UpdateTransaction(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.UpdateTransactionRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateTransaction, err)
	}

	res, err := h.transactionService.UpdateTransaction(c.Context(), c.Params("id"), *req, userID)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedUpdateTransaction, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateTransaction)
}

func (h *transactionHandler) DeleteTransaction(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.transactionService.DeleteTransaction(c.Context(), c.Params("id"), userID); err != nil {
		return presenters.ServiceError(c, domain.MessageFailedDeleteTransaction, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteTransaction)
}

func (h *transactionHandler) UploadReceipt(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.UploadReceiptRequest)

	file, err := c.FormFile("receipt_image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	req.ReceiptImage = file

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadReceipt, err)
	}

	res, err := h.transactionService.UploadReceipt(c.Context(), c.Params("id"), *req, userID)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedUploadReceipt, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUploadReceipt)
}

func (h *transactionHandler) EstimateMissed(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.EstimateMissedRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedEstimateMissed, err)
	}

	res, err := h.transactionService.EstimateMissedPurchase(c.Context(), *req, userID)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedEstimateMissed, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessEstimateMissed)
}
