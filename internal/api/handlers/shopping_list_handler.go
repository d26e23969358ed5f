package handlers

import (
	"Grocery-Tracker/domain"
	"Grocery-Tracker/internal/api/presenters"
	"Grocery-Tracker/pkg/shoppinglist"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ShoppingListHandler interface {
		CreateShoppingList(c *fiber.Ctx) error
		GetShoppingLists(c *fiber.Ctx) error
		GetShoppingList(c *fiber.Ctx) error
		UpdateShoppingList(c *fiber.Ctx) error
		DeleteShoppingList(c *fiber.Ctx) error
		CompleteShoppingList(c *fiber.Ctx) error
		ConvertShoppingList(c *fiber.Ctx) error
		GenerateShoppingLists(c *fiber.Ctx) error
		SimulateShoppingLists(c *fiber.Ctx) error
	}

	shoppingListHandler struct {
		shoppingListService shoppinglist.ShoppingListService
		validator           *validator.Validate
	}
)

func NewShoppingListHandler(shoppingListService shoppinglist.ShoppingListService, validator *validator.Validate) ShoppingListHandler {
	return &shoppingListHandler{
		shoppingListService: shoppingListService,
		validator:           validator,
	}
}

func (h *shoppingListHandler) CreateShoppingList(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.CreateShoppingListRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateShoppingList, err)
	}

	res, err := h.shoppingListService.CreateShoppingList(c.Context(), *req, userID)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedCreateShoppingList, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateShoppingList)
}

func (h *shoppingListHandler) GetShoppingLists(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	page, limit := pagination(c)

	filter := domain.ShoppingListFilter{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	}

	var err error
	if filter.ScheduledAfter, err = dateQuery(c, "scheduled_date_after"); err != nil {
		return presenters.ServiceError(c, domain.MessageFailedGetShoppingLists, err)
	}
	if filter.ScheduledBefore, err = dateQuery(c, "scheduled_date_before"); err != nil {
		return presenters.ServiceError(c, domain.MessageFailedGetShoppingLists, err)
	}
	if filter.IsExpired, err = boolQuery(c, "is_expired"); err != nil {
		return presenters.ServiceError(c, domain.MessageFailedGetShoppingLists, err)
	}

	lists, count, err := h.shoppingListService.GetShoppingLists(c.Context(), userID, filter)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedGetShoppingLists, err)
	}

	return presenters.SuccessResponse(c, paginated("shopping_lists", lists, page, limit, count), fiber.StatusOK, domain.MessageSuccessGetShoppingLists)
}

func (h *shoppingListHandler) GetShoppingList(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.shoppingListService.GetShoppingListByID(c.Context(), c.Params("id"), userID)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedGetShoppingList, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetShoppingList)
}

func (h *shoppingListHandler) UpdateShoppingList(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.UpdateShoppingListRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateShoppingList, err)
	}

	res, err := h.shoppingListService.UpdateShoppingList(c.Context(), c.Params("id"), *req, userID)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedUpdateShoppingList, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateShoppingList)
}

func (h *shoppingListHandler) DeleteShoppingList(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.shoppingListService.DeleteShoppingList(c.Context(), c.Params("id"), userID); err != nil {
		return presenters.ServiceError(c, domain.MessageFailedDeleteShoppingList, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteShoppingList)
}

func (h *shoppingListHandler) CompleteShoppingList(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.CompleteShoppingListRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCompleteShoppingList, err)
	}

	res, err := h.shoppingListService.CompleteShoppingList(c.Context(), c.Params("id"), *req, userID)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedCompleteShoppingList, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessCompleteShoppingList)
}

func (h *shoppingListHandler) ConvertShoppingList(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.shoppingListService.ConvertExpiredShoppingList(c.Context(), c.Params("id"), userID)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedConvertShoppingList, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessConvertShoppingList)
}

func (h *shoppingListHandler) GenerateShoppingLists(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.GenerateShoppingListsRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGenerateLists, err)
	}

	res, err := h.shoppingListService.GenerateShoppingLists(c.Context(), *req, userID)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedGenerateLists, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessGenerateLists)
}

func (h *shoppingListHandler) SimulateShoppingLists(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.SimulateRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSimulate, err)
	}

	res, err := h.shoppingListService.SimulateShoppingLists(c.Context(), *req, userID)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedSimulate, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessSimulate)
}
