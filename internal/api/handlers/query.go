package handlers

import (
	"strconv"
	"time"

	"Grocery-Tracker/domain"

	"github.com/gofiber/fiber/v2"
)

func pagination(c *fiber.Ctx) (int, int) {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = domain.DefaultPage
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = domain.DefaultLimit
	}
	return page, limit
}

// dateQuery reads an optional YYYY-MM-DD query parameter.
func dateQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	value := c.Query(key)
	if value == "" {
		return nil, nil
	}
	t, err := domain.ParseDate(key, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func boolQuery(c *fiber.Ctx, key string) (*bool, error) {
	value := c.Query(key)
	if value == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil, domain.NewFieldError(key, "must be true or false")
	}
	return &b, nil
}

func paginated(key string, items interface{}, page, limit int, total int64) fiber.Map {
	return fiber.Map{
		key:          items,
		"pagination": domain.NewPagination(page, limit, total),
	}
}
