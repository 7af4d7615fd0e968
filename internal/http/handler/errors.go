package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/FoodGram/internal/app/repository"
	"github.com/sifan077/FoodGram/internal/app/service"
	"go.uber.org/zap"
)

var errorStatuses = []struct {
	err    error
	status int
}{
	{repository.ErrRecipeNotFound, fiber.StatusNotFound},
	{repository.ErrUserNotFound, fiber.StatusNotFound},
	{repository.ErrIngredientNotFound, fiber.StatusNotFound},
	{repository.ErrTagNotFound, fiber.StatusNotFound},
	{repository.ErrShortLinkNotFound, fiber.StatusNotFound},
	{service.ErrForbidden, fiber.StatusForbidden},
	{service.ErrUnknownRecipe, fiber.StatusBadRequest},
	{service.ErrAlreadyInList, fiber.StatusBadRequest},
	{service.ErrNotInList, fiber.StatusBadRequest},
	{service.ErrInvalidCredentials, fiber.StatusBadRequest},
	{service.ErrWrongPassword, fiber.StatusBadRequest},
	{service.ErrUserExists, fiber.StatusBadRequest},
	{service.ErrSelfSubscription, fiber.StatusBadRequest},
	{service.ErrAlreadySubscribed, fiber.StatusBadRequest},
	{service.ErrNotSubscribed, fiber.StatusBadRequest},
}

// writeError translates err into the matching status and body. Unknown errors are
// logged and answered with a 500 carrying msg.
func writeError(c *fiber.Ctx, logger *zap.Logger, err error, msg string) error {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "invalid input",
			"fields": verr.Fields,
		})
	}

	for _, known := range errorStatuses {
		if errors.Is(err, known.err) {
			return c.Status(known.status).JSON(fiber.Map{
				"error": known.err.Error(),
			})
		}
	}

	logger.Error(msg, zap.Error(err), zap.String("method", c.Method()), zap.String("path", c.Path()))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": msg,
	})
}
