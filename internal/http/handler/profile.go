package handler

import (
	"github.com/gofiber/fiber/v2"

	"docman/internal/service"
)

// CreateProfile godoc
// @Summary      User created hook
// @Description  Called by the identity provider after a user is created. Repeated calls return the existing profile.
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  model.Profile
// @Failure      400  {object}  errorPayload
// @Router       /users/{id}/profile [post]
func CreateProfile(svc service.ProfileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := svc.OnUserCreated(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	}
}

// AssignLender godoc
// @Summary  Assign a user to a lender
// @Tags     users
// @Accept   json
// @Produce  json
// @Param    id    path      string               true  "User ID"
// @Param    body  body      assignLenderRequest  true  "Lender"
// @Success  200   {object}  model.Profile
// @Failure  400   {object}  errorPayload
// @Router   /users/{id}/profile [put]
func AssignLender(svc service.ProfileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req assignLenderRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		}
		if !validID(req.LenderID) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_REQUEST", "invalid lender_id format")
		}
		p, err := svc.AssignLender(c.UserContext(), c.Params("id"), req.LenderID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	}
}
