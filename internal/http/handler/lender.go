package handler

import (
	"github.com/gofiber/fiber/v2"

	"docman/internal/service"
)

// ListLenders godoc
// @Summary  List lenders
// @Tags     lenders
// @Produce  json
// @Success  200  {object}  lenderListResponse
// @Failure  403  {object}  errorPayload
// @Router   /lenders [get]
func ListLenders(svc service.LenderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFrom(c)
		if err != nil {
			return err
		}
		items, err := svc.List(c.UserContext(), actor)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(lenderListResponse{Items: items})
	}
}

// CreateLender godoc
// @Summary  Create a lender
// @Tags     lenders
// @Accept   json
// @Produce  json
// @Param    body  body      createLenderRequest  true  "Lender"
// @Success  201   {object}  model.Lender
// @Failure  400   {object}  errorPayload
// @Router   /lenders [post]
func CreateLender(svc service.LenderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFrom(c)
		if err != nil {
			return err
		}
		var req createLenderRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		}
		l, err := svc.Create(c.UserContext(), actor, req.Name)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(l)
	}
}

// GetLender godoc
// @Summary  Get a lender
// @Tags     lenders
// @Produce  json
// @Param    id   path      string  true  "Lender ID"
// @Success  200  {object}  model.Lender
// @Failure  400  {object}  errorPayload
// @Router   /lenders/{id} [get]
func GetLender(svc service.LenderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFrom(c)
		if err != nil {
			return err
		}
		id := c.Params("id")
		if !validID(id) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_REQUEST", "invalid id format")
		}
		l, err := svc.Get(c.UserContext(), actor, id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(l)
	}
}

// ListLenderDocuments godoc
// @Summary  List lender documents
// @Tags     lender-documents
// @Produce  json
// @Success  200  {object}  lenderDocumentListResponse
// @Router   /lender-documents [get]
func ListLenderDocuments(svc service.LenderDocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFrom(c)
		if err != nil {
			return err
		}
		items, err := svc.List(c.UserContext(), actor)
		if err != nil {
			return writeServiceError(c, err)
		}
		res := lenderDocumentListResponse{Items: make([]lenderDocumentResponse, 0, len(items))}
		for i := range items {
			res.Items = append(res.Items, toLenderDocumentResponse(&items[i]))
		}
		return c.JSON(res)
	}
}

// CreateLenderDocument godoc
// @Summary      Create a lender document
// @Description  lender_id defaults to the caller's lender.
// @Tags         lender-documents
// @Accept       json
// @Produce      json
// @Param        body  body      createLenderDocumentRequest  true  "Lender document"
// @Success      201   {object}  lenderDocumentResponse
// @Failure      400   {object}  errorPayload
// @Router       /lender-documents [post]
func CreateLenderDocument(svc service.LenderDocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFrom(c)
		if err != nil {
			return err
		}
		var req createLenderDocumentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		}
		if req.LenderID != "" && !validID(req.LenderID) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_REQUEST", "invalid lender_id format")
		}
		ld, err := svc.Create(c.UserContext(), actor, req.LenderID, req.Name)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(toLenderDocumentResponse(ld))
	}
}

// GetLenderDocument godoc
// @Summary  Get a lender document
// @Tags     lender-documents
// @Produce  json
// @Param    id   path      string  true  "Lender document ID"
// @Success  200  {object}  lenderDocumentResponse
// @Failure  400  {object}  errorPayload
// @Router   /lender-documents/{id} [get]
func GetLenderDocument(svc service.LenderDocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFrom(c)
		if err != nil {
			return err
		}
		id := c.Params("id")
		if !validID(id) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_REQUEST", "invalid id format")
		}
		ld, err := svc.Get(c.UserContext(), actor, id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(toLenderDocumentResponse(ld))
	}
}
