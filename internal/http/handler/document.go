package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docman/internal/http/middleware"
	"docman/internal/model"
	"docman/internal/service"
)

func actorFrom(c *fiber.Ctx) (model.Actor, error) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return model.Actor{}, fiber.NewError(fiber.StatusUnauthorized, "missing user identity")
	}
	return actor, nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// ListDocuments godoc
// @Summary      List documents
// @Description  Documents visible to the caller, newest first.
// @Tags         documents
// @Produce      json
// @Param        lender_document_id  query     string  false  "Restrict to one lender document"
// @Success      200                 {object}  documentListResponse
// @Failure      400                 {object}  errorPayload
// @Router       /documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFrom(c)
		if err != nil {
			return err
		}
		slotID := c.Query("lender_document_id")
		if slotID != "" && !validID(slotID) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_REQUEST", "invalid lender_document_id format")
		}

		docs, err := svc.List(c.UserContext(), actor, slotID)
		if err != nil {
			return writeServiceError(c, err)
		}

		res := documentListResponse{Items: make([]documentResponse, 0, len(docs))}
		for i := range docs {
			res.Items = append(res.Items, toDocumentResponse(&docs[i]))
		}
		return c.JSON(res)
	}
}

// CreateDraft godoc
// @Summary      Create a draft
// @Description  Stores content as the next minor version of a lender document.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        body  body      createDraftRequest  true  "Draft"
// @Success      201   {object}  documentResponse
// @Failure      400   {object}  errorPayload
// @Failure      500   {object}  errorPayload
// @Router       /documents [post]
func CreateDraft(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFrom(c)
		if err != nil {
			return err
		}
		var req createDraftRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		}
		if !validID(req.LenderDocumentID) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_REQUEST", "invalid lender_document_id format")
		}

		doc, err := svc.CreateDraft(c.UserContext(), actor, req.LenderDocumentID, req.Content)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(toDocumentResponse(doc))
	}
}

// GetDocument godoc
// @Summary      Get a document
// @Description  Returns a document version with its content.
// @Tags         documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  documentResponse
// @Failure      400  {object}  errorPayload
// @Router       /documents/{id} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFrom(c)
		if err != nil {
			return err
		}
		id := c.Params("id")
		if !validID(id) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_REQUEST", "invalid id format")
		}

		got, err := svc.GetContent(c.UserContext(), actor, id)
		if err != nil {
			return writeServiceError(c, err)
		}
		res := toDocumentResponse(got.Document)
		res.Content = &got.Content
		return c.JSON(res)
	}
}

// PublishDocument godoc
// @Summary      Publish a document
// @Description  Makes the document the active version of its lender document. Publishing the active document changes nothing.
// @Tags         documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  versionChangeResponse  "already active"
// @Success      201  {object}  versionChangeResponse  "published"
// @Failure      400  {object}  errorPayload
// @Failure      403  {object}  errorPayload
// @Router       /documents/{id}/publish [post]
func PublishDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFrom(c)
		if err != nil {
			return err
		}
		id := c.Params("id")
		if !validID(id) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_REQUEST", "invalid id format")
		}

		res, changed, err := svc.Publish(c.UserContext(), actor, id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return writeVersionChange(c, res, changed)
	}
}

// RevertDocument godoc
// @Summary      Revert to a document
// @Description  Creates a new draft with the content of the document. Reverting the active document changes nothing.
// @Tags         documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  versionChangeResponse  "already active"
// @Success      201  {object}  versionChangeResponse  "draft created"
// @Failure      400  {object}  errorPayload
// @Router       /documents/{id}/revert [post]
func RevertDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFrom(c)
		if err != nil {
			return err
		}
		id := c.Params("id")
		if !validID(id) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_REQUEST", "invalid id format")
		}

		res, changed, err := svc.Revert(c.UserContext(), actor, id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return writeVersionChange(c, res, changed)
	}
}

// writeVersionChange answers from the committed result alone; a second read would need
// read_document and could race the blob store.
func writeVersionChange(c *fiber.Ctx, got *service.DocumentContent, changed bool) error {
	status := fiber.StatusOK
	if changed {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(versionChangeResponse{
		Document: toDocumentResponse(got.Document),
		Content:  got.Content,
		Changed:  changed,
	})
}
