package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docman/internal/model"
)

// Identity headers set by the upstream gateway after authenticating the caller.
const (
	HeaderUserID      = "X-User-ID"
	HeaderLenderID    = "X-Lender-ID"
	HeaderPermissions = "X-User-Permissions"
	HeaderSuperuser   = "X-Superuser"

	// ActorLocalKey is the key used to store the resolved model.Actor in Fiber's context locals.
	ActorLocalKey = "actor"
)

// LenderResolver finds the lender of a user when the gateway does not send one.
type LenderResolver interface {
	LenderFor(ctx context.Context, userID string) (string, error)
}

// Actor resolves the caller from the identity headers and stores it under ActorLocalKey.
// Requests without X-User-ID are rejected with 401, a malformed X-Lender-ID with 400.
func Actor(lenders LenderResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get(HeaderUserID))
		if userID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing user identity")
		}

		actor := model.Actor{
			UserID:      userID,
			LenderID:    strings.TrimSpace(c.Get(HeaderLenderID)),
			Superuser:   strings.EqualFold(strings.TrimSpace(c.Get(HeaderSuperuser)), "true"),
			Permissions: parsePermissions(c.Get(HeaderPermissions)),
		}
		if actor.LenderID != "" {
			if _, err := uuid.Parse(actor.LenderID); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid "+HeaderLenderID+" format")
			}
		}
		if actor.LenderID == "" && lenders != nil {
			lenderID, err := lenders.LenderFor(c.UserContext(), userID)
			if err != nil {
				return err
			}
			actor.LenderID = lenderID
		}

		c.Locals(ActorLocalKey, actor)
		return c.Next()
	}
}

func parsePermissions(header string) []string {
	var perms []string
	for _, p := range strings.Split(header, ",") {
		if p = strings.TrimSpace(p); p != "" {
			perms = append(perms, p)
		}
	}
	return perms
}

// ActorFrom returns the actor stored by Actor.
func ActorFrom(c *fiber.Ctx) (model.Actor, bool) {
	actor, ok := c.Locals(ActorLocalKey).(model.Actor)
	return actor, ok
}

// RequirePermission rejects callers lacking perm with 403. It must run after Actor.
func RequirePermission(perm string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFrom(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "missing user identity")
		}
		if !actor.HasPerm(perm) {
			return fiber.NewError(fiber.StatusForbidden, "missing permission "+perm)
		}
		return c.Next()
	}
}

// RequireSuperuser rejects callers that are not superusers with 403. It must run after Actor.
func RequireSuperuser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFrom(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "missing user identity")
		}
		if !actor.Superuser {
			return fiber.NewError(fiber.StatusForbidden, "superuser required")
		}
		return c.Next()
	}
}
