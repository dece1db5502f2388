package serverutils

import (
	"fmt"
	"time"

	"bookease-be/internal/entity"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const actorKey = "actor"

// TokenIssuer signs and verifies access tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

func (t *TokenIssuer) Issue(userID uuid.UUID, role entity.UserRole) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"role":    string(role),
		"exp":     time.Now().Add(t.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

func (t *TokenIssuer) Parse(tokenStr string) (entity.Actor, error) {
	token, err := jwt.Parse(tokenStr, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return entity.Actor{}, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return entity.Actor{}, fmt.Errorf("invalid claims")
	}

	rawID, _ := claims["user_id"].(string)
	id, err := uuid.Parse(rawID)
	if err != nil {
		return entity.Actor{}, fmt.Errorf("invalid user_id claim")
	}
	role, _ := claims["role"].(string)
	switch entity.UserRole(role) {
	case entity.UserRoleAdmin, entity.UserRoleCustomer:
	default:
		return entity.Actor{}, fmt.Errorf("invalid role claim")
	}

	return entity.Actor{Id: id, Role: entity.UserRole(role)}, nil
}

// JwtMiddleware authenticates the bearer token and stores the Actor on the request.
func (t *TokenIssuer) JwtMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
	}

	actor, err := t.Parse(authHeader[7:])
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, err.Error()))
	}

	ctx.Locals(actorKey, actor)
	return ctx.Next()
}

// AdminOnly must run after JwtMiddleware.
func AdminOnly(ctx *fiber.Ctx) error {
	actor, ok := ActorFrom(ctx)
	if !ok || !actor.IsAdmin() {
		return ctx.Status(fiber.StatusForbidden).JSON(ErrorResponse(fiber.StatusForbidden, "Admin access required"))
	}
	return ctx.Next()
}

func ActorFrom(ctx *fiber.Ctx) (entity.Actor, bool) {
	actor, ok := ctx.Locals(actorKey).(entity.Actor)
	return actor, ok
}

// WithActor stores actor on the request. Used by tests and internal callers
// that authenticate by other means.
func WithActor(actor entity.Actor) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		ctx.Locals(actorKey, actor)
		return ctx.Next()
	}
}
