package user

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const (
	msgUserNotFound = "Usuario no encontrado"
	msgEmailTaken   = "El email ya está registrado"
	msgBadBody      = "El cuerpo de la petición no es JSON válido"
	msgBadID        = "El id debe ser numérico"
)

type Handler struct {
	service *Service
}

type createRequest struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	Website     *string `json:"website"`
	Gender      string  `json:"gender"`
	GenderOther *string `json:"gender_other"`
	Birthdate   string  `json:"birthdate"`
}

// updateRequest tracks which keys were present in the payload so that an
// explicit null can be told apart from an absent field for the nullable
// columns (website, gender_other).
type updateRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Website     *string `json:"website"`
	Gender      *string `json:"gender"`
	GenderOther *string `json:"gender_other"`
	Birthdate   *string `json:"birthdate"`

	websiteSet     bool
	genderOtherSet bool
}

func (r *updateRequest) UnmarshalJSON(b []byte) error {
	type plain updateRequest
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(b, &keys); err != nil {
		return err
	}
	*r = updateRequest(p)
	_, r.websiteSet = keys["website"]
	_, r.genderOtherSet = keys["gender_other"]
	return nil
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(app *fiber.App) {
	users := app.Group("/api/users")
	users.Get("/", h.listUsers)
	users.Post("/", h.createUser)
	users.Get("/:id", h.getUser)
	users.Put("/:id", h.updateUser)
	users.Delete("/:id", h.deleteUser)
}

func (h *Handler) listUsers(c *fiber.Ctx) error {
	users, err := h.service.List()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(users)
}

func (h *Handler) getUser(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": msgBadID})
	}

	u, err := h.service.GetByID(id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(u)
}

func (h *Handler) createUser(c *fiber.Ctx) error {
	payload := new(createRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": msgBadBody})
	}

	created, err := h.service.Create(CreateInput{
		Name:        payload.Name,
		Email:       payload.Email,
		Phone:       payload.Phone,
		Website:     payload.Website,
		Gender:      payload.Gender,
		GenderOther: payload.GenderOther,
		Birthdate:   payload.Birthdate,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) updateUser(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": msgBadID})
	}

	payload := new(updateRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": msgBadBody})
	}

	updated, err := h.service.Update(id, UpdateInput{
		Name:        payload.Name,
		Email:       payload.Email,
		Phone:       payload.Phone,
		Website:     OptionalString{Set: payload.websiteSet, Value: payload.Website},
		Gender:      payload.Gender,
		GenderOther: OptionalString{Set: payload.genderOtherSet, Value: payload.GenderOther},
		Birthdate:   payload.Birthdate,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(updated)
}

func (h *Handler) deleteUser(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": msgBadID})
	}

	if err := h.service.Delete(id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// writeError maps domain errors to the wire contract: validation failures
// and email conflicts are 400, missing users are 404, anything else is 500.
func writeError(c *fiber.Ctx, err error) error {
	var ve ValidationErrors
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": ve})
	case errors.Is(err, ErrEmailExists):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": msgEmailTaken})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": msgUserNotFound})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": err.Error()})
	}
}
