package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/usermgmt/internal/user/application"
	"github.com/davicafu/usermgmt/internal/user/domain"
	"github.com/davicafu/usermgmt/pkg/utils"
)

const dateLayout = "2006-01-02"

// UserHandler encapsula los endpoints HTTP relacionados con User
type UserHandler struct {
	service *application.UserService
}

// NewUserHandler crea un nuevo UserHandler
func NewUserHandler(service *application.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// userResponse fija el formato de fecha del contrato (YYYY-MM-DD).
type userResponse struct {
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	BirthDate   string `json:"birth_date"`
	Address     string `json:"address,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

func toResponse(u *domain.User) userResponse {
	return userResponse{
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		BirthDate:   u.BirthDate.Format(dateLayout),
		Address:     u.Address,
		PhoneNumber: u.PhoneNumber,
	}
}

// pathEmail valida el email del path antes de llegar al servicio.
func pathEmail(c *gin.Context) (string, bool) {
	email := c.Param("email")
	if !domain.IsValidEmail(email) {
		utils.SendBadRequest(c, "invalid email in path")
		return "", false
	}
	return email, true
}

// ---------------- Handlers ----------------

// CreateUser endpoint POST /api/user
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		FirstName   string `json:"first_name" binding:"required"`
		LastName    string `json:"last_name" binding:"required"`
		BirthDate   string `json:"birth_date" binding:"required"` // ISO8601, ej: 2000-01-01
		Address     string `json:"address"`
		PhoneNumber string `json:"phone_number"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	birthDate, err := time.Parse(dateLayout, req.BirthDate)
	if err != nil {
		utils.SendBadRequest(c, "invalid birth_date format, use YYYY-MM-DD")
		return
	}

	user := &domain.User{
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		BirthDate:   birthDate,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
	}

	if err := user.Validate(time.Now().UTC()); err != nil {
		utils.SendBusinessError(c, err)
		return
	}

	created, err := h.service.CreateUser(c.Request.Context(), user)
	if err != nil {
		utils.SendBusinessError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toResponse(created))
}

// GetUser endpoint GET /api/user/:email
func (h *UserHandler) GetUser(c *gin.Context) {
	email, ok := pathEmail(c)
	if !ok {
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), email)
	if err != nil {
		utils.SendBusinessError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(user))
}

// UpdateUser endpoint PATCH /api/user/:email — merge parcial campo a campo.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	email, ok := pathEmail(c)
	if !ok {
		return
	}

	var req struct {
		Email       *string `json:"email,omitempty" binding:"omitempty,email"`
		FirstName   *string `json:"first_name,omitempty"`
		LastName    *string `json:"last_name,omitempty"`
		BirthDate   *string `json:"birth_date,omitempty"` // ISO8601
		Address     *string `json:"address,omitempty"`
		PhoneNumber *string `json:"phone_number,omitempty"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	patch := domain.UserPatch{
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
	}

	if req.BirthDate != nil {
		bd, err := time.Parse(dateLayout, *req.BirthDate)
		if err != nil {
			utils.SendBadRequest(c, "invalid birth_date format, use YYYY-MM-DD")
			return
		}
		patch.BirthDate = &bd
	}

	merged, err := h.service.UpdateUser(c.Request.Context(), email, patch)
	if err != nil {
		utils.SendBusinessError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(merged))
}

// ReplaceUser endpoint PUT /api/user/:email — sustitución íntegra.
func (h *UserHandler) ReplaceUser(c *gin.Context) {
	email, ok := pathEmail(c)
	if !ok {
		return
	}

	var req struct {
		Email       string `json:"email" binding:"required,email"`
		FirstName   string `json:"first_name" binding:"required"`
		LastName    string `json:"last_name" binding:"required"`
		BirthDate   string `json:"birth_date" binding:"required"`
		Address     string `json:"address"`
		PhoneNumber string `json:"phone_number"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	birthDate, err := time.Parse(dateLayout, req.BirthDate)
	if err != nil {
		utils.SendBadRequest(c, "invalid birth_date format, use YYYY-MM-DD")
		return
	}

	user := &domain.User{
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		BirthDate:   birthDate,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
	}

	if err := user.Validate(time.Now().UTC()); err != nil {
		utils.SendBusinessError(c, err)
		return
	}

	replaced, err := h.service.ReplaceUser(c.Request.Context(), email, user)
	if err != nil {
		utils.SendBusinessError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(replaced))
}

// DeleteUser endpoint DELETE /api/user/:email
func (h *UserHandler) DeleteUser(c *gin.Context) {
	email, ok := pathEmail(c)
	if !ok {
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), email); err != nil {
		utils.SendBusinessError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SearchUsers endpoint GET /api/user/search?from=DATE&to=DATE
// Devuelve los usuarios con fecha de nacimiento en el rango inclusivo.
func (h *UserHandler) SearchUsers(c *gin.Context) {
	from, err := time.Parse(dateLayout, c.Query("from"))
	if err != nil {
		utils.SendBadRequest(c, "invalid 'from' date, use YYYY-MM-DD")
		return
	}
	to, err := time.Parse(dateLayout, c.Query("to"))
	if err != nil {
		utils.SendBadRequest(c, "invalid 'to' date, use YYYY-MM-DD")
		return
	}

	users, err := h.service.FindUsersByBirthDateRange(c.Request.Context(), from, to)
	if err != nil {
		utils.SendBusinessError(c, err)
		return
	}

	results := make([]userResponse, 0, len(users))
	for _, u := range users {
		results = append(results, toResponse(u))
	}

	c.JSON(http.StatusOK, results)
}
