package userrequests

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// SignupPayload is the registration request body
type SignupPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Validate will validate the payload
func (p SignupPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required, validation.Length(6, 0)),
		validation.Field(&p.Role, validation.In(string(RoleUser), string(RoleAdmin))),
	)
}

// SigninPayload is the login request body
type SigninPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will validate the payload
func (p SigninPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required),
	)
}

// SubmitPayload is the request body for a new application
type SubmitPayload struct {
	Message string `json:"message"`
}

// Validate will validate the payload
func (p SubmitPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Message, validation.Required),
	)
}

// ResolvePayload is the request body for resolving an application
type ResolvePayload struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

// Validate will validate the payload
func (p ResolvePayload) Validate() error {
	if p.Status != StatusResolved {
		return errors.New(`Status must be "resolved"`, errors.CategoryValidation).
			WithTextCode("INVALID_STATUS").
			WithCode(errors.CodeBadRequest)
	}

	return validation.ValidateStruct(&p,
		validation.Field(&p.Comment, validation.Required),
	)
}

// AuthController exposes the credential endpoints
type AuthController struct {
	auther Authenticator
	logger Logger
}

// NewAuthController creates the auth controller
func NewAuthController(auther Authenticator) *AuthController {
	return &AuthController{
		auther: auther,
		logger: defLogger{},
	}
}

func (a *AuthController) WithLogger(logger Logger) *AuthController {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// RegisterRoutes mounts the public credential routes
func (a *AuthController) RegisterRoutes(router fiber.Router) {
	router.Post("/signup", a.SignUp)
	router.Post("/signin", a.SignIn)
}

// SignUp handles POST /auth/signup
func (a *AuthController) SignUp(c *fiber.Ctx) error {
	payload := SignupPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return respondError(c, a.logger, badBodyError(err))
	}

	if err := payload.Validate(); err != nil {
		return respondError(c, a.logger, validationError(err))
	}

	result, err := a.auther.SignUp(c.UserContext(), SignUpInput{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
		Role:     UserRole(payload.Role),
	})
	if err != nil {
		return respondError(c, a.logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// SignIn handles POST /auth/signin
func (a *AuthController) SignIn(c *fiber.Ctx) error {
	payload := SigninPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return respondError(c, a.logger, badBodyError(err))
	}

	if err := payload.Validate(); err != nil {
		return respondError(c, a.logger, validationError(err))
	}

	result, err := a.auther.SignIn(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return respondError(c, a.logger, err)
	}

	return c.JSON(result)
}

// RequestsController exposes the application lifecycle endpoints
type RequestsController struct {
	service *ApplicationService
	logger  Logger
}

// NewRequestsController creates the requests controller
func NewRequestsController(service *ApplicationService) *RequestsController {
	return &RequestsController{
		service: service,
		logger:  defLogger{},
	}
}

func (r *RequestsController) WithLogger(logger Logger) *RequestsController {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// RegisterRoutes mounts the lifecycle routes behind the given guards.
// Submitting only needs a signed in principal, everything else is
// an administrative operation.
func (r *RequestsController) RegisterRoutes(router fiber.Router, authenticated, adminOnly fiber.Handler) {
	router.Get("/", adminOnly, r.List)
	router.Post("/", authenticated, r.Submit)
	router.Get("/:id", adminOnly, r.Get)
	router.Patch("/:id", adminOnly, r.Resolve)
	router.Delete("/:id", adminOnly, r.Delete)
}

// List handles GET /requests
func (r *RequestsController) List(c *fiber.Ctx) error {
	filters := ApplicationFilters{
		Status:      c.Query("status"),
		OrderByDate: c.Query("orderByDate"),
	}

	records, err := r.service.List(c.UserContext(), filters)
	if err != nil {
		return respondError(c, r.logger, err)
	}

	return c.JSON(records)
}

// Get handles GET /requests/:id
func (r *RequestsController) Get(c *fiber.Ctx) error {
	record, err := r.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, r.logger, err)
	}

	return c.JSON(record)
}

// Submit handles POST /requests. The applicant's name and email come
// from the verified principal, never from the body.
func (r *RequestsController) Submit(c *fiber.Ctx) error {
	payload := SubmitPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return respondError(c, r.logger, badBodyError(err))
	}

	if err := payload.Validate(); err != nil {
		return respondError(c, r.logger, validationError(err))
	}

	claims, ok := principalFromCtx(c)
	if !ok {
		return respondError(c, r.logger, ErrMissingToken)
	}

	record, err := r.service.Submit(c.UserContext(), claims.Name(), claims.Email(), payload.Message)
	if err != nil {
		return respondError(c, r.logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

// Resolve handles PATCH /requests/:id
func (r *RequestsController) Resolve(c *fiber.Ctx) error {
	payload := ResolvePayload{}
	if err := c.BodyParser(&payload); err != nil {
		return respondError(c, r.logger, badBodyError(err))
	}

	if err := payload.Validate(); err != nil {
		return respondError(c, r.logger, validationError(err))
	}

	record, err := r.service.Resolve(c.UserContext(), c.Params("id"), payload.Comment)
	if err != nil {
		return respondError(c, r.logger, err)
	}

	return c.JSON(record)
}

// Delete handles DELETE /requests/:id
func (r *RequestsController) Delete(c *fiber.Ctx) error {
	record, err := r.service.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, r.logger, err)
	}

	return c.JSON(record)
}

// PrincipalContextKey is where the guard stores the verified claims
const PrincipalContextKey = "user"

func principalFromCtx(c *fiber.Ctx) (AuthClaims, bool) {
	if claims, ok := GetClaims(c.UserContext()); ok {
		return claims, true
	}

	claims, ok := c.Locals(PrincipalContextKey).(AuthClaims)
	return claims, ok
}

func badBodyError(err error) error {
	return errors.Wrap(err, errors.CategoryBadInput, "unable to parse request body").
		WithTextCode("BAD_BODY").
		WithCode(errors.CodeBadRequest)
}

func validationError(err error) error {
	var rich *errors.Error
	if errors.As(err, &rich) {
		return rich
	}

	return errors.Wrap(err, errors.CategoryValidation, "validation failed").
		WithTextCode("VALIDATION_FAILED").
		WithCode(errors.CodeBadRequest)
}

// respondError maps rich errors to their HTTP status and a uniform envelope
func respondError(c *fiber.Ctx, logger Logger, err error) error {
	status := fiber.StatusInternalServerError
	message := "internal server error"
	textCode := "INTERNAL"

	var rich *errors.Error
	if errors.As(err, &rich) {
		if rich.Code >= fiber.StatusBadRequest {
			status = int(rich.Code)
		} else {
			status = statusFromCategory(rich.Category)
		}
		message = rich.Message
		textCode = rich.TextCode
	}

	if status >= fiber.StatusInternalServerError {
		logger.Error("request failed: %v", err)
		message = "internal server error"
		textCode = "INTERNAL"
	}

	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"message":   message,
			"text_code": textCode,
		},
	})
}

func statusFromCategory(category errors.Category) int {
	switch category {
	case errors.CategoryValidation, errors.CategoryBadInput:
		return fiber.StatusBadRequest
	case errors.CategoryAuth:
		return fiber.StatusUnauthorized
	case errors.CategoryAuthz:
		return fiber.StatusForbidden
	case errors.CategoryNotFound:
		return fiber.StatusNotFound
	case errors.CategoryConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
