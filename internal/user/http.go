// Copyright (c) 2026 Epylog. All rights reserved.

package user

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/epylog/epylog/internal/platform/constants"
	"github.com/epylog/epylog/internal/platform/middleware"
	requestutil "github.com/epylog/epylog/internal/platform/request"
	"github.com/epylog/epylog/internal/platform/respond"
	"github.com/epylog/epylog/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Public
	router.Get("/", handler.searchUsers)
	router.Post("/", handler.register)
	router.Post("/login", handler.login)

	// Session-bound. These operate on the caller's own account.
	router.Route("/me", func(me chi.Router) {
		me.Use(middleware.RequireAuth)

		me.Get("/", handler.self)
		me.Put("/", handler.updateSelf)
		me.Post("/logout", handler.logout)
		me.Post("/logoutall", handler.logoutAll)
	})

	router.Get("/{userId}", handler.getProfile)
}

// authResponse pairs an account with a freshly issued token.
type authResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// searchUsers handles GET /users?familyName=&page=&usersPerPage=
func (handler *Handler) searchUsers(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request, constants.ParamUsersPerPage)

	filter := Filter{
		FamilyName: request.URL.Query().Get("familyName"),
	}

	users, meta, err := handler.service.SearchUsers(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, meta)
}

func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input RegisterInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, token, err := handler.service.Register(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, authResponse{User: account, Token: token})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, token, err := handler.service.Login(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, authResponse{User: account, Token: token})
}

func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "userId")

	profile, err := handler.service.GetProfile(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, profile)
}

func (handler *Handler) self(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.service.GetAccount(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, account)
}

type updateUserRequest struct {
	Email       *string    `json:"email"`
	Password    *string    `json:"password"`
	GivenName   *string    `json:"givenName"`
	FamilyName  *string    `json:"familyName"`
	BirthDate   *time.Time `json:"birthDate"`
	Interests   []string   `json:"interests"`
	Description *string    `json:"description"`
}

func (handler *Handler) updateSelf(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.service.UpdateAccount(request.Context(), userID, Patch{
		Email:       input.Email,
		Password:    input.Password,
		GivenName:   input.GivenName,
		FamilyName:  input.FamilyName,
		BirthDate:   input.BirthDate,
		Interests:   input.Interests,
		Description: input.Description,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, account)
}

func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Logout(request.Context(), userID, requestutil.Token(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]string{"message": "Logged out"})
}

func (handler *Handler) logoutAll(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.LogoutAll(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]string{"message": "Logged out on all devices"})
}
