package controller

import (
	"errors"
	"net/http"

	"nanocart/internal/dto"
	"nanocart/internal/repository"
	"nanocart/internal/response"
	"nanocart/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserController struct {
	Service *service.UserService
}

func NewUserController(s *service.UserService) *UserController {
	return &UserController{Service: s}
}

// GET /users/me
func (ctl *UserController) GetProfile(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid session")
		return
	}

	user, err := ctl.Service.GetProfile(c.Request.Context(), actor)
	if err != nil {
		ctl.writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, "profile fetched", user)
}

// PATCH /users/me
func (ctl *UserController) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWith(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	actor, ok := actorID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid session")
		return
	}

	user, err := ctl.Service.UpdateProfile(c.Request.Context(), actor, req)
	if err != nil {
		ctl.writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, "profile updated", user)
}

// GET /users/me/addresses
func (ctl *UserController) ListAddresses(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid session")
		return
	}

	addrs, err := ctl.Service.ListAddresses(c.Request.Context(), actor)
	if err != nil {
		ctl.writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, "addresses fetched", addrs)
}

// POST /users/me/addresses
func (ctl *UserController) AddAddress(c *gin.Context) {
	var req dto.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWith(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	actor, ok := actorID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid session")
		return
	}

	addr, err := ctl.Service.AddAddress(c.Request.Context(), actor, req)
	if err != nil {
		ctl.writeError(c, err)
		return
	}
	response.OK(c, http.StatusCreated, "address added", addr)
}

// PUT /users/me/addresses/:addressId
func (ctl *UserController) UpdateAddress(c *gin.Context) {
	addressID, err := primitive.ObjectIDFromHex(c.Param("addressId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid addressId")
		return
	}

	var req dto.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWith(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	actor, ok := actorID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid session")
		return
	}

	addr, err := ctl.Service.UpdateAddress(c.Request.Context(), actor, addressID, req)
	if err != nil {
		ctl.writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, "address updated", addr)
}

// DELETE /users/me/addresses/:addressId
func (ctl *UserController) RemoveAddress(c *gin.Context) {
	addressID, err := primitive.ObjectIDFromHex(c.Param("addressId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid addressId")
		return
	}

	actor, ok := actorID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid session")
		return
	}

	if err := ctl.Service.RemoveAddress(c.Request.Context(), actor, addressID); err != nil {
		ctl.writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, "address removed", nil)
}

// DELETE /users/me — baja de cuenta con cascada
func (ctl *UserController) DeleteAccount(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid session")
		return
	}

	if err := ctl.Service.DeleteAccount(c.Request.Context(), actor); err != nil {
		ctl.writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, "account deleted", nil)
}

func (ctl *UserController) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		response.Error(c, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrPendingOrders):
		response.ErrorWith(c, http.StatusConflict, "account has orders in progress", err)
	default:
		response.ErrorWith(c, http.StatusInternalServerError, "internal error", err)
	}
}
