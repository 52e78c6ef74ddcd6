package user

import (
	"net/http"

	"accident-service/helper"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService UserService
}

func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) RegisterDevice(c *gin.Context) {

	var req RegisterDeviceRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
		return
	}

	if err := h.userService.RegisterDevice(c, &req); err != nil {
		helper.SendServiceError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "Registered", nil)
}

func (h *UserHandler) UpdateContacts(c *gin.Context) {

	var req UpdateContactsRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
		return
	}

	count, err := h.userService.UpdateContacts(c, &req)
	if err != nil {
		helper.SendServiceError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "success", gin.H{"user_id": req.UserID, "count": count})
}

func (h *UserHandler) GetProfile(c *gin.Context) {

	profile, err := h.userService.GetProfile(c, c.Param("id"))
	if err != nil {
		helper.SendServiceError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "success", profile)
}

func (h *UserHandler) TogglePrevention(c *gin.Context) {

	check, err := h.userService.TogglePrevention(c, c.Param("id"))
	if err != nil {
		helper.SendServiceError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "success", gin.H{"prevention": check})
}
