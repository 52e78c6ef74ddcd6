package accident

import (
	"fmt"
	"net/http"

	"accident-service/helper"
	"accident-service/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

type AccidentHandler struct {
	accidentService AccidentService
}

func NewAccidentHandler(accidentService AccidentService) *AccidentHandler {
	return &AccidentHandler{
		accidentService: accidentService,
	}
}

func (h *AccidentHandler) ReportAccident(c *gin.Context) {

	var req ReportAccidentRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
		return
	}

	accident, err := h.accidentService.ReportAccident(c, &req)
	if err != nil {
		helper.SendServiceError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusCreated, "Countdown started", gin.H{
		"accident_id": accident.ID.Hex(),
		"status":      accident.Status,
	})
}

func (h *AccidentHandler) GetAccident(c *gin.Context) {

	accident, err := h.accidentService.GetAccident(c, c.Param("id"))
	if err != nil {
		helper.SendServiceError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "success", accident)
}

func (h *AccidentHandler) CancelAccident(c *gin.Context) {

	accident, err := h.accidentService.CancelAccident(c, c.Param("id"))
	if err != nil {
		helper.SendServiceError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "Accident cancelled", gin.H{
		"accident_id": accident.ID.Hex(),
		"status":      accident.Status,
	})
}

func (h *AccidentHandler) TriggerAlerts(c *gin.Context) {

	result, err := h.accidentService.TriggerAlerts(c, c.Param("id"))
	if err != nil {
		helper.SendServiceError(c, err)
		return
	}

	msg := "Alerts already sent"
	if result.Dispatched {
		msg = "Location link and alerts sent successfully"
	}
	helper.SendSuccess(c, http.StatusOK, msg, result)
}

func (h *AccidentHandler) AcceptEmergency(c *gin.Context) {

	var req AcceptEmergencyRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
		return
	}

	accident, err := h.accidentService.AcceptEmergency(c, c.Param("id"), &req)
	if err != nil {
		helper.SendServiceError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "Responders dispatched", accident)
}

func (h *AccidentHandler) Locate(c *gin.Context) {

	var req LocateRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
		return
	}
	if req.Lat == nil || req.Lon == nil {
		helper.SendServiceError(c, fmt.Errorf("%w: lat and lon are required", errs.ErrValidation))
		return
	}

	overview, err := h.accidentService.Locate(c, *req.Lat, *req.Lon)
	if err != nil {
		helper.SendServiceError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "success", overview)
}

func (h *AccidentHandler) AccidentMap(c *gin.Context) {

	accident, err := h.accidentService.GetAccident(c, c.Param("id"))
	if err != nil {
		helper.SendServiceError(c, err)
		return
	}

	c.Render(http.StatusOK, render.HTML{
		Template: mapTemplate,
		Name:     "map.html",
		Data: mapView{
			AccidentID: accident.ID.Hex(),
			Name:       accident.Name,
			Status:     accident.Status,
			Hospital:   accident.RespondingHospital,
			Lat:        accident.Location.Lat,
			Lon:        accident.Location.Lon,
			MapURL:     h.accidentService.MapLink(accident.Location),
		},
	})
}

func (h *AccidentHandler) LocationMap(c *gin.Context) {

	var req LocateRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
		return
	}
	if req.Lat == nil || req.Lon == nil {
		helper.SendServiceError(c, fmt.Errorf("%w: lat and lon are required", errs.ErrValidation))
		return
	}
	if err := ValidateCoordinates(*req.Lat, *req.Lon); err != nil {
		helper.SendServiceError(c, err)
		return
	}

	loc := Location{Lat: *req.Lat, Lon: *req.Lon}
	c.Render(http.StatusOK, render.HTML{
		Template: mapTemplate,
		Name:     "map.html",
		Data: mapView{
			Lat:    loc.Lat,
			Lon:    loc.Lon,
			MapURL: h.accidentService.MapLink(loc),
		},
	})
}
