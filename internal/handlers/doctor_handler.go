package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/usecase/scheduling"
)

type DoctorHandler struct {
	doctors *scheduling.Doctors
}

func NewDoctorHandler(doctors *scheduling.Doctors) *DoctorHandler {
	return &DoctorHandler{doctors: doctors}
}

type CreateDoctorRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

func (h *DoctorHandler) Create(c *gin.Context) {
	var req CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		malformed(c)
		return
	}

	doc, err := h.doctors.Create(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.Created(c, dto.FromDoctor(doc))
}

func (h *DoctorHandler) Get(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	doc, err := h.doctors.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, dto.FromDoctor(doc))
}
