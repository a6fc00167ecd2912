package server

import (
	"net/http"

	reportingdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/reporting/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) GetDashboardStats(c *gin.Context) {
	var query struct {
		StartDate string `form:"startDate"`
		EndDate   string `form:"endDate"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	start, err := parseOptionalTime(query.StartDate, false)
	if err != nil {
		AbortWithError(c, newValidationError("startDate", "invalid_date", "Data inicial inválida"))
		return
	}
	end, err := parseOptionalTime(query.EndDate, true)
	if err != nil {
		AbortWithError(c, newValidationError("endDate", "invalid_date", "Data final inválida"))
		return
	}

	stats, err := s.statsSvc.DashboardStats(c.Request.Context(), reportingdomain.DashboardRequest{
		Start: start,
		End:   end,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"data": stats})
}

func (s *Server) GetMonthlyRevenue(c *gin.Context) {
	rows, err := s.statsSvc.MonthlyRevenue(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"data": rows})
}
