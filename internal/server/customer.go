package server

import (
	"net/http"
	"strings"

	customerdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/customer/domain"
	orderdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/order/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListCustomers(c *gin.Context) {
	var query struct {
		Page   string `form:"page"`
		Limit  string `form:"limit"`
		Search string `form:"busca"`
		Sort   string `form:"sort"`
		Order  string `form:"ordenar"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	page, limit, err := parsePage(query.Page, query.Limit)
	if err != nil {
		AbortWithError(c, invalidPageError())
		return
	}

	sort := strings.TrimSpace(query.Sort)
	if sort == "" {
		sort = strings.TrimSpace(query.Order)
	}

	resp, err := s.customerSvc.List(c.Request.Context(), customerdomain.ListCustomerRequest{
		Search: strings.TrimSpace(query.Search),
		Sort:   sort,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "", gin.H{
		"usuarios":   resp.Customers,
		"pagination": resp.Pagination,
	})
}

func (s *Server) CreateCustomer(c *gin.Context) {
	var req customerdomain.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Usuário cadastrado com sucesso", gin.H{"usuario": resp})
}

func (s *Server) GetCustomerByID(c *gin.Context) {
	resp, err := s.customerSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"usuario": resp})
}

func (s *Server) GetCustomerPoints(c *gin.Context) {
	points, err := s.customerSvc.Points(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"pontos": points})
}

func (s *Server) ListCustomerOrders(c *gin.Context) {
	var query struct {
		Page  string `form:"page"`
		Limit string `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	page, limit, err := parsePage(query.Page, query.Limit)
	if err != nil {
		AbortWithError(c, invalidPageError())
		return
	}

	resp, err := s.orderSvc.ListCustomerOrders(c.Request.Context(), orderdomain.ListCustomerOrdersRequest{
		CustomerID: strings.TrimSpace(c.Param("id")),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "", gin.H{
		"pedidos":    resp.Orders,
		"pagination": resp.Pagination,
	})
}
