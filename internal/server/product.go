package server

import (
	"net/http"
	"strings"

	productdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/product/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListProducts(c *gin.Context) {
	var query struct {
		Page     string `form:"page"`
		Limit    string `form:"limit"`
		Category string `form:"categoria"`
		Search   string `form:"busca"`
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

	resp, err := s.productSvc.List(c.Request.Context(), productdomain.ListRequest{
		Category: strings.TrimSpace(query.Category),
		Search:   strings.TrimSpace(query.Search),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "", gin.H{
		"produtos":   resp.Items,
		"pagination": resp.Pagination,
	})
}

func (s *Server) GetProductByID(c *gin.Context) {
	resp, err := s.productSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"produto": resp})
}

func (s *Server) CreateProduct(c *gin.Context) {
	var req productdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.productSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Produto criado com sucesso", gin.H{"produto": resp})
}

func (s *Server) UpdateProduct(c *gin.Context) {
	var req productdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.productSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, http.StatusOK, "Produto atualizado com sucesso", gin.H{"produto": resp})
}

func (s *Server) DeleteProduct(c *gin.Context) {
	if err := s.productSvc.Deactivate(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, http.StatusOK, "Produto deletado com sucesso", nil)
}
