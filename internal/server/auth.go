package server

import (
	"net/http"

	authdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/auth/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) Login(c *gin.Context) {
	var req authdomain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	res, err := s.authsvc.Login(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "Autenticado com sucesso", gin.H{
		"token":      res.Token,
		"expires_at": res.ExpiresAt,
		"admin":      res.Admin,
	})
}

func (s *Server) Verify(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	respond(c, http.StatusOK, "Token válido", gin.H{"user": claims})
}

// Logout is an acknowledgement only; tokens expire on their own.
func (s *Server) Logout(c *gin.Context) {
	respond(c, http.StatusOK, "Deslogado com sucesso", nil)
}
