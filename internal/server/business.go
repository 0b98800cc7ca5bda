package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	businessdomain "github.com/smallbiznis/folio/internal/business/domain"
	historydomain "github.com/smallbiznis/folio/internal/history/domain"
	"github.com/smallbiznis/folio/pkg/db/pagination"
)

func (s *Server) ListBusinesses(c *gin.Context) {
	var paging pagination.Pagination
	if err := c.ShouldBindQuery(&paging); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	from, err := parseOptionalTime(c.Query("from"), false)
	if err != nil {
		AbortWithError(c, newValidationError("from", "invalid_date", "invalid date"))
		return
	}
	to, err := parseOptionalTime(c.Query("to"), true)
	if err != nil {
		AbortWithError(c, newValidationError("to", "invalid_date", "invalid date"))
		return
	}

	res, err := s.businessSvc.List(c.Request.Context(), businessdomain.ListBusinessRequest{
		Pagination: paging,
		Search:     c.Query("search"),
		StartDate:  from,
		EndDate:    to,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (s *Server) CreateBusiness(c *gin.Context) {
	var req businessdomain.CreateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	created, err := s.businessSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (s *Server) GetBusiness(c *gin.Context) {
	business, err := s.businessSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, business)
}

func (s *Server) ListBusinessInvoices(c *gin.Context) {
	invoices, err := s.invoiceSvc.ListByBusiness(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": invoices})
}

func (s *Server) BusinessHistory(c *gin.Context) {
	business, err := s.businessSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	from, err := parseOptionalTime(c.Query("from"), false)
	if err != nil {
		AbortWithError(c, newValidationError("from", "invalid_date", "invalid date"))
		return
	}
	to, err := parseOptionalTime(c.Query("to"), true)
	if err != nil {
		AbortWithError(c, newValidationError("to", "invalid_date", "invalid date"))
		return
	}

	res, err := s.historySvc.Timeline(c.Request.Context(), historydomain.TimelineRequest{
		BusinessID: business.ID,
		Search:     c.Query("search"),
		StartDate:  from,
		EndDate:    to,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
