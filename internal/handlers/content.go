package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medkala/medstore/internal/models"
	"github.com/medkala/medstore/internal/repo"
)

type ContentHandler struct {
	Repo *repo.GormRepo
}

func (h *ContentHandler) ListArticles(c echo.Context) error {
	articles, err := h.Repo.ListArticles(c.Request().Context())
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": articles})
}

func (h *ContentHandler) GetArticle(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, errors.New("invalid article id"))
	}

	article, err := h.Repo.GetArticle(c.Request().Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, article)
}

func (h *ContentHandler) CreateArticle(c echo.Context) error {
	var req struct {
		Title   string `json:"title"`
		Summary string `json:"summary"`
		Content string `json:"content"`
		Image   string `json:"image"`
		Date    string `json:"date"`
		Author  string `json:"author"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	if strings.TrimSpace(req.Title) == "" {
		return errorResponse(c, http.StatusBadRequest, errors.New("title is required"))
	}

	article := models.Article{
		Title:   req.Title,
		Summary: req.Summary,
		Content: req.Content,
		Image:   req.Image,
		Date:    req.Date,
		Author:  req.Author,
	}
	if err := h.Repo.CreateArticle(c.Request().Context(), &article); err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusCreated, article)
}

func (h *ContentHandler) ListStoreServices(c echo.Context) error {
	services, err := h.Repo.ListStoreServices(c.Request().Context())
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": services})
}

func (h *ContentHandler) ListReviews(c echo.Context) error {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, errors.New("invalid product id"))
	}

	reviews, err := h.Repo.ListReviews(c.Request().Context(), productID)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": reviews})
}

func (h *ContentHandler) CreateReview(c echo.Context) error {
	owner, err := userID(c)
	if err != nil {
		return domainError(c, err)
	}
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, errors.New("invalid product id"))
	}

	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	if req.Rating < 1 || req.Rating > 5 {
		return errorResponse(c, http.StatusBadRequest, errors.New("rating must be between 1 and 5"))
	}

	if _, err := h.Repo.GetProduct(c.Request().Context(), productID); err != nil {
		return domainError(c, err)
	}

	review := models.Review{
		ProductID: productID,
		UserID:    owner,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	var user models.User
	if err := h.Repo.DB.WithContext(c.Request().Context()).
		First(&user, "id = ?", owner).Error; err == nil {
		review.UserName = user.Username
	}
	if err := h.Repo.CreateReview(c.Request().Context(), &review); err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusCreated, review)
}
