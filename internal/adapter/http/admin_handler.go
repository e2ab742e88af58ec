package http

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"egsa-loan-service/internal/adapter/middleware"
	appDomain "egsa-loan-service/internal/domain/application"
	appUC "egsa-loan-service/internal/usecase/application"
)

// AdminHandler gates the review workflow behind the shared credential:
// list, inspect, approve/reject, notify, delete, export, downloads.
type AdminHandler struct {
	uc            *appUC.Usecase
	adminPassword string
	jwtSecret     string
}

func NewAdminHandler(uc *appUC.Usecase, adminPassword, jwtSecret string) *AdminHandler {
	return &AdminHandler{uc: uc, adminPassword: adminPassword, jwtSecret: jwtSecret}
}

type loginReq struct {
	Password string `json:"password" validate:"required"`
}

func (h *AdminHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.adminPassword)) != 1 {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "wrong password"})
	}

	token, err := middleware.NewAdminToken(h.jwtSecret, 24*time.Hour)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not issue token"})
	}
	return c.JSON(http.StatusOK, map[string]string{"token": token})
}

func (h *AdminHandler) List(c echo.Context) error {
	rows, err := h.uc.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		if errors.Is(err, appDomain.ErrInvalidStatus) {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "status must be one of All, Pending, Approved, Rejected"})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not list applications"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"total":        len(rows),
		"applications": rows,
	})
}

func (h *AdminHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	dto, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return notFoundOrInternal(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type decisionReq struct {
	Comment string `json:"comment"`
}

func (h *AdminHandler) Approve(c echo.Context) error {
	return h.decide(c, h.uc.Approve)
}

func (h *AdminHandler) Reject(c echo.Context) error {
	return h.decide(c, h.uc.Reject)
}

func (h *AdminHandler) decide(c echo.Context, apply func(ctx context.Context, id uint64, comment string) (*appUC.ApplicationDTO, error)) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	var req decisionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	dto, err := apply(c.Request().Context(), id, req.Comment)
	if err != nil {
		return notFoundOrInternal(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AdminHandler) Notify(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	dto, err := h.uc.Notify(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, appDomain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
		}
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: "notification delivery failed"})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AdminHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not delete application"})
	}
	// idempotent hard delete: a repeated call also lands here
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) ExportCSV(c echo.Context) error {
	filter := c.QueryParam("status")
	out, err := h.uc.ExportCSV(c.Request().Context(), filter)
	if err != nil {
		if errors.Is(err, appDomain.ErrInvalidStatus) {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "status must be one of All, Pending, Approved, Rejected"})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not export applications"})
	}
	if filter == "" {
		filter = string(appDomain.FilterAll)
	}
	name := fmt.Sprintf("applications_%s_%s.csv", filter, time.Now().UTC().Format("20060102_1504"))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", out)
}

func (h *AdminHandler) DownloadSupportLetter(c echo.Context) error {
	return h.download(c, h.uc.SupportLetter, "support_letter_%d.pdf", "application/pdf")
}

func (h *AdminHandler) DownloadPhoto(c echo.Context) error {
	return h.download(c, h.uc.Photo, "photo_%d.png", "image/png")
}

func (h *AdminHandler) download(c echo.Context, fetch func(ctx context.Context, id uint64) ([]byte, error), nameFmt, contentType string) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	b, err := fetch(c.Request().Context(), id)
	if err != nil {
		return notFoundOrInternal(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="`+nameFmt+`"`, id))
	return c.Blob(http.StatusOK, contentType, b)
}

func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

func notFoundOrInternal(c echo.Context, err error) error {
	if errors.Is(err, appDomain.ErrNotFound) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	}
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "storage failure"})
}
