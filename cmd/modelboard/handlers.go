package main

import (
	"crypto/subtle"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/modelboard/modelboard/catalog"

	"github.com/labstack/echo/v4"
)

type GenericError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type GenericStatus struct {
	Daemon  string `json:"daemon"`
	Status  string `json:"status"`
	Message string `json:"msg,omitempty"`
}

func (srv *Server) handleGetModels(c echo.Context) error {
	ctx := c.Request().Context()

	res, err := srv.fetcher.GetModels(ctx)
	if err != nil {
		return c.JSON(503, GenericError{
			Error:   "UpstreamUnavailable",
			Message: err.Error(),
		})
	}

	h := c.Response().Header()
	h.Set("X-Cache", string(res.Status))
	if res.Status == catalog.StatusStale {
		h.Set("X-Cache-Reason", "upstream-error")
	}
	return c.JSONBlob(200, res.Body)
}

type defaultsBody struct {
	Defaults []string `json:"defaults"`
}

func (srv *Server) handleGetDefaults(c echo.Context) error {
	return c.JSON(200, defaultsBody{Defaults: srv.defaults.List()})
}

func (srv *Server) handleReplaceDefaults(c echo.Context) error {
	var body defaultsBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(400, GenericError{
			Error:   "InvalidBody",
			Message: err.Error(),
		})
	}
	if err := srv.defaults.Replace(body.Defaults); err != nil {
		return c.JSON(400, GenericError{
			Error:   "InvalidDefaults",
			Message: err.Error(),
		})
	}
	srv.logger.Info("replaced default model list", "count", len(body.Defaults))
	return c.JSON(200, defaultsBody{Defaults: srv.defaults.List()})
}

// checkAdminAuth guards admin routes with the single shared secret, accepted
// either as a Bearer token or as the password of a Basic challenge. With no
// secret configured the routes are disabled outright.
func (srv *Server) checkAdminAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if srv.adminToken == "" {
			return echo.ErrForbidden
		}

		var token string
		authheader := c.Request().Header.Get("Authorization")
		if strings.HasPrefix(authheader, "Bearer ") {
			token = strings.TrimPrefix(authheader, "Bearer ")
		} else if _, pass, ok := c.Request().BasicAuth(); ok {
			token = pass
		} else {
			return echo.ErrForbidden
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(srv.adminToken)) != 1 {
			return echo.ErrForbidden
		}
		return next(c)
	}
}

func (srv *Server) handleIndex(c echo.Context) error {
	body, err := fs.ReadFile(srv.staticFS, "index.html")
	if err != nil {
		return err
	}
	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.HTMLBlob(http.StatusOK, body)
}

// handleFallback serves the SPA index for any unmatched GET, so client-side
// routes survive a page reload. API paths still 404.
func (srv *Server) handleFallback(c echo.Context) error {
	if strings.HasPrefix(c.Request().URL.Path, "/api/") || c.Request().Method != http.MethodGet {
		return echo.ErrNotFound
	}
	return srv.handleIndex(c)
}

// handleAsset serves versioned static assets with an aggressive cache
// policy; asset filenames change when content does.
func (srv *Server) handleAsset(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	srv.assets.ServeHTTP(c.Response(), c.Request())
	return nil
}

func (srv *Server) errorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	var errorMessage string
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		errorMessage = fmt.Sprintf("%s", he.Message)
	}
	if code >= 500 {
		slog.Warn("modelboard-http-internal-error", "err", err)
	}
	if !c.Response().Committed {
		c.JSON(code, GenericStatus{Status: "error", Daemon: "modelboard", Message: errorMessage})
	}
}

func (srv *Server) HandleHealthCheck(c echo.Context) error {
	return c.JSON(200, GenericStatus{Status: "ok", Daemon: "modelboard"})
}
