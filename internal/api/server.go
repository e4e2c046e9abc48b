// Package api exposes workbook import and export over HTTP.
package api

import (
	"bytes"
	"context"
	"strconv"

	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/config"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/interchange"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/logging"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const (
	// XLSXContentType is the media type of exported workbooks.
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	exportFileName    = "financeiro.xlsx"
	exportCSVFileName = "financeiro.csv"
	userIDKey         = "userID"
)

// Server is the HTTP surface of the interchange engine. Authentication happens
// upstream; the caller's user id arrives in a trusted header.
type Server struct {
	app        *fiber.App
	engine     *interchange.Engine
	logger     logging.Logger
	userHeader string
}

// New builds a server with its routes registered.
func New(engine *interchange.Engine, cfg config.ServerConfig, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	s := &Server{
		engine:     engine,
		logger:     logger,
		userHeader: cfg.UserHeader,
	}
	s.app = fiber.New(fiber.Config{
		AppName:               "financeiro",
		BodyLimit:             cfg.BodyLimitMB * 1024 * 1024,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(logger),
	})
	s.app.Use(recover.New())

	excel := s.app.Group("/api/excel", s.requireUser)
	excel.Post("/import", s.handleImport)
	excel.Get("/export", s.handleExport)
	excel.Get("/export.csv", s.handleExportCSV)
	return s
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.logger.Info("HTTP server listening", logging.F("address", addr))
	return s.app.Listen(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) requireUser(c *fiber.Ctx) error {
	raw := c.Get(s.userHeader)
	id, err := strconv.ParseInt(raw, 10, 64)
	if raw == "" || err != nil || id <= 0 {
		return writeError(c, fiber.StatusUnauthorized, "unauthorized", "missing or invalid user identity")
	}
	c.Locals(userIDKey, id)
	return c.Next()
}

func userID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(userIDKey).(int64)
	return id
}

func (s *Server) handleImport(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "missing_file", "multipart field \"file\" is required")
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	s.logger.Debug("Import requested",
		logging.F(logging.FieldFile, fh.Filename),
		logging.F(logging.FieldUser, userID(c)))

	result, err := s.engine.Import(c.UserContext(), f, userID(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

func (s *Server) handleExport(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := s.engine.Export(c.UserContext(), &buf, userID(c)); err != nil {
		return err
	}
	c.Attachment(exportFileName)
	c.Set(fiber.HeaderContentType, XLSXContentType)
	return c.Send(buf.Bytes())
}

func (s *Server) handleExportCSV(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := s.engine.ExportCSV(c.UserContext(), &buf, userID(c)); err != nil {
		return err
	}
	c.Attachment(exportCSVFileName)
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(buf.Bytes())
}
