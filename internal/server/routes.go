package server

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"bptree"
)

func (s *Server) routes(router fiber.Router) {
	router.Post("/indexes", s.handleCreateIndex)
	router.Get("/indexes", s.handleListIndexes)
	router.Get("/indexes/:id/stats", s.handleStats)
	router.Delete("/indexes/:id", s.handleDropIndex)

	router.Put("/indexes/:id/keys/:key", s.handleInsert)
	router.Get("/indexes/:id/keys/:key", s.handleSearch)
	router.Delete("/indexes/:id/keys/:key", s.handleDelete)
	router.Get("/indexes/:id/range", s.handleRange)
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// errorHandler renders errors that escape a handler, including fiber's own
// 404 and 405 responses.
func errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		status = ferr.Code
	}
	return fail(c, status, err.Error())
}

func (s *Server) handleCreateIndex(c *fiber.Ctx) error {
	var body struct {
		Order *int `json:"order"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid json")
	}

	order := s.defaultOrder
	if body.Order != nil {
		order = *body.Order
	}

	idx, err := s.createIndex(order)
	switch {
	case errors.Is(err, bptree.ErrInvalidOrder):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, errTooManyIndexes):
		return fail(c, fiber.StatusInsufficientStorage, err.Error())
	case err != nil:
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":    idx.id.String(),
		"order": idx.tree.Order(),
	})
}

func (s *Server) handleListIndexes(c *fiber.Ctx) error {
	list := s.listIndexes()
	out := make([]fiber.Map, 0, len(list))
	for _, idx := range list {
		st := idx.stats()
		out = append(out, fiber.Map{
			"id":     idx.id.String(),
			"order":  idx.tree.Order(),
			"keys":   st.Keys,
			"height": st.Height,
		})
	}
	return c.JSON(fiber.Map{"indexes": out})
}

func (s *Server) handleStats(c *fiber.Ctx) error {
	idx, err := s.lookup(c)
	if err != nil {
		return err
	}

	st := idx.stats()
	return c.JSON(fiber.Map{
		"id":       idx.id.String(),
		"order":    idx.tree.Order(),
		"keys":     st.Keys,
		"leaves":   st.Leaves,
		"branches": st.Branches,
		"height":   st.Height,
	})
}

func (s *Server) handleDropIndex(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid index id")
	}
	if !s.dropIndex(id) {
		return fail(c, fiber.StatusNotFound, "index not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleInsert(c *fiber.Ctx) error {
	idx, key, err := s.lookupKey(c)
	if err != nil {
		return err
	}

	var body struct {
		Value *float64 `json:"value"`
	}
	if err := c.BodyParser(&body); err != nil || body.Value == nil {
		return fail(c, fiber.StatusBadRequest, "value required")
	}

	if err := idx.insert(key, *body.Value); errors.Is(err, errDuplicateKey) {
		return fail(c, fiber.StatusConflict, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(entry{Key: key, Value: *body.Value})
}

func (s *Server) handleSearch(c *fiber.Ctx) error {
	idx, key, err := s.lookupKey(c)
	if err != nil {
		return err
	}

	value, ok := idx.search(key)
	if !ok {
		return fail(c, fiber.StatusNotFound, "key not found")
	}
	return c.JSON(entry{Key: key, Value: value})
}

func (s *Server) handleDelete(c *fiber.Ctx) error {
	idx, key, err := s.lookupKey(c)
	if err != nil {
		return err
	}

	if !idx.delete(key) {
		return fail(c, fiber.StatusNotFound, "key not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleRange(c *fiber.Ctx) error {
	idx, err := s.lookup(c)
	if err != nil {
		return err
	}

	low, err := strconv.ParseInt(c.Query("low"), 10, 64)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid low bound")
	}
	high, err := strconv.ParseInt(c.Query("high"), 10, 64)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid high bound")
	}

	res := idx.searchRange(low, high)
	c.Set(fiber.HeaderETag, res.etag)
	if c.Get(fiber.HeaderIfNoneMatch) == res.etag {
		return c.SendStatus(fiber.StatusNotModified)
	}
	return c.JSON(fiber.Map{
		"low":     low,
		"high":    high,
		"entries": res.entries,
	})
}

// lookup resolves the :id parameter. Failures are fiber errors for
// errorHandler to render.
func (s *Server) lookup(c *fiber.Ctx) (*index, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid index id")
	}
	idx, ok := s.index(id)
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "index not found")
	}
	return idx, nil
}

func (s *Server) lookupKey(c *fiber.Ctx) (*index, int64, error) {
	idx, err := s.lookup(c)
	if err != nil {
		return nil, 0, err
	}
	key, err := strconv.ParseInt(c.Params("key"), 10, 64)
	if err != nil {
		return nil, 0, fiber.NewError(fiber.StatusBadRequest, "invalid key")
	}
	return idx, key, nil
}
