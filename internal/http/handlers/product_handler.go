package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"strconv"

	applog "stitchmart/internal/log"
	"stitchmart/internal/services"
	"stitchmart/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// POST /addproduct (multipart: fields + image files)
func (h *ProductHandler) Add(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "multipart form expected")
	}
	files, err := readImages(form)
	if err != nil {
		applog.Error(c, "product.add.readfiles", err, nil)
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	p, err := h.Catalog.Add(c.UserContext(), productInput(c), files)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			return fail(c, fiber.StatusBadRequest, "All fields are required")
		}
		applog.Error(c, "product.add.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	applog.Audit(c, "product.add", map[string]any{"id": p.ID, "name": p.Name})
	return c.JSON(fiber.Map{"success": true, "name": p.Name})
}

// PUT /editproduct/:id (multipart: fields + optional image files)
func (h *ProductHandler) Edit(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fail(c, fiber.StatusNotFound, "Product not found!")
	}
	form, err := c.MultipartForm()
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "multipart form expected")
	}
	files, err := readImages(form)
	if err != nil {
		applog.Error(c, "product.edit.readfiles", err, nil)
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	p, err := h.Catalog.Edit(c.UserContext(), id, productInput(c), files)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			return fail(c, fiber.StatusBadRequest, "All fields are required")
		case errors.Is(err, services.ErrNotFound):
			return fail(c, fiber.StatusNotFound, "Product not found!")
		}
		applog.Error(c, "product.edit.fail", err, map[string]any{"id": id})
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	applog.Audit(c, "product.edit", map[string]any{"id": id, "images_replaced": len(files) > 0})
	return c.JSON(fiber.Map{"success": true, "name": p.Name})
}

// POST /removeproduct {id}
func (h *ProductHandler) Remove(c *fiber.Ctx) error {
	var body struct {
		ID int64 `json:"id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	name, err := h.Catalog.Remove(c.UserContext(), body.ID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "Product not found!")
		}
		applog.Error(c, "product.remove.fail", err, map[string]any{"id": body.ID})
		return fail(c, fiber.StatusInternalServerError, "Error removing product")
	}
	applog.Audit(c, "product.remove", map[string]any{"id": body.ID, "name": name})
	return c.JSON(fiber.Map{"success": true, "name": name})
}

// GET /allproducts
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.Catalog.List()
	if err != nil {
		applog.Error(c, "product.list.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "Error fetching products")
	}
	return c.JSON(products)
}

// GET /product/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fail(c, fiber.StatusNotFound, "Product not found!")
	}
	p, err := h.Catalog.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "Product not found!")
		}
		applog.Error(c, "product.get.fail", err, map[string]any{"id": id})
		return fail(c, fiber.StatusInternalServerError, "Error fetching product")
	}
	return c.JSON(p)
}

func productInput(c *fiber.Ctx) services.ProductInput {
	available := true
	if v := c.FormValue("available"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			available = b
		}
	}
	return services.ProductInput{
		Name:        c.FormValue("name"),
		Category:    c.FormValue("category"),
		NewPrice:    c.FormValue("new_price"),
		OldPrice:    c.FormValue("old_price"),
		Description: c.FormValue("description"),
		Sizes:       validate.Sizes(c.FormValue("sizes")),
		Available:   available,
	}
}

func readImages(form *multipart.Form) ([]services.ImageFile, error) {
	var out []services.ImageFile
	for _, fh := range form.File["images"] {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, err
		}
		out = append(out, services.ImageFile{Name: fh.Filename, Data: data})
	}
	return out, nil
}
