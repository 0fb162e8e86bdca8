package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Register mounts the storefront API. Cart and order routes sit behind
// the bearer-credential gate; catalog and auth routes are open.
func (d *Deps) Register(app *fiber.App) {
	// Catalog
	app.Post("/addproduct", d.ProductHandler.Add)
	app.Put("/editproduct/:id", d.ProductHandler.Edit)
	app.Post("/removeproduct", d.ProductHandler.Remove)
	app.Get("/allproducts", d.ProductHandler.List)
	app.Get("/product/:id", d.ProductHandler.Get)

	// Identity
	app.Post("/signup", d.AuthHandler.SignUp)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
	}), d.AuthHandler.LogIn)

	// Cart
	authed := RequireAuth(d.Auth)
	app.Post("/addtocart", authed, d.CartHandler.Add)
	app.Post("/removefromcart", authed, d.CartHandler.Remove)
	app.Get("/cartdata", authed, d.CartHandler.Data)

	// Orders
	app.Post("/placeorder", authed, d.OrderHandler.Place)
	app.Get("/orders/:orderId", authed, d.OrderHandler.View)
}
