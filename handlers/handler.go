package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/hussein221k/Ecommerce/internal/auth"
	"github.com/hussein221k/Ecommerce/internal/cart"
	"github.com/hussein221k/Ecommerce/internal/config"
	"github.com/hussein221k/Ecommerce/internal/content"
	"github.com/hussein221k/Ecommerce/internal/favorites"
	"github.com/hussein221k/Ecommerce/internal/orders"
	"github.com/hussein221k/Ecommerce/internal/payments"
	"github.com/hussein221k/Ecommerce/internal/products"
	"github.com/hussein221k/Ecommerce/internal/reviews"
	"github.com/hussein221k/Ecommerce/internal/stores/kafka"
	"github.com/hussein221k/Ecommerce/internal/uploader"
	"github.com/hussein221k/Ecommerce/internal/users"
	"github.com/hussein221k/Ecommerce/middleware"
)

type Handler struct {
	p        products.Conf
	c        cart.Conf
	o        orders.Conf
	pay      payments.Conf
	rev      reviews.Conf
	fav      favorites.Conf
	u        users.Conf
	cnt      content.Conf
	a        *auth.Keys
	k        *kafka.Conf    // nil when no brokers are configured
	up       *uploader.Conf // nil when no endpoint is configured
	admin    config.AdminConfig
	validate *validator.Validate
}

type Deps struct {
	Products  products.Conf
	Cart      cart.Conf
	Orders    orders.Conf
	Payments  payments.Conf
	Reviews   reviews.Conf
	Favorites favorites.Conf
	Users     users.Conf
	Content   content.Conf
	Auth      *auth.Keys
	Kafka     *kafka.Conf
	Uploader  *uploader.Conf
	Admin     config.AdminConfig
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		p:        d.Products,
		c:        d.Cart,
		o:        d.Orders,
		pay:      d.Payments,
		rev:      d.Reviews,
		fav:      d.Favorites,
		u:        d.Users,
		cnt:      d.Content,
		a:        d.Auth,
		k:        d.Kafka,
		up:       d.Uploader,
		admin:    d.Admin,
		validate: validator.New(),
	}
}

func API(d Deps) *gin.Engine {
	r := gin.New()
	mode := os.Getenv("GIN_MODE")
	if mode == gin.ReleaseMode {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	m, err := middleware.NewMid(d.Auth)
	if err != nil {
		panic(err)
	}
	h := NewHandler(d)

	r.Use(middleware.Logger(), gin.Recovery())
	r.GET("/api/health", healthCheck)

	api := r.Group("/api")

	p := api.Group("/products")
	{
		p.GET("", h.ListProducts)
		p.GET("/:id", h.GetProduct)
		p.GET("/category/:category", h.ListProductsByCategory)

		p.POST("", m.Authentication(), m.Authorize(h.CreateProduct, auth.RoleAdmin))
		p.PUT("/:id", m.Authentication(), m.Authorize(h.UpdateProduct, auth.RoleAdmin))
		p.DELETE("/:id", m.Authentication(), m.Authorize(h.DeleteProduct, auth.RoleAdmin))
	}

	crt := api.Group("/cart")
	{
		crt.GET("/guest", h.GetGuestCart)
		crt.PUT("/guest", h.PutGuestCart)

		crt.Use(m.Authentication())
		crt.GET("", m.Authorize(h.GetCart, auth.RoleUser, auth.RoleAdmin))
		crt.POST("/add", m.Authorize(h.AddToCart, auth.RoleUser, auth.RoleAdmin))
		crt.POST("/remove", m.Authorize(h.RemoveFromCart, auth.RoleUser, auth.RoleAdmin))
		crt.PUT("/update", m.Authorize(h.UpdateCartItem, auth.RoleUser, auth.RoleAdmin))
		crt.DELETE("/clear", m.Authorize(h.ClearCart, auth.RoleUser, auth.RoleAdmin))
		crt.POST("/merge", m.Authorize(h.MergeCart, auth.RoleUser, auth.RoleAdmin))
	}

	o := api.Group("/orders")
	{
		o.POST("", m.OptionalAuthentication(), h.CreateOrder)

		o.GET("", m.Authentication(), m.Authorize(h.GetUserOrders, auth.RoleUser, auth.RoleAdmin))
		o.GET("/:id", m.Authentication(), h.GetOrder)
		o.PUT("/:id", m.Authentication(), m.Authorize(h.UpdateOrderStatus, auth.RoleAdmin))
		o.PUT("/:id/cancel", m.Authentication(), m.Authorize(h.CancelOrder, auth.RoleUser, auth.RoleAdmin))
		o.GET("/admin/all", m.Authentication(), m.Authorize(h.GetAllOrders, auth.RoleAdmin))
	}

	api.POST("/checkout", m.OptionalAuthentication(), h.Checkout)

	pay := api.Group("/payments")
	{
		pay.POST("/bank-transfer", m.OptionalAuthentication(), h.BankTransferPayment)
		pay.POST("/wallet", m.OptionalAuthentication(), h.WalletPayment)
		pay.GET("/transactions", m.Authentication(), m.Authorize(h.ListTransactions, auth.RoleAdmin))
	}

	rv := api.Group("/reviews")
	{
		rv.POST("", m.OptionalAuthentication(), h.CreateReview)
		rv.GET("/product/:productID", h.GetReviewsByProduct)
		rv.DELETE("/:id", m.Authentication(), h.DeleteReview)
	}

	fav := api.Group("/favorites")
	fav.Use(m.Authentication())
	{
		fav.POST("/add", m.Authorize(h.AddFavorite, auth.RoleUser, auth.RoleAdmin))
		fav.POST("/remove", m.Authorize(h.RemoveFavorite, auth.RoleUser, auth.RoleAdmin))
		fav.GET("", m.Authorize(h.GetMyFavorites, auth.RoleUser, auth.RoleAdmin))
		fav.GET("/check/:productID", m.Authorize(h.CheckFavorite, auth.RoleUser, auth.RoleAdmin))
	}

	usr := api.Group("/users")
	{
		usr.POST("/register", h.Signup)
		usr.POST("/login", h.UserLogin)
		usr.GET("/profile", m.Authentication(), h.GetProfile)
		usr.PUT("/profile", m.Authentication(), h.UpdateProfile)
	}

	adm := api.Group("/admin")
	{
		adm.POST("/login", h.AdminLogin)

		adm.Use(m.Authentication())
		adm.GET("/stats", m.Authorize(h.DashboardStats, auth.RoleAdmin))
		adm.GET("/users", m.Authorize(h.GetAllUsers, auth.RoleAdmin))
		adm.DELETE("/users/:id", m.Authorize(h.DeleteUser, auth.RoleAdmin))
	}

	cnt := api.Group("/content")
	{
		cnt.GET("/:key", h.GetContent)
		cnt.PUT("/:key", m.Authentication(), m.Authorize(h.PutContent, auth.RoleAdmin))
	}

	api.POST("/upload", m.Authentication(), h.UploadImage)

	return r
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Server is running"})
}
