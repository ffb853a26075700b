package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marketplace/backend/internal/interfaces/http/handler"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
		registrars: make([]RouteRegistrar, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds RouteRegistrars to be registered later
func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

// Setup registers all routes under /api/<version>
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// DomainGroup collects the routes of one area of the API
type DomainGroup struct {
	name       string
	prefix     string
	routes     []routeDefinition
	subgroups  []*DomainGroup
	middleware []gin.HandlerFunc
}

type routeDefinition struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a new domain-specific route group
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{
		name:   name,
		prefix: prefix,
	}
}

// Use adds middleware to this group. Nil entries are skipped so optional
// guards can be passed unconditionally.
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, compact(middleware)...)
	return dg
}

// GET registers a GET route
func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodGet, path, handlers)
}

// POST registers a POST route
func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPost, path, handlers)
}

// PUT registers a PUT route
func (dg *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPut, path, handlers)
}

// DELETE registers a DELETE route
func (dg *DomainGroup) DELETE(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodDelete, path, handlers)
}

func (dg *DomainGroup) handle(method, path string, handlers []gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{method: method, path: path, handlers: compact(handlers)})
	return dg
}

// Group creates a sub-group within this domain
func (dg *DomainGroup) Group(name, prefix string) *DomainGroup {
	subgroup := NewDomainGroup(name, prefix)
	dg.subgroups = append(dg.subgroups, subgroup)
	return subgroup
}

// RegisterRoutes implements RouteRegistrar interface
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix, dg.middleware...)
	for _, route := range dg.routes {
		group.Handle(route.method, route.path, route.handlers...)
	}
	for _, subgroup := range dg.subgroups {
		subgroup.RegisterRoutes(group)
	}
}

// Name returns the group name
func (dg *DomainGroup) Name() string {
	return dg.name
}

// Prefix returns the group prefix
func (dg *DomainGroup) Prefix() string {
	return dg.prefix
}

func compact(handlers []gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}

// Handlers bundles the endpoint handlers of the marketplace API
type Handlers struct {
	User    *handler.UserHandler
	Contact *handler.ContactHandler
	Partner *handler.PartnerHandler
	Catalog *handler.CatalogHandler
	Basket  *handler.BasketHandler
	Order   *handler.OrderHandler
}

// Guards are the access checks mounted on protected groups. Login throttles
// credential checks and may be nil.
type Guards struct {
	Auth  gin.HandlerFunc
	Shop  gin.HandlerFunc
	Login gin.HandlerFunc
}

// Marketplace returns the route table of the marketplace API
func Marketplace(h Handlers, g Guards) []RouteRegistrar {
	user := NewDomainGroup("user", "/user").
		POST("/register", h.User.Register).
		POST("/register/confirm", h.User.ConfirmEmail).
		POST("/login", g.Login, h.User.Login).
		POST("/password_reset", h.User.RequestPasswordReset).
		POST("/password_reset/confirm", h.User.ConfirmPasswordReset)
	user.Group("account", "").Use(g.Auth).
		GET("/details", h.User.GetDetails).
		POST("/details", h.User.UpdateDetails).
		GET("/contact", h.Contact.List).
		POST("/contact", h.Contact.Create).
		PUT("/contact", h.Contact.Update).
		DELETE("/contact", h.Contact.Delete)

	partner := NewDomainGroup("partner", "/partner").Use(g.Auth, g.Shop).
		POST("/update", h.Partner.UpdatePriceList).
		GET("/state", h.Partner.GetState).
		POST("/state", h.Partner.SetState).
		GET("/orders", h.Partner.ListOrders)

	catalog := NewDomainGroup("catalog", "").
		GET("/categories", h.Catalog.ListCategories).
		GET("/shops", h.Catalog.ListShops).
		GET("/products", h.Catalog.ListProducts)

	basket := NewDomainGroup("basket", "/basket").Use(g.Auth).
		GET("", h.Basket.Get).
		POST("", h.Basket.Add).
		PUT("", h.Basket.Update).
		DELETE("", h.Basket.Delete)

	order := NewDomainGroup("order", "/order").Use(g.Auth).
		GET("", h.Order.List).
		POST("", h.Order.Place)

	return []RouteRegistrar{user, partner, catalog, basket, order}
}
