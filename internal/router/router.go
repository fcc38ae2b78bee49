package router

import (
	"time"

	"github.com/rirobledo1/POSAI-sub001/internal/config"
	"github.com/rirobledo1/POSAI-sub001/internal/handler"
	"github.com/rirobledo1/POSAI-sub001/internal/infra"
	"github.com/rirobledo1/POSAI-sub001/internal/middleware"
	"github.com/rirobledo1/POSAI-sub001/internal/repository"
	"github.com/rirobledo1/POSAI-sub001/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, pasarela *infra.PasarelaClient, pasarelaCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	tasaIVA := decimal.NewFromFloat(cfg.IVAPorcentaje)
	envioCosto := decimal.NewFromFloat(cfg.EnvioCosto)
	envioGratis := decimal.NewFromFloat(cfg.EnvioGratisDesde)

	// ── Repositories ─────────────────────────────────────────────────────────
	productoRepo := repository.NewProductoRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	turnoRepo := repository.NewTurnoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	cotizacionRepo := repository.NewCotizacionRepository(db)
	suscripcionRepo := repository.NewSuscripcionRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	productoSvc := service.NewProductoService(productoRepo, rdb)
	categoriaSvc := service.NewCategoriaService(categoriaRepo)
	clienteSvc := service.NewClienteService(clienteRepo)
	turnoSvc := service.NewTurnoService(turnoRepo)
	ventaSvc := service.NewVentaService(ventaRepo, turnoSvc, productoRepo, tasaIVA)
	pedidoSvc := service.NewPedidoService(pedidoRepo, productoRepo, clienteRepo, pasarela, tasaIVA, envioCosto, envioGratis)
	cotizacionSvc := service.NewCotizacionService(cotizacionRepo, productoRepo, clienteRepo, tasaIVA)
	suscripcionSvc := service.NewSuscripcionService(suscripcionRepo, clienteRepo)
	dashboardSvc := service.NewDashboardService(ventaRepo, pedidoRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	productosH := handler.NewProductoHandler(productoSvc)
	categoriasH := handler.NewCategoriaHandler(categoriaSvc)
	clientesH := handler.NewClienteHandler(clienteSvc)
	turnosH := handler.NewTurnoHandler(turnoSvc)
	ventasH := handler.NewVentaHandler(ventaSvc)
	pedidosH := handler.NewPedidoHandler(pedidoSvc)
	cotizacionesH := handler.NewCotizacionHandler(cotizacionSvc)
	suscripcionesH := handler.NewSuscripcionHandler(suscripcionSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, pasarelaCB))

	// Price check — no auth required
	r.GET("/v1/precio/:codigo", productosH.ConsultaPrecio)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Turnos de caja
		turnos := v1.Group("/turnos")
		{
			turnos.POST("/abrir", middleware.RequireRole("cajero", "supervisor", "administrador"), turnosH.Abrir)
			turnos.POST("/cerrar", middleware.RequireRole("cajero", "supervisor", "administrador"), turnosH.Cerrar)
			turnos.GET("/historial", middleware.RequireRole("supervisor", "administrador"), turnosH.Historial)
			turnos.GET("/:id", middleware.RequireRole("cajero", "supervisor", "administrador"), turnosH.Resumen)
		}

		// Ventas de mostrador
		v1.POST("/ventas", middleware.RequireRole("cajero", "supervisor", "administrador"), ventasH.Registrar)
		v1.GET("/ventas", middleware.RequireRole("cajero", "supervisor", "administrador"), ventasH.Listar)
		v1.GET("/ventas/:id", middleware.RequireRole("cajero", "supervisor", "administrador"), ventasH.Obtener)
		v1.POST("/ventas/:id/cancelar", middleware.RequireRole("supervisor", "administrador"), ventasH.Cancelar)

		// Catálogo — all authenticated can read, administrador writes
		v1.GET("/productos", middleware.RequireRole("cajero", "supervisor", "administrador"), productosH.Listar)
		v1.GET("/productos/:id", middleware.RequireRole("cajero", "supervisor", "administrador"), productosH.Obtener)
		prods := v1.Group("/productos", middleware.RequireRole("administrador"))
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
		}

		v1.GET("/categorias", middleware.RequireRole("cajero", "supervisor", "administrador"), categoriasH.Listar)
		categorias := v1.Group("/categorias", middleware.RequireRole("administrador"))
		{
			categorias.POST("", categoriasH.Crear)
			categorias.PUT("/:id", categoriasH.Actualizar)
			categorias.DELETE("/:id", categoriasH.Desactivar)
		}

		// Clientes
		clientes := v1.Group("/clientes", middleware.RequireRole("cajero", "supervisor", "administrador"))
		{
			clientes.POST("", clientesH.Crear)
			clientes.GET("", clientesH.Listar)
			clientes.GET("/:id", clientesH.Obtener)
			clientes.PUT("/:id", clientesH.Actualizar)
		}
		v1.DELETE("/clientes/:id", middleware.RequireRole("administrador"), clientesH.Desactivar)

		// Tienda en línea
		v1.POST("/pedidos/checkout", middleware.RequireRole("cajero", "supervisor", "administrador"), pedidosH.Checkout)
		v1.GET("/pedidos", middleware.RequireRole("cajero", "supervisor", "administrador"), pedidosH.Listar)
		v1.GET("/pedidos/:id", middleware.RequireRole("cajero", "supervisor", "administrador"), pedidosH.Obtener)
		v1.PATCH("/pedidos/:id/estado", middleware.RequireRole("supervisor", "administrador"), pedidosH.ActualizarEstado)

		// Cotizaciones
		cotizaciones := v1.Group("/cotizaciones", middleware.RequireRole("cajero", "supervisor", "administrador"))
		{
			cotizaciones.POST("", cotizacionesH.Crear)
			cotizaciones.GET("", cotizacionesH.Listar)
			cotizaciones.GET("/:id", cotizacionesH.Obtener)
			cotizaciones.POST("/:id/aceptar", cotizacionesH.Aceptar)
		}

		// Suscripciones
		v1.GET("/planes", middleware.RequireRole("cajero", "supervisor", "administrador"), suscripcionesH.ListarPlanes)
		v1.POST("/planes", middleware.RequireRole("administrador"), suscripcionesH.CrearPlan)
		suscripciones := v1.Group("/suscripciones", middleware.RequireRole("supervisor", "administrador"))
		{
			suscripciones.POST("", suscripcionesH.Alta)
			suscripciones.GET("/:id", suscripcionesH.Obtener)
			suscripciones.GET("/:id/cargos", suscripcionesH.ListarCargos)
			suscripciones.POST("/:id/cancelar", suscripcionesH.Cancelar)
		}

		// Dashboard
		v1.GET("/dashboard/resumen", middleware.RequireRole("supervisor", "administrador"), dashboardH.ResumenDiario)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
