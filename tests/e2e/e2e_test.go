//go:build integration

package e2e

// End-to-end integration tests using real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v
//
// Tokens are minted locally with the shared HMAC secret, the same way the
// external auth service issues them. The payment gateway is an httptest stub.

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rirobledo1/POSAI-sub001/internal/config"
	"github.com/rirobledo1/POSAI-sub001/internal/infra"
	"github.com/rirobledo1/POSAI-sub001/internal/middleware"
	"github.com/rirobledo1/POSAI-sub001/internal/router"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

const testSecret = "test-secret-key"

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func mintToken(t *testing.T, rol string) string {
	t.Helper()
	claims := middleware.JWTClaims{
		UserID:   "11111111-1111-1111-1111-111111111111",
		Nombre:   "Admin E2E",
		Rol:      rol,
		Sucursal: "matriz",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // administrador JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("posai_test"),
		tcPostgres.WithUsername("posai"),
		tcPostgres.WithPassword("posai"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	// Payment gateway stub — approves everything
	pasarelaSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"cargo_id":  "ch_e2e_001",
			"resultado": "aprobado",
		})
	}))
	t.Cleanup(pasarelaSrv.Close)

	cfg := &config.Config{
		Port:             8000,
		Env:              "test",
		JWTSecret:        testSecret,
		DatabaseURL:      pgURL,
		RedisURL:         rdURL,
		PasarelaURL:      pasarelaSrv.URL,
		WorkerPoolSize:   1,
		IVAPorcentaje:    16.0,
		EnvioCosto:       60.0,
		EnvioGratisDesde: 1000.0,
		Sucursal:         "matriz",
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	require.NoError(t, infra.RunMigrations(db))

	pasarela := infra.NewPasarelaClient(cfg.PasarelaURL, "test-key")
	cb := infra.NewCircuitBreaker(infra.DefaultCBConfig())

	r := router.New(cfg, db, rdb, pasarela, cb)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, token: mintToken(t, "administrador")}
}

func crearProducto(t *testing.T, env *testEnv, codigo, nombre string, precio float64, stock int) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/productos",
		jsonBody(t, map[string]any{
			"codigo":    codigo,
			"nombre":    nombre,
			"precio":    precio,
			"costo":     precio / 2,
			"stock":     stock,
			"publicado": true,
		}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &prod)
	return prod.ID
}

func abrirTurno(t *testing.T, env *testEnv, fondo float64) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/turnos/abrir",
		jsonBody(t, map[string]any{
			"sucursal":      "matriz",
			"turno_laboral": "matutino",
			"fondo_inicial": fondo,
		}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var turno struct {
		TurnoID string `json:"turno_id"`
	}
	decodeJSON(t, resp, &turno)
	return turno.TurnoID
}

// ── Tests ────────────────────────────────────────────────────────────────────

// Full POS cycle: abrir turno → venta en efectivo → corte cuadrado.
func TestE2E_CicloVentaYCorte(t *testing.T) {
	env := setupTestEnv(t)

	prodID := crearProducto(t, env, "E2E-001", "Gaseosa 500ml", 25.0, 20)
	turnoID := abrirTurno(t, env, 500.0)

	ventaResp := do(t, env.server, "POST", "/v1/ventas",
		jsonBody(t, map[string]any{
			"turno_id":    turnoID,
			"items":       []map[string]any{{"producto_id": prodID, "cantidad": 4}},
			"metodo_pago": "efectivo",
		}), env.token)
	require.Equal(t, http.StatusCreated, ventaResp.StatusCode)
	var venta struct {
		ID       string `json:"id"`
		Folio    int    `json:"folio"`
		Total    string `json:"total"`
		Subtotal string `json:"subtotal"`
		IVA      string `json:"iva"`
		Estado   string `json:"estado"`
	}
	decodeJSON(t, ventaResp, &venta)
	assert.Equal(t, "completada", venta.Estado)
	assert.Equal(t, 1, venta.Folio)
	assert.Equal(t, "100", venta.Total)
	assert.Equal(t, "86.21", venta.Subtotal)
	assert.Equal(t, "13.79", venta.IVA)

	// Corte: fondo 500 + venta 100 en efectivo = 500 + 100
	corteResp := do(t, env.server, "POST", "/v1/turnos/cerrar",
		jsonBody(t, map[string]any{
			"turno_id":         turnoID,
			"efectivo_contado": 600.0,
		}), env.token)
	require.Equal(t, http.StatusOK, corteResp.StatusCode)
	var corte struct {
		EfectivoEsperado string `json:"efectivo_esperado"`
		Diferencia       string `json:"diferencia"`
		Clasificacion    string `json:"clasificacion"`
		Estado           string `json:"estado"`
	}
	decodeJSON(t, corteResp, &corte)
	assert.Equal(t, "600", corte.EfectivoEsperado)
	assert.Equal(t, "cuadrado", corte.Clasificacion)
	assert.Equal(t, "cerrado", corte.Estado)
}

// Cancelling a sale restores stock and the item no longer counts toward the corte.
func TestE2E_CancelarVentaRestauraStock(t *testing.T) {
	env := setupTestEnv(t)

	prodID := crearProducto(t, env, "E2E-002", "Leche 1L", 30.0, 10)
	turnoID := abrirTurno(t, env, 200.0)

	ventaResp := do(t, env.server, "POST", "/v1/ventas",
		jsonBody(t, map[string]any{
			"turno_id":    turnoID,
			"items":       []map[string]any{{"producto_id": prodID, "cantidad": 3}},
			"metodo_pago": "efectivo",
		}), env.token)
	require.Equal(t, http.StatusCreated, ventaResp.StatusCode)
	var venta struct {
		ID string `json:"id"`
	}
	decodeJSON(t, ventaResp, &venta)

	cancelResp := do(t, env.server, "POST", "/v1/ventas/"+venta.ID+"/cancelar",
		jsonBody(t, map[string]any{"motivo": "Error de captura en prueba"}), env.token)
	assert.Equal(t, http.StatusNoContent, cancelResp.StatusCode)

	prodResp := do(t, env.server, "GET", "/v1/productos/"+prodID, nil, env.token)
	require.Equal(t, http.StatusOK, prodResp.StatusCode)
	var prod struct {
		Stock int `json:"stock"`
	}
	decodeJSON(t, prodResp, &prod)
	assert.Equal(t, 10, prod.Stock)

	// Cancelled sale no longer contributes to the expected cash
	corteResp := do(t, env.server, "POST", "/v1/turnos/cerrar",
		jsonBody(t, map[string]any{
			"turno_id":         turnoID,
			"efectivo_contado": 200.0,
		}), env.token)
	require.Equal(t, http.StatusOK, corteResp.StatusCode)
	var corte struct {
		EfectivoEsperado string `json:"efectivo_esperado"`
		Clasificacion    string `json:"clasificacion"`
	}
	decodeJSON(t, corteResp, &corte)
	assert.Equal(t, "200", corte.EfectivoEsperado)
	assert.Equal(t, "cuadrado", corte.Clasificacion)
}

// Storefront checkout charges the gateway and creates a paid pedido.
func TestE2E_CheckoutPedido(t *testing.T) {
	env := setupTestEnv(t)

	prodID := crearProducto(t, env, "E2E-003", "Audífonos BT", 200.0, 5)

	clienteResp := do(t, env.server, "POST", "/v1/clientes",
		jsonBody(t, map[string]any{
			"nombre": "Cliente E2E",
			"email":  "cliente@e2e.test",
		}), env.token)
	require.Equal(t, http.StatusCreated, clienteResp.StatusCode)
	var cliente struct {
		ID string `json:"id"`
	}
	decodeJSON(t, clienteResp, &cliente)

	checkoutResp := do(t, env.server, "POST", "/v1/pedidos/checkout",
		jsonBody(t, map[string]any{
			"cliente_id":      cliente.ID,
			"items":           []map[string]any{{"producto_id": prodID, "cantidad": 1}},
			"direccion_envio": "Av. Reforma 123, CDMX",
			"token_pago":      "tok_e2e_visa",
		}), env.token)
	require.Equal(t, http.StatusCreated, checkoutResp.StatusCode)
	var pedido struct {
		ID             string  `json:"id"`
		Total          string  `json:"total"`
		EnvioCosto     string  `json:"envio_costo"`
		Estado         string  `json:"estado"`
		ReferenciaPago *string `json:"referencia_pago"`
	}
	decodeJSON(t, checkoutResp, &pedido)
	assert.Equal(t, "pagado", pedido.Estado)
	assert.Equal(t, "260", pedido.Total) // 200 + 60 envío
	require.NotNil(t, pedido.ReferenciaPago)
	assert.Equal(t, "ch_e2e_001", *pedido.ReferenciaPago)

	// Stock decremented
	prodResp := do(t, env.server, "GET", "/v1/productos/"+prodID, nil, env.token)
	require.Equal(t, http.StatusOK, prodResp.StatusCode)
	var prod struct {
		Stock int `json:"stock"`
	}
	decodeJSON(t, prodResp, &prod)
	assert.Equal(t, 4, prod.Stock)
}

// Public price check works without a token and hides internals.
func TestE2E_ConsultaPrecioPublica(t *testing.T) {
	env := setupTestEnv(t)

	crearProducto(t, env, "E2E-004", "Café molido 500g", 180.0, 12)

	resp := do(t, env.server, "GET", "/v1/precio/E2E-004", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var precio struct {
		Nombre          string `json:"nombre"`
		Precio          string `json:"precio"`
		StockDisponible int    `json:"stock_disponible"`
	}
	decodeJSON(t, resp, &precio)
	assert.Equal(t, "Café molido 500g", precio.Nombre)
	assert.Equal(t, "180", precio.Precio)
	assert.Equal(t, 12, precio.StockDisponible)

	// Unknown code
	notFound := do(t, env.server, "GET", "/v1/precio/NO-EXISTE", nil, "")
	assert.Equal(t, http.StatusNotFound, notFound.StatusCode)
}

// Role enforcement: a cajero cannot create products.
func TestE2E_RolCajeroSinPermisoCatalogo(t *testing.T) {
	env := setupTestEnv(t)

	cajeroToken := mintToken(t, "cajero")
	resp := do(t, env.server, "POST", "/v1/productos",
		jsonBody(t, map[string]any{
			"codigo": "E2E-005", "nombre": "No permitido", "precio": 10.0, "stock": 1,
		}), cajeroToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// And no token at all is rejected outright
	noAuth := do(t, env.server, "GET", "/v1/ventas", nil, "")
	assert.Equal(t, http.StatusUnauthorized, noAuth.StatusCode)
}
