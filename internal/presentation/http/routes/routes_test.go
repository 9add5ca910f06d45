package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/stockroom-api/internal/application/service"
	"github.com/sangkips/stockroom-api/internal/config"
	"github.com/sangkips/stockroom-api/internal/domain/entity"
	"github.com/sangkips/stockroom-api/internal/domain/enum"
	"github.com/sangkips/stockroom-api/internal/domain/repository"
	"github.com/sangkips/stockroom-api/internal/infrastructure/session"
	"github.com/sangkips/stockroom-api/internal/presentation/http/handler"
	"github.com/sangkips/stockroom-api/pkg/pagination"
	"github.com/sangkips/stockroom-api/pkg/utils"
)

type materialRepo struct {
	materials map[uuid.UUID]entity.RawMaterial
}

func (r *materialRepo) Create(_ context.Context, m *entity.RawMaterial) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.materials[m.ID] = *m
	return nil
}

func (r *materialRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.RawMaterial, error) {
	m, ok := r.materials[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *materialRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]entity.RawMaterial, error) {
	out := []entity.RawMaterial{}
	for _, id := range ids {
		if m, ok := r.materials[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *materialRepo) GetByName(_ context.Context, name string) (*entity.RawMaterial, error) {
	for _, m := range r.materials {
		if strings.EqualFold(m.Name, name) {
			return &m, nil
		}
	}
	return nil, nil
}

func (r *materialRepo) Update(_ context.Context, m *entity.RawMaterial) error {
	r.materials[m.ID] = *m
	return nil
}

func (r *materialRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.materials, id)
	return nil
}

func (r *materialRepo) List(_ context.Context, _ *pagination.PaginationParams, _ string) ([]entity.RawMaterial, int64, error) {
	out := []entity.RawMaterial{}
	for _, m := range r.materials {
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

var _ repository.RawMaterialRepository = (*materialRepo)(nil)

type recipeRepo struct {
	recipes map[uuid.UUID]entity.Recipe
}

func (r *recipeRepo) Create(_ context.Context, rec *entity.Recipe) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	r.recipes[rec.ID] = *rec
	return nil
}

func (r *recipeRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Recipe, error) {
	rec, ok := r.recipes[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *recipeRepo) GetByName(_ context.Context, name string) (*entity.Recipe, error) {
	for _, rec := range r.recipes {
		if strings.EqualFold(rec.Name, name) {
			return &rec, nil
		}
	}
	return nil, nil
}

func (r *recipeRepo) Update(ctx context.Context, rec *entity.Recipe) error {
	return r.Create(ctx, rec)
}

func (r *recipeRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.recipes, id)
	return nil
}

func (r *recipeRepo) List(_ context.Context, _ *pagination.PaginationParams, _ string) ([]entity.Recipe, int64, error) {
	out := []entity.Recipe{}
	for _, rec := range r.recipes {
		out = append(out, rec)
	}
	return out, int64(len(out)), nil
}

var _ repository.RecipeRepository = (*recipeRepo)(nil)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Reason  string          `json:"reason"`
	Data    json.RawMessage `json:"data"`
	Meta    struct {
		RequestID string `json:"request_id"`
	} `json:"meta"`
}

type testServer struct {
	router *gin.Engine
	jwt    *utils.JWTManager
	steel  entity.RawMaterial
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	steel := entity.RawMaterial{ID: uuid.New(), Name: "Steel", Unit: "kg", CurrentStock: decimal.NewFromInt(30), CostPerUnit: decimal.NewFromInt(2)}
	materials := &materialRepo{materials: map[uuid.UUID]entity.RawMaterial{steel.ID: steel}}
	recipes := &recipeRepo{recipes: map[uuid.UUID]entity.Recipe{}}
	production := service.NewProductionService(materials, recipes, session.NewMemoryHistory(5))

	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	h := &Handlers{
		Auth:       handler.NewAuthHandler(nil),
		Billing:    handler.NewBillingHandler(nil),
		Bill:       handler.NewBillHandler(nil),
		Product:    handler.NewProductHandler(nil),
		Customer:   handler.NewCustomerHandler(nil),
		Production: handler.NewProductionHandler(production),
		Dashboard:  handler.NewDashboardHandler(nil),
		User:       handler.NewUserHandler(nil),
	}
	router := Setup(h, &Deps{JWTManager: jwtManager, Cfg: &config.Config{}})

	return &testServer{router: router, jwt: jwtManager, steel: steel}
}

func (s *testServer) token(t *testing.T, role enum.Role) string {
	t.Helper()
	tok, err := s.jwt.GenerateAccessToken(uuid.New(), "someone@shop.test", role.String(), role.Permissions())
	require.NoError(t, err)
	return tok
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "req-123")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func TestRoutes_RequireAuthentication(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/api/v1/production/history", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "req-123", env.Meta.RequestID)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))

	rec, _ = s.do(t, http.MethodGet, "/api/v1/production/history", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoutes_EnforcePermissions(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/api/v1/production/history", s.token(t, enum.RoleCashier), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, env.Success)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/roles", s.token(t, enum.RolePlanner), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRoutes_ProductionCalculate(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, enum.RolePlanner)

	rec, env := s.do(t, http.MethodPost, "/api/v1/production/recipes", token, map[string]interface{}{
		"name":                 "Frame",
		"complexity":           "medium",
		"estimated_time_hours": 1.5,
		"materials": []map[string]interface{}{
			{"material_id": s.steel.ID, "required_quantity_per_unit": 10},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var recipe struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &recipe))

	rec, env = s.do(t, http.MethodPost, "/api/v1/production/calculate", token, map[string]interface{}{
		"recipe_id": recipe.ID,
		"quantity":  5,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var calc struct {
		PossibleQuantity int      `json:"possible_quantity"`
		Feasible         bool     `json:"feasible"`
		Bottlenecks      []string `json:"bottlenecks"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &calc))
	assert.Equal(t, 3, calc.PossibleQuantity)
	assert.False(t, calc.Feasible)
	assert.Equal(t, []string{"Steel: short by 20 kg"}, calc.Bottlenecks)

	rec, env = s.do(t, http.MethodGet, "/api/v1/production/history", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &history))
	assert.Len(t, history, 1)
}

func TestRoutes_ProductionCalculateRejectsZeroQuantity(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, enum.RoleAdmin)

	rec, env := s.do(t, http.MethodPost, "/api/v1/production/calculate", token, map[string]interface{}{
		"recipe_id": uuid.New(),
		"quantity":  0,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, service.ReasonInvalidQuantity, env.Reason)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/production/recipes/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
