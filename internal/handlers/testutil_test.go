package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/mangatarem/tourism-backend/internal/database"
	"github.com/mangatarem/tourism-backend/internal/mailer"
	"github.com/mangatarem/tourism-backend/internal/middleware"
	"github.com/mangatarem/tourism-backend/internal/models"
	"github.com/mangatarem/tourism-backend/internal/services"
	"github.com/mangatarem/tourism-backend/pkg/logger"
	"github.com/mangatarem/tourism-backend/pkg/utils"
	"gorm.io/gorm"
)

type testEnv struct {
	app   *fiber.App
	db    *gorm.DB
	store *fakeObjectStore
}

// fakeObjectStore keeps uploads in memory and hands out deterministic URLs.
type fakeObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}}
}

func (f *fakeObjectStore) Upload(_ context.Context, objectName string, reader io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[objectName] = data
	return nil
}

func (f *fakeObjectStore) Delete(_ context.Context, objectName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, objectName)
	return nil
}

func (f *fakeObjectStore) PublicURL(objectName string) string {
	return "http://media.test/tourism-media/" + objectName
}

func (f *fakeObjectStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

var testSetupOnce sync.Once

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	testSetupOnce.Do(func() {
		logger.Init()
		utils.ConfigureJWT("test-secret", 24)
	})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed migrating models: %v", err)
	}

	store := newFakeObjectStore()

	moderationService := services.NewModerationService(db)
	mediaService := services.NewMediaService(store)
	aggregationService := services.NewAggregationService(db)
	accountService := services.NewAccountService(db, mailer.Nop{})

	authHandler := NewAuthHandler(accountService)
	usersHandler := NewUsersHandler(db, accountService)
	attractionsHandler := NewAttractionsHandler(db, moderationService, mediaService, aggregationService)
	eventsHandler := NewEventsHandler(db, moderationService, mediaService)
	galleryHandler := NewGalleryHandler(db, moderationService, mediaService, aggregationService)
	barangaysHandler := NewBarangaysHandler(db, aggregationService)
	dashboardHandler := NewDashboardHandler(db)

	authMiddleware := middleware.NewAuthMiddleware(db)

	app := fiber.New(fiber.Config{BodyLimit: 100 * 1024 * 1024})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS())
	app.Use(middleware.RequestLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Get("/me", authMiddleware.RequireAuth, authHandler.Me)

	attractionRoutes := api.Group("/attractions")
	attractionRoutes.Get("/", attractionsHandler.List)
	attractionRoutes.Get("/barangays", attractionsHandler.Barangays)
	attractionRoutes.Get("/:id", authMiddleware.OptionalAuth, attractionsHandler.Get)
	attractionRoutes.Post("/", authMiddleware.RequireAuth, attractionsHandler.Create)
	attractionRoutes.Put("/:id", authMiddleware.RequireAuth, attractionsHandler.Update)
	attractionRoutes.Delete("/:id", authMiddleware.RequireAuth, attractionsHandler.Delete)

	eventRoutes := api.Group("/events")
	eventRoutes.Get("/", eventsHandler.List)
	eventRoutes.Get("/:id", authMiddleware.OptionalAuth, eventsHandler.Get)
	eventRoutes.Post("/", authMiddleware.RequireAuth, eventsHandler.Create)
	eventRoutes.Put("/:id", authMiddleware.RequireAuth, eventsHandler.Update)
	eventRoutes.Delete("/:id", authMiddleware.RequireAuth, eventsHandler.Delete)

	galleryRoutes := api.Group("/gallery")
	galleryRoutes.Get("/", galleryHandler.List)
	galleryRoutes.Get("/barangays", galleryHandler.Barangays)
	galleryRoutes.Post("/", authMiddleware.RequireAuth, galleryHandler.Create)
	galleryRoutes.Put("/:id", authMiddleware.RequireAuth, galleryHandler.Update)
	galleryRoutes.Delete("/:id", authMiddleware.RequireAuth, galleryHandler.Delete)

	api.Get("/barangays", barangaysHandler.Directory)
	api.Get("/barangays/:name", barangaysHandler.Profile)

	contributorRoutes := api.Group("/barangay", authMiddleware.RequireAuth, middleware.ContributorOnly)
	contributorRoutes.Get("/dashboard", barangaysHandler.Dashboard)
	contributorRoutes.Get("/attractions", barangaysHandler.MyAttractions)
	contributorRoutes.Get("/events", barangaysHandler.MyEvents)
	contributorRoutes.Get("/gallery", barangaysHandler.MyGallery)
	contributorRoutes.Get("/profile", barangaysHandler.MyProfile)
	contributorRoutes.Put("/profile", barangaysHandler.UpsertProfile)

	adminRoutes := api.Group("/admin", authMiddleware.RequireAuth, middleware.AdminOnly)
	adminRoutes.Get("/dashboard", dashboardHandler.Admin)
	adminRoutes.Get("/users", usersHandler.List)
	adminRoutes.Get("/users/pending", usersHandler.Pending)
	adminRoutes.Post("/users/:id/approve", usersHandler.Approve)
	adminRoutes.Delete("/users/:id", usersHandler.Reject)
	adminRoutes.Get("/attractions/pending", attractionsHandler.Pending)
	adminRoutes.Post("/attractions/:id/approve", attractionsHandler.Approve)
	adminRoutes.Post("/attractions/:id/reject", attractionsHandler.Reject)
	adminRoutes.Get("/events/pending", eventsHandler.Pending)
	adminRoutes.Post("/events/:id/approve", eventsHandler.Approve)
	adminRoutes.Post("/events/:id/reject", eventsHandler.Reject)
	adminRoutes.Get("/gallery/pending", galleryHandler.Pending)
	adminRoutes.Post("/gallery/:id/approve", galleryHandler.Approve)
	adminRoutes.Post("/gallery/:id/reject", galleryHandler.Reject)

	return &testEnv{app: app, db: db, store: store}
}

func createTestAdmin(t *testing.T, db *gorm.DB) (*models.User, string) {
	t.Helper()
	return createTestUser(t, db, "admin-user", "admin-user@example.com", models.UserRoleAdmin, nil, true)
}

func createTestContributor(t *testing.T, db *gorm.DB, username, barangay string, approved bool) (*models.User, string) {
	t.Helper()
	return createTestUser(t, db, username, username+"@example.com", models.UserRoleContributor, &barangay, approved)
}

func createTestUser(t *testing.T, db *gorm.DB, username, email string, role models.UserRole, barangay *string, approved bool) (*models.User, string) {
	t.Helper()

	hash, err := utils.HashPassword("secret-pass-123")
	if err != nil {
		t.Fatalf("failed hashing password: %v", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Barangay:     barangay,
		IsApproved:   approved,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed creating test user: %v", err)
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		t.Fatalf("failed generating auth token: %v", err)
	}

	return user, token
}

func authHeaders(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func performRequest(t *testing.T, app *fiber.App, method, path string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := app.Test(req, int((10 * time.Second).Milliseconds()))
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}

	return resp
}

func performJSONRequest(t *testing.T, app *fiber.App, method, path string, payload any, headers map[string]string) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	requestHeaders := map[string]string{}
	for key, value := range headers {
		requestHeaders[key] = value
	}
	if payload != nil {
		requestHeaders["Content-Type"] = "application/json"
	}

	return performRequest(t, app, method, path, body, requestHeaders)
}

// performFormRequest submits a multipart form, optionally with one file.
func performFormRequest(t *testing.T, app *fiber.App, method, path string, fields map[string]string, fileField, filename string, fileContent []byte, headers map[string]string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed writing form field %q: %v", key, err)
		}
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, filename)
		if err != nil {
			t.Fatalf("failed creating form file: %v", err)
		}
		if _, err := part.Write(fileContent); err != nil {
			t.Fatalf("failed writing form file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed closing multipart writer: %v", err)
	}

	requestHeaders := map[string]string{}
	for key, value := range headers {
		requestHeaders[key] = value
	}
	requestHeaders["Content-Type"] = writer.FormDataContentType()

	return performRequest(t, app, method, path, &buf, requestHeaders)
}

func decodeJSONMap(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed reading response body: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("failed decoding JSON response: %v body=%q", err, string(raw))
	}

	return payload
}

func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Fatalf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

func assertEnvelopeError(t *testing.T, body map[string]any, expected string) {
	t.Helper()
	if success, _ := body["success"].(bool); success {
		t.Fatalf("expected success=false, got %+v", body)
	}
	if got, _ := body["error"].(string); got != expected {
		t.Fatalf("expected error %q, got %q", expected, got)
	}
}

func envelopeData(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %T", body["data"])
	}
	return data
}

func envelopeList(t *testing.T, body map[string]any) []any {
	t.Helper()
	data, ok := body["data"].([]any)
	if !ok {
		t.Fatalf("expected data array, got %T", body["data"])
	}
	return data
}
