package middlewares

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"invoicing-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestIdempotencyReplay(t *testing.T) {
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.IdempotencyKey{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	calls := 0
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", "u1")
		return c.Next()
	})
	app.Use(Idempotency(db))
	app.Post("/op", func(c *fiber.Ctx) error {
		calls++
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"calls": calls})
	})

	send := func(body, key string) (*http.Response, string) {
		req := httptest.NewRequest(http.MethodPost, "/op", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Idempotency-Key", key)
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		raw, _ := io.ReadAll(resp.Body)
		return resp, string(raw)
	}

	resp, first := send(`{"n":1}`, "k1")
	if resp.StatusCode != http.StatusCreated || calls != 1 {
		t.Fatalf("first call: status=%d calls=%d", resp.StatusCode, calls)
	}

	// Replay with same key and payload: stored response, handler not rerun
	resp, second := send(`{"n":1}`, "k1")
	if resp.StatusCode != http.StatusCreated || calls != 1 {
		t.Fatalf("replay ran handler again: status=%d calls=%d", resp.StatusCode, calls)
	}
	if first != second {
		t.Fatalf("replay body differs: %q vs %q", first, second)
	}

	// Same key, different payload: rejected
	resp, _ = send(`{"n":2}`, "k1")
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.StatusCode)
	}
}

func TestIdempotencyRetryAfterHandlerError(t *testing.T) {
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.IdempotencyKey{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	fail := true
	calls := 0
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", "u1")
		return c.Next()
	})
	app.Use(Idempotency(db))
	app.Post("/op", func(c *fiber.Ctx) error {
		calls++
		if fail {
			return fiber.NewError(fiber.StatusBadRequest, "bad payload")
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"calls": calls})
	})

	send := func(body, key string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/op", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Idempotency-Key", key)
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		return resp
	}

	resp := send(`{"n":1}`, "k2")
	if resp.StatusCode != http.StatusBadRequest || calls != 1 {
		t.Fatalf("first call: status=%d calls=%d", resp.StatusCode, calls)
	}

	// The failed attempt must not pin the key to the bad payload: a
	// corrected retry under the same key runs the handler for real.
	fail = false
	resp = send(`{"n":2}`, "k2")
	if resp.StatusCode != http.StatusCreated || calls != 2 {
		t.Fatalf("retry after error: status=%d calls=%d", resp.StatusCode, calls)
	}
}
