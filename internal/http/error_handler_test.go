package handlers_test

import (
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"invdash/internal/config"
)

func TestErrorHandlerFriendlyMessage(t *testing.T) {
	a := newTestApp(t, config.Config{})

	// Route that triggers an internal error
	a.app.Get("/err", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusInternalServerError, "db timeout: secret trace")
	})

	resp, err := a.app.Test(httptest.NewRequest("GET", "/err", nil))
	if err != nil {
		t.Fatalf("test request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	s := string(body)
	if !strings.Contains(s, "Something went wrong") {
		t.Fatalf("friendly message missing; body=%s", s)
	}
	if strings.Contains(s, "db timeout") || strings.Contains(s, "secret") {
		t.Fatalf("internal details leaked to user; body=%s", s)
	}
}

func TestCSRFRequiredOnMutations(t *testing.T) {
	a := newTestApp(t, config.Config{})
	a.signIn(t, "sid-admin", "u-admin")
	id := a.productID(t, "Robusta Coffee 250g")
	before := a.productCount(t)

	req := httptest.NewRequest("POST", fmt.Sprintf("/dashboard/products/%d/delete", id), strings.NewReader("decision=accept"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Cookie", "sid=sid-admin")
	resp, err := a.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403 without csrf token, got %d", resp.StatusCode)
	}
	if a.productCount(t) != before {
		t.Fatal("product deleted without a csrf token")
	}
}
