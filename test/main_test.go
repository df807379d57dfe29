package test

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"taskman/internal/models"
	"taskman/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Fake task backend in front of the real client: fiber handlers, bcrypt
// credentials, HS256 tokens and the page/sort contract the client consumes.

var (
	testSecret = []byte("test-secret")
	baseURL    string

	// users dipetakan ke bcrypt hash dari passwordnya.
	users = map[string]string{}
	roles = map[string]string{
		"alice": "member",
		"bob":   "member",
		"root":  "admin",
	}

	store = &taskStore{tasks: map[string]models.Task{}}
)

type taskStore struct {
	mu    sync.Mutex
	tasks map[string]models.Task
}

func (s *taskStore) list() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	return out
}

func (s *taskStore) get(id string) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	return t, ok
}

func (s *taskStore) put(t models.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[t.TaskID] = t
}

func (s *taskStore) delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, id)
}

func TestMain(m *testing.M) {
	logDir, err := os.MkdirTemp("", "e2e-logs")
	if err != nil {
		log.Fatalf("Cannot create log dir: %v", err)
	}
	logger.InitLoggers(logDir)

	for user, password := range map[string]string{
		"alice": "alicepass",
		"bob":   "bobpass",
		"root":  "rootpass",
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			log.Fatalf("Cannot hash password: %v", err)
		}
		users[user] = string(hash)
	}

	app := createTestApp()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		log.Fatalf("Cannot open listener: %v", err)
	}
	go func() {
		if err := app.Listener(ln); err != nil {
			log.Printf("Test backend stopped: %v", err)
		}
	}()
	baseURL = "http://" + ln.Addr().String() + "/api"

	// Tunggu backend siap menerima koneksi.
	time.Sleep(100 * time.Millisecond)

	code := m.Run()

	_ = app.Shutdown()
	logger.SyncLoggers()
	os.RemoveAll(logDir)
	os.Exit(code)
}

func createTestApp() *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	api := app.Group("/api")
	api.Post("/auth/login", loginHandler)

	taskRoutes := api.Group("/tasks", useToken)
	taskRoutes.Get("/", listTasksHandler)
	taskRoutes.Post("/", createTaskHandler)
	taskRoutes.Get("/:id", getTaskHandler)
	taskRoutes.Put("/:id", updateTaskHandler)
	taskRoutes.Delete("/:id", deleteTaskHandler)

	return app
}

func apiError(c *fiber.Ctx, status int, message string, errs []string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":    strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_")),
		"message":   message,
		"errors":    errs,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func loginHandler(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apiError(c, 400, "Bad request", nil)
	}

	hash, ok := users[req.Username]
	if !ok || bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		return apiError(c, 401, "Authentication failed", nil)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  req.Username,
		"role": roles[req.Username],
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(testSecret)
	if err != nil {
		return apiError(c, 500, "Error generating token", nil)
	}
	return c.JSON(models.AuthResponse{Token: signed})
}

func useToken(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apiError(c, 401, "No token provided", nil)
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return apiError(c, 401, "Invalid token format", nil)
	}
	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return testSecret, nil
	})
	if err != nil || !token.Valid {
		return apiError(c, 401, "Invalid token", nil)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return apiError(c, 401, "Invalid token claims", nil)
	}
	c.Locals("username", claims["sub"].(string))
	role, _ := claims["role"].(string)
	c.Locals("role", role)
	return c.Next()
}

func validateTaskBody(task models.Task) []string {
	var errs []string
	if strings.TrimSpace(task.TaskName) == "" {
		errs = append(errs, "taskName: Task name is required")
	}
	if len(strings.TrimSpace(task.TaskDescription)) < 10 {
		errs = append(errs, "taskDescription: Task description must be at least 10 characters")
	}
	if task.DurationInHour < 0 {
		errs = append(errs, "durationInHour: must be zero or more")
	}
	return errs
}

func listTasksHandler(c *fiber.Ctx) error {
	page := c.QueryInt("page", 0)
	size := c.QueryInt("size", 10)
	if size <= 0 {
		size = 10
	}

	tasks := store.list()
	sortTasks(tasks, c.Query("sort"))

	total := len(tasks)
	totalPages := (total + size - 1) / size

	start := page * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	return c.JSON(models.TaskPage{
		Content:       tasks[start:end],
		TotalElements: total,
		TotalPages:    totalPages,
		Size:          size,
		Number:        page,
	})
}

func sortTasks(tasks []models.Task, param string) {
	field := "taskName"
	desc := false
	if param != "" {
		parts := strings.Split(param, ",")
		field = parts[0]
		desc = len(parts) == 2 && parts[1] == "desc"
	}

	less := func(a, b models.Task) bool {
		switch field {
		case "taskDate":
			return a.TaskDate < b.TaskDate
		case "durationInHour":
			return a.DurationInHour < b.DurationInHour
		default:
			return a.TaskName < b.TaskName
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		if desc {
			return less(tasks[j], tasks[i])
		}
		return less(tasks[i], tasks[j])
	})
}

func createTaskHandler(c *fiber.Ctx) error {
	var task models.Task
	if err := c.BodyParser(&task); err != nil {
		return apiError(c, 400, "Bad request", nil)
	}
	if errs := validateTaskBody(task); len(errs) > 0 {
		return apiError(c, 400, "Validation error", errs)
	}

	task.TaskID = uuid.NewString()
	task.Username = c.Locals("username").(string)
	store.put(task)
	return c.Status(fiber.StatusCreated).JSON(task)
}

func getTaskHandler(c *fiber.Ctx) error {
	task, ok := store.get(c.Params("id"))
	if !ok {
		return apiError(c, 404, "Resource not found", nil)
	}
	return c.JSON(task)
}

func canModify(c *fiber.Ctx, task models.Task) bool {
	return c.Locals("role") == "admin" || c.Locals("username") == task.Username
}

func updateTaskHandler(c *fiber.Ctx) error {
	existing, ok := store.get(c.Params("id"))
	if !ok {
		return apiError(c, 404, "Resource not found", nil)
	}
	if !canModify(c, existing) {
		return apiError(c, 403, "Access denied", nil)
	}

	var task models.Task
	if err := c.BodyParser(&task); err != nil {
		return apiError(c, 400, "Bad request", nil)
	}
	if errs := validateTaskBody(task); len(errs) > 0 {
		return apiError(c, 400, "Validation error", errs)
	}

	task.TaskID = existing.TaskID
	task.Username = existing.Username
	store.put(task)
	return c.JSON(task)
}

func deleteTaskHandler(c *fiber.Ctx) error {
	existing, ok := store.get(c.Params("id"))
	if !ok {
		return apiError(c, 404, "Resource not found", nil)
	}
	if !canModify(c, existing) {
		return apiError(c, 403, "Access denied", nil)
	}
	store.delete(existing.TaskID)
	return c.SendStatus(fiber.StatusNoContent)
}
